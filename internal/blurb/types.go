package blurb

import "fmt"

// NoIssue is stored in Change.Issue when a change entry carries no issue
// reference. It is never the empty string.
const NoIssue = "none"

// Category is one of the fixed release-note sections a change can belong to.
// The zero value is not a valid category.
type Category int

const (
	categoryInvalid Category = iota
	New
	Deprecated
	Changed
	Enhanced
	Fix
	Improvement
	Packaging
	Docs
	Development
)

// categoryInfo holds the YAML key and display label for each category,
// indexed by Category.
var categoryInfo = [...]struct {
	key   string
	label string
}{
	categoryInvalid: {"", ""},
	New:             {"new", "New Functionality"},
	Deprecated:      {"deprecated", "Deprecated"},
	Changed:         {"changed", "Changed"},
	Enhanced:        {"enhanced", "Enhancements"},
	Fix:             {"fix", "Bug Fixes"},
	Improvement:     {"improvement", "Improvements"},
	Packaging:       {"packaging", "Packaging"},
	Docs:            {"docs", "Documentation"},
	Development:     {"development", "Development"},
}

// Categories returns every valid category in rendering order.
func Categories() []Category {
	return []Category{New, Deprecated, Changed, Enhanced, Fix, Improvement, Packaging, Docs, Development}
}

// ParseCategory maps a blurb `type` value to its Category.
// Matching is exact; "Fix" or "fixes" are rejected with ErrUnknownCategory.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if categoryInfo[c].key == s {
			return c, nil
		}
	}
	return categoryInvalid, fmt.Errorf("%w %q (valid: %v)", ErrUnknownCategory, s, Categories())
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return c > categoryInvalid && int(c) < len(categoryInfo)
}

// String returns the YAML key of the category (e.g. "fix").
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryInfo[c].key
}

// Label returns the section heading used in the release notes.
func (c Category) Label() string {
	if !c.Valid() {
		return ""
	}
	return categoryInfo[c].label
}

// Change is a single validated change entry.
type Change struct {
	Category    Category
	Issue       string
	Description string
}

// HasIssue returns true if the change references an issue.
func (c Change) HasIssue() bool {
	return c.Issue != NoIssue
}

// Document is one author's blurb file: the author entry plus its change
// entries in file order. Documents are built once by the Loader and not
// modified afterwards.
type Document struct {
	Author  string
	Changes []Change
	// Source is the file the document was loaded from, for diagnostics.
	Source string
}
