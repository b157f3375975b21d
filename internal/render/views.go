package render

import (
	"github.com/ariel-frischer/blurbs/internal/aggregate"
	"github.com/ariel-frischer/blurbs/internal/blurb"
)

// Metadata is shared by both documents.
type Metadata struct {
	Version         string
	PreviousVersion string
	// Shortlog is the contributor summary, one "count<TAB>name" line per author.
	Shortlog string
	// Date is the generation time in RFC 2822 form. See Timestamp.
	Date string
}

// Section is one category of the release notes.
type Section struct {
	Category blurb.Category
	Label    string
	Changes  []blurb.Change
}

// Empty returns true if the section has no changes.
func (s Section) Empty() bool {
	return len(s.Changes) == 0
}

// ReleaseView is the data handed to the release notes template.
type ReleaseView struct {
	Metadata
	// Sections lists every category in declaration order, empty ones included.
	Sections []Section
}

// ChangelogView is the data handed to the changelog template.
type ChangelogView struct {
	Metadata
	// Authors is in changelog order (surname, given name, name as written).
	Authors []aggregate.AuthorDocuments
}

// BuildReleaseView groups the state's changes into release note sections.
func BuildReleaseView(s *aggregate.State, meta Metadata) ReleaseView {
	categories := blurb.Categories()
	sections := make([]Section, len(categories))
	for i, c := range categories {
		sections[i] = Section{
			Category: c,
			Label:    c.Label(),
			Changes:  s.Changes(c),
		}
	}
	return ReleaseView{Metadata: meta, Sections: sections}
}

// BuildChangelogView orders the state's authors for the changelog.
// It fails if any author name cannot be ordered.
func BuildChangelogView(s *aggregate.State, meta Metadata) (ChangelogView, error) {
	authors, err := s.OrderedAuthors()
	if err != nil {
		return ChangelogView{}, err
	}
	return ChangelogView{Metadata: meta, Authors: authors}, nil
}
