package blurb

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Keys recognised in blurb entries.
const (
	keyAuthor      = "author"
	keyType        = "type"
	keyIssue       = "issue"
	keyDescription = "description"
)

// changeKeys is the complete set of keys a change entry may carry.
var changeKeys = map[string]bool{
	keyType:        true,
	keyIssue:       true,
	keyDescription: true,
}

// entry is one YAML mapping from a blurb file, keyed by field name.
type entry struct {
	index  int
	fields map[string]*yaml.Node
	order  []string
}

// Parse reads a blurb file from r and validates it into a Document.
// The file is a YAML stream; each document in the stream is either a single
// entry mapping or a sequence of entry mappings. Exactly one entry must carry
// an author; every other entry is a change.
//
// name is used only for error messages and Document.Source.
func Parse(name string, r io.Reader) (*Document, error) {
	entries, err := decodeEntries(name, r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Source: name, Changes: []Change{}}
	authorSeen := false

	for _, e := range entries {
		if _, ok := e.fields[keyAuthor]; ok {
			if authorSeen {
				return nil, &ValidationError{File: name, Entry: e.index, Field: keyAuthor, Err: ErrDuplicateAuthor}
			}
			author, err := parseAuthor(name, e)
			if err != nil {
				return nil, err
			}
			doc.Author = author
			authorSeen = true
			continue
		}

		change, err := parseChange(name, e)
		if err != nil {
			return nil, err
		}
		doc.Changes = append(doc.Changes, change)
	}

	if !authorSeen {
		return nil, &ValidationError{File: name, Err: ErrMissingAuthor}
	}

	return doc, nil
}

// decodeEntries flattens the YAML stream into entries, numbering them
// in file order starting at 1.
func decodeEntries(name string, r io.Reader) ([]entry, error) {
	var entries []entry
	dec := yaml.NewDecoder(r)

	for {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, &ValidationError{File: name, Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
		}

		if n.Kind != yaml.DocumentNode || len(n.Content) == 0 {
			continue
		}

		root := n.Content[0]
		switch root.Kind {
		case yaml.MappingNode:
			e, err := newEntry(name, len(entries)+1, root)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		case yaml.SequenceNode:
			for _, item := range root.Content {
				if item.Kind != yaml.MappingNode {
					return nil, &ValidationError{
						File:  name,
						Entry: len(entries) + 1,
						Err:   fmt.Errorf("%w: expected a mapping at line %d", ErrSyntax, item.Line),
					}
				}
				e, err := newEntry(name, len(entries)+1, item)
				if err != nil {
					return nil, err
				}
				entries = append(entries, e)
			}
		case yaml.ScalarNode:
			// An empty document ("---" followed by nothing) decodes as a null scalar.
			if root.Tag == "!!null" {
				continue
			}
			return nil, &ValidationError{
				File: name,
				Err:  fmt.Errorf("%w: expected a mapping at line %d", ErrSyntax, root.Line),
			}
		default:
			return nil, &ValidationError{
				File: name,
				Err:  fmt.Errorf("%w: expected a mapping at line %d", ErrSyntax, root.Line),
			}
		}
	}
}

// newEntry indexes a mapping by key. yaml.v3 does not reject repeated keys
// when decoding into a Node, so they are caught here.
func newEntry(file string, index int, m *yaml.Node) (entry, error) {
	e := entry{index: index, fields: make(map[string]*yaml.Node, len(m.Content)/2)}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if _, dup := e.fields[k.Value]; dup {
			return entry{}, &ValidationError{
				File:  file,
				Entry: index,
				Field: k.Value,
				Err:   fmt.Errorf("%w at line %d", ErrDuplicateKey, k.Line),
			}
		}
		e.order = append(e.order, k.Value)
		e.fields[k.Value] = m.Content[i+1]
	}
	return e, nil
}

// parseAuthor validates the author entry. Unrelated keys such as email are
// tolerated, but change keys mean two entries ran together.
func parseAuthor(file string, e entry) (string, error) {
	for _, key := range e.order {
		if changeKeys[key] {
			return "", &ValidationError{File: file, Entry: e.index, Field: key, Err: ErrMixedEntry}
		}
	}

	author, err := scalarValue(file, e, keyAuthor)
	if err != nil {
		return "", err
	}
	author = strings.Join(strings.Fields(author), " ")
	if author == "" {
		return "", &ValidationError{File: file, Entry: e.index, Field: keyAuthor, Err: ErrMissingField}
	}
	return author, nil
}

// parseChange validates a change entry and normalizes its values.
func parseChange(file string, e entry) (Change, error) {
	for _, key := range e.order {
		if !changeKeys[key] {
			return Change{}, &ValidationError{File: file, Entry: e.index, Field: key, Err: ErrUnknownField}
		}
	}

	description, err := scalarValue(file, e, keyDescription)
	if err != nil {
		return Change{}, err
	}
	description = NormalizeDescription(description)
	if description == "" {
		return Change{}, &ValidationError{File: file, Entry: e.index, Field: keyDescription, Err: ErrMissingField}
	}

	typ, err := scalarValue(file, e, keyType)
	if err != nil {
		return Change{}, err
	}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return Change{}, &ValidationError{File: file, Entry: e.index, Field: keyType, Err: ErrMissingField}
	}
	category, err := ParseCategory(typ)
	if err != nil {
		return Change{}, &ValidationError{File: file, Entry: e.index, Field: keyType, Value: typ, Err: ErrUnknownCategory}
	}

	issue, err := scalarValue(file, e, keyIssue)
	if err != nil {
		return Change{}, err
	}
	issue = strings.TrimSpace(issue)
	if issue == "" {
		issue = NoIssue
	}

	return Change{Category: category, Issue: issue, Description: description}, nil
}

// scalarValue returns the text of a scalar field, or "" when the field is
// absent or null.
func scalarValue(file string, e entry, key string) (string, error) {
	n, ok := e.fields[key]
	if !ok {
		return "", nil
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", &ValidationError{File: file, Entry: e.index, Field: key, Err: ErrInvalidValue}
	}
	if n.Tag == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

// NormalizeDescription trims surrounding whitespace and upper-cases the
// first letter. Interior whitespace (including line breaks from folded
// YAML blocks) is left as written.
func NormalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
