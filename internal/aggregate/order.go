package aggregate

import (
	"errors"
	"sort"
	"strings"

	"github.com/ariel-frischer/blurbs/internal/blurb"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AuthorKey is the changelog sort key of an author name.
type AuthorKey struct {
	Last     string
	First    string
	Original string
}

// Less orders keys by surname, then given name, then the name as written.
// The last comparison makes the order total even when two names differ only
// in case.
func (k AuthorKey) Less(o AuthorKey) bool {
	if k.Last != o.Last {
		return k.Last < o.Last
	}
	if k.First != o.First {
		return k.First < o.First
	}
	return k.Original < o.Original
}

// AuthorDocuments is one author's bucket in changelog order.
type AuthorDocuments struct {
	Author    string
	Documents []*blurb.Document
}

// Changes returns the author's changes across all documents, in order.
func (a AuthorDocuments) Changes() []blurb.Change {
	var out []blurb.Change
	for _, d := range a.Documents {
		out = append(out, d.Changes...)
	}
	return out
}

// SortKey builds the sort key for a "First Last" author name.
// Names that do not split into exactly two words return ErrMalformedAuthor.
func SortKey(name string) (AuthorKey, error) {
	parts := strings.Fields(name)
	if len(parts) != 2 {
		return AuthorKey{}, &blurb.ValidationError{
			Field: "author",
			Value: name,
			Err:   blurb.ErrMalformedAuthor,
		}
	}
	lower := cases.Lower(language.Und)
	return AuthorKey{
		Last:     lower.String(parts[1]),
		First:    lower.String(parts[0]),
		Original: name,
	}, nil
}

// SortAuthors returns names ordered by SortKey. The input is not modified.
func SortAuthors(names []string) ([]string, error) {
	keys := make([]AuthorKey, len(names))
	for i, n := range names {
		k, err := SortKey(n)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Original
	}
	return out, nil
}

// OrderedAuthors returns the author buckets in changelog order.
// Document order inside each bucket is the order they were added.
func (s *State) OrderedAuthors() ([]AuthorDocuments, error) {
	names, err := SortAuthors(s.Authors())
	if err != nil {
		var ve *blurb.ValidationError
		if errors.As(err, &ve) {
			if docs := s.documentsByAuthor[ve.Value]; len(docs) > 0 {
				ve.File = docs[0].Source
			}
		}
		return nil, err
	}

	out := make([]AuthorDocuments, len(names))
	for i, n := range names {
		out[i] = AuthorDocuments{Author: n, Documents: s.Documents(n)}
	}
	return out, nil
}
