// Package aggregate folds loaded blurb documents into the two groupings the
// release documents are built from: changes by category and documents by
// author. A State is created empty for each run, filled once by the loader,
// and only read afterwards.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/ariel-frischer/blurbs/internal/blurb"
)

// State holds the aggregation of one run.
type State struct {
	changesByCategory map[blurb.Category][]blurb.Change
	documentsByAuthor map[string][]*blurb.Document
	documents         int
	changes           int
}

// NewState returns an empty State with a bucket for every category, so that
// categories without changes still appear in the release notes.
func NewState() *State {
	s := &State{
		changesByCategory: make(map[blurb.Category][]blurb.Change, len(blurb.Categories())),
		documentsByAuthor: make(map[string][]*blurb.Document),
	}
	for _, c := range blurb.Categories() {
		s.changesByCategory[c] = []blurb.Change{}
	}
	return s
}

// Add records doc under its author and each of its changes under their
// category. Every change is checked before anything is recorded, so a
// document with an unknown category leaves the state untouched.
func (s *State) Add(doc *blurb.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}

	for i, c := range doc.Changes {
		if _, ok := s.changesByCategory[c.Category]; !ok {
			return &blurb.ValidationError{
				File:  doc.Source,
				Field: fmt.Sprintf("changes[%d].type", i),
				Value: c.Category.String(),
				Err:   blurb.ErrUnknownCategory,
			}
		}
	}

	s.documentsByAuthor[doc.Author] = append(s.documentsByAuthor[doc.Author], doc)
	for _, c := range doc.Changes {
		s.changesByCategory[c.Category] = append(s.changesByCategory[c.Category], c)
	}
	s.documents++
	s.changes += len(doc.Changes)
	return nil
}

// Changes returns the changes recorded for c in discovery order.
// The returned slice is a copy.
func (s *State) Changes(c blurb.Category) []blurb.Change {
	bucket := s.changesByCategory[c]
	out := make([]blurb.Change, len(bucket))
	copy(out, bucket)
	return out
}

// Documents returns the documents submitted by author in discovery order.
// The returned slice is a copy.
func (s *State) Documents(author string) []*blurb.Document {
	bucket := s.documentsByAuthor[author]
	out := make([]*blurb.Document, len(bucket))
	copy(out, bucket)
	return out
}

// Authors returns every author seen, sorted byte-wise.
// Use OrderedAuthors for the changelog ordering.
func (s *State) Authors() []string {
	authors := make([]string, 0, len(s.documentsByAuthor))
	for a := range s.documentsByAuthor {
		authors = append(authors, a)
	}
	sort.Strings(authors)
	return authors
}

// CategoryCount returns the number of changes recorded for c.
func (s *State) CategoryCount(c blurb.Category) int {
	return len(s.changesByCategory[c])
}

// AuthorChangeCount returns the number of changes across all of author's documents.
func (s *State) AuthorChangeCount(author string) int {
	n := 0
	for _, d := range s.documentsByAuthor[author] {
		n += len(d.Changes)
	}
	return n
}

// DocumentCount returns the number of documents added.
func (s *State) DocumentCount() int {
	return s.documents
}

// ChangeCount returns the number of changes added.
func (s *State) ChangeCount() int {
	return s.changes
}
