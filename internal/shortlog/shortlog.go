// Package shortlog builds the contributor summary printed in the release
// notes, in the layout of `git shortlog -sn`: one line per contributor with
// a right-aligned count, most active first.
package shortlog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/blurbs/internal/aggregate"
)

// Source selects where contributor counts come from.
type Source string

const (
	// SourceBlurbs counts changes per blurb author.
	SourceBlurbs Source = "blurbs"
	// SourceGit counts commits per author since the previous release tag.
	SourceGit Source = "git"
	// SourceNone leaves the shortlog empty.
	SourceNone Source = "none"
)

// ValidSources lists the accepted Source values.
func ValidSources() []string {
	return []string{string(SourceBlurbs), string(SourceGit), string(SourceNone)}
}

// Contributor is one shortlog line.
type Contributor struct {
	Name  string
	Count int
}

// FromState counts changes per author in the aggregation state.
func FromState(s *aggregate.State) ([]Contributor, error) {
	authors, err := s.OrderedAuthors()
	if err != nil {
		return nil, err
	}

	out := make([]Contributor, len(authors))
	for i, a := range authors {
		out[i] = Contributor{Name: a.Author, Count: s.AuthorChangeCount(a.Author)}
	}
	// Stable on top of the changelog order keeps ties in surname order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out, nil
}

// Format renders contributors one per line without a trailing newline.
func Format(contributors []Contributor) string {
	lines := make([]string, len(contributors))
	for i, c := range contributors {
		lines[i] = fmt.Sprintf("%6d\t%s", c.Count, c.Name)
	}
	return strings.Join(lines, "\n")
}
