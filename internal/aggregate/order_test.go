package aggregate

import (
	"testing"

	"github.com/ariel-frischer/blurbs/internal/blurb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKey(t *testing.T) {
	tests := map[string]struct {
		name     string
		expected AuthorKey
		wantErr  bool
	}{
		"simple":             {name: "Jane Doe", expected: AuthorKey{Last: "doe", First: "jane", Original: "Jane Doe"}},
		"mixed case":         {name: "alice YOUNG", expected: AuthorKey{Last: "young", First: "alice", Original: "alice YOUNG"}},
		"non-ascii":          {name: "Émile Zola", expected: AuthorKey{Last: "zola", First: "émile", Original: "Émile Zola"}},
		"single word":        {name: "Cher", wantErr: true},
		"three words":        {name: "Mary Ann Evans", wantErr: true},
		"empty":              {name: "", wantErr: true},
		"only whitespace":    {name: "   ", wantErr: true},
		"trailing separator": {name: "Jane Doe ", expected: AuthorKey{Last: "doe", First: "jane", Original: "Jane Doe "}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			key, err := SortKey(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, blurb.ErrMalformedAuthor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}
}

func TestSortAuthors(t *testing.T) {
	tests := map[string]struct {
		names    []string
		expected []string
	}{
		"surname is case insensitive": {
			names:    []string{"Bob Zephyr", "alice young"},
			expected: []string{"alice young", "Bob Zephyr"},
		},
		"surname before given name": {
			names:    []string{"Jane Doe", "John Adams"},
			expected: []string{"John Adams", "Jane Doe"},
		},
		"given name breaks surname ties": {
			names:    []string{"Zoe Smith", "adam Smith", "Mia smith"},
			expected: []string{"adam Smith", "Mia smith", "Zoe Smith"},
		},
		"names differing only in case are ordered": {
			names:    []string{"jane doe", "Jane Doe"},
			expected: []string{"Jane Doe", "jane doe"},
		},
		"empty": {
			names:    []string{},
			expected: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := SortAuthors(tt.names)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)

			again, err := SortAuthors(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestSortAuthors_DoesNotModifyInput(t *testing.T) {
	names := []string{"Jane Doe", "John Adams"}
	_, err := SortAuthors(names)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "John Adams"}, names)
}

func TestSortAuthors_Malformed(t *testing.T) {
	_, err := SortAuthors([]string{"Jane Doe", "Prince"})
	require.Error(t, err)
	assert.ErrorIs(t, err, blurb.ErrMalformedAuthor)
	assert.Contains(t, err.Error(), "Prince")
}

func TestState_OrderedAuthors(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Add(doc("Jane Doe", change(blurb.Fix, "One"))))
	require.NoError(t, s.Add(doc("John Adams", change(blurb.New, "Two"))))
	require.NoError(t, s.Add(doc("Jane Doe", change(blurb.Docs, "Three"))))

	ordered, err := s.OrderedAuthors()
	require.NoError(t, err)
	require.Len(t, ordered, 2)

	assert.Equal(t, "John Adams", ordered[0].Author)
	assert.Equal(t, "Jane Doe", ordered[1].Author)
	assert.Len(t, ordered[1].Documents, 2)
	assert.Equal(t, []blurb.Change{change(blurb.Fix, "One"), change(blurb.Docs, "Three")}, ordered[1].Changes())
}

func TestState_OrderedAuthors_MalformedNamesFile(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Add(doc("Jane Doe")))
	require.NoError(t, s.Add(&blurb.Document{Author: "Madonna", Source: "samples/madonna.yaml"}))

	_, err := s.OrderedAuthors()
	require.Error(t, err)
	assert.ErrorIs(t, err, blurb.ErrMalformedAuthor)
	assert.Contains(t, err.Error(), "samples/madonna.yaml")
}
