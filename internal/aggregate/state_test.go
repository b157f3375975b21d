package aggregate

import (
	"testing"

	"github.com/ariel-frischer/blurbs/internal/blurb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(author string, changes ...blurb.Change) *blurb.Document {
	return &blurb.Document{Author: author, Changes: changes, Source: author + ".yaml"}
}

func change(c blurb.Category, desc string) blurb.Change {
	return blurb.Change{Category: c, Issue: blurb.NoIssue, Description: desc}
}

func TestNewState_EveryCategoryPresent(t *testing.T) {
	s := NewState()
	for _, c := range blurb.Categories() {
		changes := s.Changes(c)
		assert.NotNil(t, changes, c.String())
		assert.Empty(t, changes, c.String())
	}
	assert.Empty(t, s.Authors())
	assert.Zero(t, s.DocumentCount())
	assert.Zero(t, s.ChangeCount())
}

func TestState_Add(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Add(doc("Jane Doe", change(blurb.Fix, "First fix"), change(blurb.New, "Feature"))))
	require.NoError(t, s.Add(doc("John Adams", change(blurb.Fix, "Second fix"))))
	require.NoError(t, s.Add(doc("Jane Doe", change(blurb.Docs, "Docs"))))

	assert.Equal(t, []blurb.Change{change(blurb.Fix, "First fix"), change(blurb.Fix, "Second fix")}, s.Changes(blurb.Fix))
	assert.Equal(t, 1, s.CategoryCount(blurb.New))
	assert.Equal(t, 0, s.CategoryCount(blurb.Packaging))

	assert.Equal(t, []string{"Jane Doe", "John Adams"}, s.Authors())
	assert.Len(t, s.Documents("Jane Doe"), 2)
	assert.Equal(t, 3, s.AuthorChangeCount("Jane Doe"))
	assert.Equal(t, 3, s.DocumentCount())
	assert.Equal(t, 4, s.ChangeCount())
}

func TestState_Add_ConservesChanges(t *testing.T) {
	s := NewState()
	docs := []*blurb.Document{
		doc("Jane Doe", change(blurb.Fix, "A"), change(blurb.Improvement, "B")),
		doc("John Adams"),
		doc("Ada Lovelace", change(blurb.Development, "C"), change(blurb.Development, "D"), change(blurb.Deprecated, "E")),
	}
	for _, d := range docs {
		require.NoError(t, s.Add(d))
	}

	byCategory := 0
	for _, c := range blurb.Categories() {
		byCategory += s.CategoryCount(c)
	}
	byAuthor := 0
	for _, a := range s.Authors() {
		byAuthor += s.AuthorChangeCount(a)
	}
	assert.Equal(t, 5, byCategory)
	assert.Equal(t, byCategory, byAuthor)
	assert.Equal(t, byCategory, s.ChangeCount())
}

func TestState_Add_UnknownCategoryLeavesStateUnchanged(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Add(doc("Jane Doe", change(blurb.Fix, "Ok"))))

	bad := doc("John Adams", change(blurb.New, "Fine"), blurb.Change{Category: blurb.Category(42), Description: "Bad"})
	err := s.Add(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, blurb.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "John Adams.yaml")
	assert.Contains(t, err.Error(), "changes[1].type")

	assert.Equal(t, []string{"Jane Doe"}, s.Authors())
	assert.Equal(t, 0, s.CategoryCount(blurb.New))
	assert.Equal(t, 1, s.ChangeCount())
}

func TestState_AccessorsReturnCopies(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Add(doc("Jane Doe", change(blurb.Fix, "Original"))))

	changes := s.Changes(blurb.Fix)
	changes[0].Description = "Mutated"
	docs := s.Documents("Jane Doe")
	docs[0] = nil

	assert.Equal(t, "Original", s.Changes(blurb.Fix)[0].Description)
	assert.NotNil(t, s.Documents("Jane Doe")[0])
}

func TestState_Add_NilDocument(t *testing.T) {
	assert.Error(t, NewState().Add(nil))
}
