package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/recjson/pkg/util/merr"
)

func TestMapRecordFields(t *testing.T) {
	r := NewMapRecord("id", "title", "id").Set("title", "Dune").Set("year", 1965)
	assert.Equal(t, []string{"id", "title", "year"}, r.Fields())

	v, err := r.GetField("title")
	require.NoError(t, err)
	assert.Equal(t, "Dune", v)

	v, err = r.GetField("id")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = r.GetField("missing")
	assert.ErrorIs(t, err, merr.ErrFieldNotFound)
}

func TestMapRecordSetField(t *testing.T) {
	r := NewMapRecord("a")
	require.NoError(t, r.SetField("a", 5))
	v, _ := r.GetField("a")
	assert.Equal(t, 5, v)

	assert.ErrorIs(t, r.SetField("zzz", 9), merr.ErrFieldNotFound)
	assert.Equal(t, []string{"a"}, r.Fields())
}

func TestMapRecordRelations(t *testing.T) {
	author := NewMapRecord("name").Set("name", "Frank")
	review := NewMapRecord("stars").Set("stars", 5)
	book := NewMapRecord("title").
		WithOne("author", author).
		WithOne("editor", nil).
		WithMany("reviews", review)

	assert.True(t, book.HasRelationOne("author"))
	assert.True(t, book.HasRelationOne("editor"))
	assert.False(t, book.HasRelationOne("reviews"))
	assert.True(t, book.HasRelationMany("reviews"))
	assert.True(t, IsRelation(book, "reviews"))
	assert.False(t, IsRelation(book, "title"))

	rel, err := book.RelationOne("author")
	require.NoError(t, err)
	assert.Same(t, author, rel)

	rel, err = book.RelationOne("editor")
	require.NoError(t, err)
	assert.Nil(t, rel)

	rels, err := book.RelationMany("reviews")
	require.NoError(t, err)
	assert.Len(t, rels, 1)

	_, err = book.RelationMany("author")
	assert.ErrorIs(t, err, merr.ErrRelationNotFound)
}
