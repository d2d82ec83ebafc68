package catalog

import (
	"testing"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAuthorFilter_Spec(t *testing.T) {
	blank := " "
	last := " Aus "
	hasBooks := false

	assert.True(t, AuthorFilter{FirstName: &blank}.Spec().IsEmpty())

	criteria := AuthorFilter{LastName: &last, HasBooks: &hasBooks}.Spec().Criteria()
	assert.Equal(t, []shared.Criterion{
		shared.Contains(AuthorLastName, "Aus"),
		shared.Has(AuthorBooks, false),
	}, criteria)
}

func TestBookFilter_Spec(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.True(t, BookFilter{}.Spec().IsEmpty())
	})

	t.Run("combines every criterion", func(t *testing.T) {
		title := "dune"
		author := "frank herbert"
		authorID := int64(3)
		minPrice := decimal.NewFromInt(5)
		maxPrice := decimal.NewFromInt(30)
		available := true

		criteria := BookFilter{
			Title:      &title,
			AuthorName: &author,
			AuthorID:   &authorID,
			MinPrice:   &minPrice,
			MaxPrice:   &maxPrice,
			Available:  &available,
		}.Spec().Criteria()

		assert.Len(t, criteria, 6)
		assert.Equal(t, shared.Contains(BookTitle, "dune"), criteria[0])
		assert.Equal(t, shared.OpAll, criteria[1].Op)
		assert.Equal(t, shared.Eq(BookAuthorID, int64(3)), criteria[2])
		assert.Equal(t, shared.Gte(BookStock, 1), criteria[5])
	})

	t.Run("unavailable means no stock", func(t *testing.T) {
		available := false
		criteria := BookFilter{Available: &available}.Spec().Criteria()
		assert.Equal(t, []shared.Criterion{shared.Lte(BookStock, 0)}, criteria)
	})
}
