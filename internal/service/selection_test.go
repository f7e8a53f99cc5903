package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

func TestSelection(t *testing.T) {
	sel := NewSelection()

	_, ok := sel.Pending()
	assert.False(t, ok)

	require.NoError(t, sel.Select(model.RecipeSummary{RecipeID: "r1", Title: "Pancakes"}))
	require.NoError(t, sel.Select(model.RecipeSummary{RecipeID: "r2", Title: "Waffles"}))

	pending, ok := sel.Pending()
	require.True(t, ok)
	assert.Equal(t, "r2", pending.RecipeID, "a new selection replaces the previous one")

	sel.Clear()
	_, ok = sel.Pending()
	assert.False(t, ok)
}

func TestSelectionRejectsIncompleteRecipe(t *testing.T) {
	sel := NewSelection()
	var vErr *model.ValidationError
	assert.ErrorAs(t, sel.Select(model.RecipeSummary{Title: "No id"}), &vErr)
	_, ok := sel.Pending()
	assert.False(t, ok)
}
