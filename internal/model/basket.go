package model

import "strings"

// BasketEntry is one line of the shopping basket.
type BasketEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	OriginalName *string `json:"originalName"`
	Quantity     string  `json:"quantity"`
	Unit         string  `json:"unit"`
	RecipeTitle  string  `json:"recipeTitle"`
	RecipeID     string  `json:"recipeId"`
	IsChecked    bool    `json:"isChecked"`
}

// ConsolidationKey identifies entries that describe the same purchasable item.
type ConsolidationKey struct {
	Name string
	Unit string
}

// Key returns the normalized (name, unit) pair of the entry.
func (e BasketEntry) Key() ConsolidationKey {
	return ConsolidationKey{
		Name: normalize(e.Name),
		Unit: normalize(e.Unit),
	}
}

// Substituted reports whether the entry name replaces an original ingredient.
func (e BasketEntry) Substituted() bool {
	return e.OriginalName != nil
}

// Sources returns the recipe titles recorded as provenance of the entry.
func (e BasketEntry) Sources() []string {
	return SplitTitles(e.RecipeTitle)
}

// TitleSeparator joins the recipe titles of a consolidated entry.
const TitleSeparator = ", "

// SplitTitles splits a provenance string into its recipe titles.
func SplitTitles(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, TitleSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
