package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecipeSummary is the minimal recipe shape the planner consumes. Fields
// it does not know about are kept in Extra and written back unchanged.
type RecipeSummary struct {
	RecipeID string
	Title    string
	ImageRef string
	Category string
	Macros   *Macros
	Extra    map[string]json.RawMessage
}

// Validate reports the first missing required field.
func (r RecipeSummary) Validate() error {
	if strings.TrimSpace(r.RecipeID) == "" {
		return &ValidationError{Field: "recipeId", Message: "is required"}
	}
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	return nil
}

var summaryKeys = []string{"recipeId", "title", "imageRef", "category", "macros"}

// Backend recipe objects use these names; they are accepted as fallbacks.
var summaryAliases = map[string]string{
	"recipeId": "id",
	"title":    "name",
	"imageRef": "image_url",
}

func (r RecipeSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wireMap())
}

func (r *RecipeSummary) UnmarshalJSON(data []byte) error {
	extra, err := decodeSummary(data, r)
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

func (r RecipeSummary) wireMap() map[string]any {
	out := make(map[string]any, len(r.Extra)+len(summaryKeys))
	for k, v := range r.Extra {
		out[k] = v
	}
	out["recipeId"] = r.RecipeID
	out["title"] = r.Title
	out["imageRef"] = r.ImageRef
	if r.Category != "" {
		out["category"] = r.Category
	}
	if r.Macros != nil {
		out["macros"] = r.Macros
	}
	return out
}

// decodeSummary fills dst with the known fields of data and returns the
// remaining keys.
func decodeSummary(data []byte, dst *RecipeSummary, known ...string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode recipe summary: %w", err)
	}
	var macros *Macros
	if m, ok := raw["macros"]; ok && string(m) != "null" {
		macros = &Macros{}
		if err := json.Unmarshal(m, macros); err != nil {
			return nil, fmt.Errorf("failed to decode recipe macros: %w", err)
		}
	}

	*dst = RecipeSummary{
		RecipeID: firstString(raw, "recipeId"),
		Title:    firstString(raw, "title"),
		ImageRef: firstString(raw, "imageRef"),
		Category: rawString(raw["category"]),
		Macros:   macros,
	}

	for _, k := range summaryKeys {
		delete(raw, k)
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// firstString reads key, falling back to its backend alias.
func firstString(raw map[string]json.RawMessage, key string) string {
	if v := rawString(raw[key]); v != "" {
		return v
	}
	if alias, ok := summaryAliases[key]; ok {
		return rawString(raw[alias])
	}
	return ""
}

// rawString reads a JSON string or number as text.
func rawString(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

// IngredientRow is one ingredient line of a recipe as shown on the detail page.
type IngredientRow struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
	Substitute string `json:"substitute,omitempty"`
}

// RecipeIngredients groups the rows a user sends to the basket from one recipe.
type RecipeIngredients struct {
	RecipeID    string          `json:"recipeId"`
	RecipeTitle string          `json:"recipeTitle"`
	Rows        []IngredientRow `json:"ingredients"`
}
