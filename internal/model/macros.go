package model

// Macros represents nutrition information for a recipe serving.
type Macros struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Add returns the sum of two macro blocks.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Fat:      m.Fat + o.Fat,
		Carbs:    m.Carbs + o.Carbs,
	}
}

// IsZero reports whether no nutrition data is present.
func (m Macros) IsZero() bool {
	return m == Macros{}
}
