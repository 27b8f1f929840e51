package models

// IngredientRecord is one detected food item with its nutrition values.
type IngredientRecord struct {
	Name     string  `json:"name"`
	WeightG  float64 `json:"weight_g"`  // grams
	Calories float64 `json:"calories"`  // kcal
	ProteinG float64 `json:"protein_g"` // grams
	CarbsG   float64 `json:"carbs_g"`   // grams
	FatG     float64 `json:"fat_g"`     // grams
}

// NutritionTotals is the field-wise sum over a list of ingredients. It is
// always derived, never stored.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Totals sums calories, protein, carbs and fat across ingredients.
func Totals(ingredients []IngredientRecord) NutritionTotals {
	var t NutritionTotals
	for _, ing := range ingredients {
		t.Calories += ing.Calories
		t.ProteinG += ing.ProteinG
		t.CarbsG += ing.CarbsG
		t.FatG += ing.FatG
	}
	return t
}
