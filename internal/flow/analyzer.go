package flow

import (
	"context"

	"foodlog/internal/models"
)

// Analyzer turns a captured image into ingredient records.
type Analyzer interface {
	Analyze(ctx context.Context, img models.CapturedImage) ([]models.IngredientRecord, error)
}

// AnalyzerFunc adapts a plain function to Analyzer.
type AnalyzerFunc func(ctx context.Context, img models.CapturedImage) ([]models.IngredientRecord, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, img models.CapturedImage) ([]models.IngredientRecord, error) {
	return f(ctx, img)
}

var baselineMeal = []models.IngredientRecord{
	{Name: "Grilled Chicken", WeightG: 150, Calories: 248, ProteinG: 47, CarbsG: 0, FatG: 6},
	{Name: "Lettuce", WeightG: 50, Calories: 8, ProteinG: 1, CarbsG: 2, FatG: 0},
	{Name: "Tomatoes", WeightG: 80, Calories: 14, ProteinG: 1, CarbsG: 3, FatG: 0},
	{Name: "Onions", WeightG: 30, Calories: 12, ProteinG: 0, CarbsG: 3, FatG: 0},
	{Name: "Quinoa", WeightG: 100, Calories: 120, ProteinG: 4, CarbsG: 21, FatG: 2},
}

// StaticAnalyzer ignores the image and returns the same fixed meal.
type StaticAnalyzer struct{}

func (StaticAnalyzer) Analyze(ctx context.Context, _ models.CapturedImage) ([]models.IngredientRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.IngredientRecord, len(baselineMeal))
	copy(out, baselineMeal)
	return out, nil
}

// Results is what the results screen shows.
type Results struct {
	Image       models.CapturedImage      `json:"image"`
	Ingredients []models.IngredientRecord `json:"ingredients"`
	Totals      models.NutritionTotals    `json:"totals"`
}

func newResults(img models.CapturedImage, ingredients []models.IngredientRecord) *Results {
	return &Results{
		Image:       img,
		Ingredients: ingredients,
		Totals:      models.Totals(ingredients),
	}
}
