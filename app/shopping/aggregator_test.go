package shopping

import (
	"math"
	"testing"
)

func TestAggregator_MergesByFoldedName(t *testing.T) {
	items := NewAggregator().Run([]Usage{
		{Name: "Flour", Quantity: 1, Unit: "cup", Category: "Baking", RecipeID: "r1", ServingsMultiplier: 1},
		{Name: "flour", Quantity: 2, Unit: "tbsp", Category: "Baking", RecipeID: "r2", ServingsMultiplier: 1},
		{Name: "FLOUR", Quantity: 1, Unit: "cups", Category: "Baking", RecipeID: "r1", ServingsMultiplier: 1},
	})

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d (%+v)", len(items), items)
	}

	item := items[0]
	if item.Name != "Flour" {
		t.Errorf("Expected first-seen name 'Flour', got: %s", item.Name)
	}
	if item.Unit != "cup" {
		t.Errorf("Expected unit 'cup', got: %s", item.Unit)
	}
	if !item.IsConverted {
		t.Error("Expected item to be marked converted")
	}
	expected := 2 + 2*14.787/236.588
	if math.Abs(item.Quantity-expected) > 0.001 {
		t.Errorf("Expected ~%v, got: %v", expected, item.Quantity)
	}
	if len(item.SourceRecipeIDs) != 2 || item.SourceRecipeIDs[0] != "r1" || item.SourceRecipeIDs[1] != "r2" {
		t.Errorf("Expected recipe ids [r1 r2], got: %v", item.SourceRecipeIDs)
	}
}

func TestAggregator_AppliesServingsMultiplier(t *testing.T) {
	items := NewAggregator().Run([]Usage{
		{Name: "eggs", Quantity: 2, Unit: "", RecipeID: "r1", ServingsMultiplier: 2},
		{Name: "eggs", Quantity: 1, Unit: "", RecipeID: "r2", ServingsMultiplier: 0},
	})

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("Expected 5 eggs, got: %v", items[0].Quantity)
	}
}

func TestAggregator_IncompatibleUnitsStaySeparate(t *testing.T) {
	items := NewAggregator().Run([]Usage{
		{Name: "butter", Quantity: 1, Unit: "cup", Category: "Dairy"},
		{Name: "butter", Quantity: 1, Unit: "lb", Category: "Dairy"},
	})

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}
}

func TestAggregator_SortsByCategoryThenName(t *testing.T) {
	items := NewAggregator().Run([]Usage{
		{Name: "salt", Quantity: 1, Unit: "tsp"},
		{Name: "milk", Quantity: 1, Unit: "cup", Category: "Dairy"},
		{Name: "Apples", Quantity: 3, Unit: "", Category: "Produce"},
		{Name: "butter", Quantity: 2, Unit: "tbsp", Category: "Dairy"},
		{Name: "", Quantity: 1, Unit: "cup"},
	})

	expected := []string{"butter", "milk", "Apples", "salt"}
	if len(items) != len(expected) {
		t.Fatalf("Expected %d items, got: %d", len(expected), len(items))
	}
	for i, name := range expected {
		if items[i].Name != name {
			t.Errorf("Position %d: expected '%s', got: '%s'", i, name, items[i].Name)
		}
	}
}

func TestServingsMultiplier(t *testing.T) {
	tests := []struct {
		planned, base int
		expected      float64
	}{
		{8, 4, 2},
		{2, 4, 0.5},
		{4, 0, 1},
		{0, 4, 1},
	}

	for _, tt := range tests {
		if got := ServingsMultiplier(tt.planned, tt.base); got != tt.expected {
			t.Errorf("ServingsMultiplier(%d, %d): expected %v, got: %v", tt.planned, tt.base, tt.expected, got)
		}
	}
}
