package models

import "testing"

func TestValidMealSlot(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"breakfast", SlotBreakfast, true},
		{"snack", SlotSnack, true},
		{"dessert is not a slot", "Dessert", false},
		{"lowercase", "lunch", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidMealSlot(tt.value); got != tt.want {
				t.Fatalf("ValidMealSlot(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeMealSlot(t *testing.T) {
	t.Parallel()

	if got := NormalizeMealSlot("  dinner "); got != SlotDinner {
		t.Fatalf("NormalizeMealSlot returned %q, want %q", got, SlotDinner)
	}

	if got := NormalizeMealSlot("brunch"); got != "" {
		t.Fatalf("NormalizeMealSlot returned %q, want empty", got)
	}
}

func TestRecipeMealTypeName(t *testing.T) {
	t.Parallel()

	var untagged Recipe
	if got := untagged.MealTypeName(); got != "" {
		t.Fatalf("MealTypeName() = %q, want empty", got)
	}

	tagged := Recipe{MealTypeLink: &RecipeMealType{MealType: MealType{Name: "Lunch"}}}
	if got := tagged.MealTypeName(); got != "Lunch" {
		t.Fatalf("MealTypeName() = %q, want %q", got, "Lunch")
	}
}
