package taxonomy

import "strings"

// EntityType identifies what kind of domain object a node represents.
// The standard set is closed; unrecognized wire names parse into a custom
// type so clients can extend the graph without a schema change.
type EntityType struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	custom      bool
}

var (
	Ingredient = EntityType{
		Name:        "Ingredient",
		Label:       "Ingredient",
		Description: "A single food item that can be purchased and used in recipes.",
	}
	Recipe = EntityType{
		Name:        "Recipe",
		Label:       "Recipe",
		Description: "A set of instructions combining ingredients into a dish.",
	}
	Meal = EntityType{
		Name:        "Meal",
		Label:       "Meal",
		Description: "A combination of recipes and ingredients eaten together.",
	}
	ShoppingList = EntityType{
		Name:        "ShoppingList",
		Label:       "Shopping List",
		Description: "A list of items to purchase for upcoming cooking.",
	}
	MealPlan = EntityType{
		Name:        "MealPlan",
		Label:       "Meal Plan",
		Description: "A schedule of meals, recipes and ingredients over a period.",
	}
	Cuisine = EntityType{
		Name:        "Cuisine",
		Label:       "Cuisine",
		Description: "A regional or cultural style of cooking.",
	}
	StoreLocation = EntityType{
		Name:        "StoreLocation",
		Label:       "Store Location",
		Description: "A section of a store where ingredients are found.",
	}
	Source = EntityType{
		Name:        "Source",
		Label:       "Source",
		Description: "Where a recipe came from, such as a website or book.",
	}
)

// standardEntityTypes fixes declaration order. The schema matrix iterates
// this slice, so the order is part of the public contract.
var standardEntityTypes = []EntityType{
	Ingredient,
	Recipe,
	Meal,
	ShoppingList,
	MealPlan,
	Cuisine,
	StoreLocation,
	Source,
}

// StandardEntityTypes returns the eight standard entity types in declaration order.
func StandardEntityTypes() []EntityType {
	out := make([]EntityType, len(standardEntityTypes))
	copy(out, standardEntityTypes)
	return out
}

// ParseEntityType resolves a wire name to a standard entity type,
// case-insensitively. Unknown names become a custom type carrying the
// label verbatim; a custom type never shadows one of the eight standard names.
func ParseEntityType(name string) EntityType {
	trimmed := strings.TrimSpace(name)
	for _, t := range standardEntityTypes {
		if strings.EqualFold(trimmed, t.Name) {
			return t
		}
	}
	return CustomEntityType(trimmed, "")
}

// CustomEntityType builds an open entity type for labels outside the standard set.
func CustomEntityType(label, description string) EntityType {
	return EntityType{Name: label, Label: label, Description: description, custom: true}
}

// IsCustom reports whether the type is outside the standard set.
func (t EntityType) IsCustom() bool { return t.custom }

// PurchaseFrequencies enumerates the legal values for the ingredient
// purchaseFrequency property.
var PurchaseFrequencies = []string{"Always", "Usually", "Rarely"}

// ValidPurchaseFrequency reports whether v is one of the enumerated values.
func ValidPurchaseFrequency(v string) bool {
	for _, f := range PurchaseFrequencies {
		if v == f {
			return true
		}
	}
	return false
}
