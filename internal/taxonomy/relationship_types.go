package taxonomy

import (
	"fmt"
	"strings"
)

// RelationshipType is a directional edge kind with the entity-type pairs it
// is legal between. Wire names are not unique across members: INCLUDES,
// NEEDS_FOR, BELONGS_TO and FROM each cover more than one pair.
type RelationshipType struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Sources     []EntityType `json:"-"`
	Targets     []EntityType `json:"-"`
	Directional bool         `json:"directional"`
}

// relationshipTable is the single source of truth for legal transitions.
// Inference, validation and the schema matrix all derive from this slice;
// nothing else may enumerate pairs independently. Declaration order decides
// the canonical representative for shared wire names.
var relationshipTable = []RelationshipType{
	rel("USES", "A recipe uses an ingredient.", Recipe, Ingredient),
	rel("INCLUDES", "A recipe includes another recipe as a component.", Recipe, Recipe),
	rel("MADE_FROM", "A meal is made from a recipe.", Meal, Recipe),
	rel("INCLUDES", "A meal includes a standalone ingredient.", Meal, Ingredient),
	rel("SCHEDULES", "A meal plan schedules an ingredient.", MealPlan, Ingredient),
	rel("SCHEDULES", "A meal plan schedules a recipe.", MealPlan, Recipe),
	rel("SCHEDULES", "A meal plan schedules a meal.", MealPlan, Meal),
	rel("CONTAINS", "A shopping list contains an ingredient to purchase.", ShoppingList, Ingredient),
	rel("NEEDS_FOR", "A shopping list gathers what is needed for a recipe.", ShoppingList, Recipe),
	rel("NEEDS_FOR", "A shopping list gathers what is needed for a meal.", ShoppingList, Meal),
	rel("NEEDS_FOR", "A shopping list gathers what is needed for a meal plan.", ShoppingList, MealPlan),
	rel("LOCATED_IN", "An ingredient is found at a store location.", Ingredient, StoreLocation),
	rel("BELONGS_TO", "A recipe belongs to a cuisine.", Recipe, Cuisine),
	rel("BELONGS_TO", "A meal belongs to a cuisine.", Meal, Cuisine),
	rel("FROM", "A source derives from another source.", Source, Source),
	rel("FROM", "A recipe comes from a source.", Recipe, Source),
}

func rel(name, description string, from, to EntityType) RelationshipType {
	return RelationshipType{
		Name:        name,
		Description: description,
		Sources:     []EntityType{from},
		Targets:     []EntityType{to},
		Directional: true,
	}
}

// StandardRelationshipTypes returns every legal transition in declaration order.
func StandardRelationshipTypes() []RelationshipType {
	out := make([]RelationshipType, len(relationshipTable))
	copy(out, relationshipTable)
	return out
}

// CustomRelationshipType builds an unconstrained relationship for wire names
// outside the standard set. Empty source and target sets mean any pair is legal.
func CustomRelationshipType(name string) RelationshipType {
	return RelationshipType{
		Name:        name,
		Description: "Custom relationship.",
		Directional: true,
	}
}

// Infer returns the unique relationship type for an ordered entity-type pair,
// or false when no relationship is possible. Custom entity types never match.
func Infer(from, to EntityType) (RelationshipType, bool) {
	for _, r := range relationshipTable {
		if containsType(r.Sources, from) && containsType(r.Targets, to) {
			return r, true
		}
	}
	return RelationshipType{}, false
}

// ByName resolves a wire name to a relationship record. The mapping is lossy:
// when several pairs share a name, the first declared one is the canonical
// representative. Pair-based Infer stays authoritative.
func ByName(name string) (RelationshipType, bool) {
	for _, r := range relationshipTable {
		if strings.EqualFold(name, r.Name) {
			return r, true
		}
	}
	return RelationshipType{}, false
}

// IsValid reports whether the relationship may connect from to to.
// An empty source or target set is treated as satisfied, so a fully
// unconstrained (custom) relationship accepts every pair.
func IsValid(r RelationshipType, from, to EntityType) bool {
	if len(r.Sources) > 0 && !containsType(r.Sources, from) {
		return false
	}
	if len(r.Targets) > 0 && !containsType(r.Targets, to) {
		return false
	}
	return true
}

// Explain returns a diagnostic for an illegal pair, or the empty string when
// the pair is legal.
func Explain(r RelationshipType, from, to EntityType) string {
	if IsValid(r, from, to) {
		return ""
	}
	return fmt.Sprintf("relationship %s is not allowed from %s to %s", r.Name, from.Label, to.Label)
}

func containsType(set []EntityType, t EntityType) bool {
	for _, s := range set {
		if !s.custom && !t.custom && strings.EqualFold(s.Name, t.Name) {
			return true
		}
	}
	return false
}
