package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/logger"
)

// setupTestDB opens an in-memory database unique to the test. The
// `cache=shared` is crucial for sharing the connection across different
// calls to `sql.Open` within the same process.
func setupTestDB(t *testing.T) *DBManager {
	t.Helper()
	config := NewConfig()
	config.URL = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	config.EmbeddingDims = 4
	db, err := NewDBManager(config, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

// mapProvider returns canned vectors keyed by input text.
type mapProvider struct {
	vectors map[string][]float32
	calls   int
}

func (p *mapProvider) Name() string    { return "map" }
func (p *mapProvider) Dimensions() int { return 4 }

func (p *mapProvider) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	p.calls++
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v, ok := p.vectors[in]
		if !ok {
			return nil, fmt.Errorf("no canned vector for %q", in)
		}
		out[i] = v
	}
	return out, nil
}

func TestCreateAndGetNode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.CreateNode(ctx, apptype.Entity{
		Name:              "Basmati Rice",
		EntityType:        "Ingredient",
		Description:       "Long-grain rice.",
		PurchaseFrequency: "Usually",
		Properties:        map[string]any{"aisle": "grains"},
		Embedding:         []float32{1, 0, 0, 0},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := db.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Basmati Rice", got.Name)
	assert.Equal(t, "Ingredient", got.EntityType)
	assert.Equal(t, "Long-grain rice.", got.Description)
	assert.Equal(t, "Usually", got.PurchaseFrequency)
	assert.Equal(t, "grains", got.Properties["aisle"])
	assert.Equal(t, []float32{1, 0, 0, 0}, got.Embedding)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestCreateNodeCanonicalizesEntityType(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.CreateNode(ctx, apptype.Entity{Name: "Pad Thai", EntityType: "recipe"})
	require.NoError(t, err)

	got, err := db.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Recipe", got.EntityType)
}

func TestCreateNodeValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.CreateNode(ctx, apptype.Entity{Name: "  ", EntityType: "Ingredient"})
	assert.Error(t, err)

	_, err = db.CreateNode(ctx, apptype.Entity{Name: "Salt", EntityType: ""})
	assert.Error(t, err)

	_, err = db.CreateNode(ctx, apptype.Entity{
		Name: "Salt", EntityType: "Ingredient", PurchaseFrequency: "Sometimes",
	})
	assert.ErrorContains(t, err, "purchaseFrequency")

	_, err = db.CreateNode(ctx, apptype.Entity{
		Name: "Curry", EntityType: "Recipe", PurchaseFrequency: "Usually",
	})
	assert.ErrorContains(t, err, "Ingredient")
}

func TestCreateNodeLiftsFrequencyFromProperties(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.CreateNode(ctx, apptype.Entity{
		Name:       "Olive Oil",
		EntityType: "Ingredient",
		Properties: map[string]any{"purchaseFrequency": "Rarely", "brand": "any"},
	})
	require.NoError(t, err)

	got, err := db.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rarely", got.PurchaseFrequency)
	assert.Equal(t, "any", got.Properties["brand"])
	_, shadowed := got.Properties["purchaseFrequency"]
	assert.False(t, shadowed)
}

func TestCreateNodeAutoEmbedsIngredient(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	provider := &mapProvider{vectors: map[string][]float32{
		"Garlic": {0, 1, 0, 0},
	}}
	db.SetProvider(provider)

	id, err := db.CreateNode(ctx, apptype.Entity{Name: "Garlic", EntityType: "Ingredient"})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	got, err := db.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0, 0}, got.Embedding)

	// Non-ingredients are never embedded.
	_, err = db.CreateNode(ctx, apptype.Entity{Name: "Dinner", EntityType: "Meal"})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestFindNodesByType(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Salt", "Pepper", "Cumin"} {
		_, err := db.CreateNode(ctx, apptype.Entity{Name: name, EntityType: "Ingredient"})
		require.NoError(t, err)
	}
	_, err := db.CreateNode(ctx, apptype.Entity{Name: "Stew", EntityType: "Recipe"})
	require.NoError(t, err)

	ingredients, err := db.FindNodesByType(ctx, "ingredient", 0)
	require.NoError(t, err)
	require.Len(t, ingredients, 3)
	assert.Equal(t, "Salt", ingredients[0].Name)

	limited, err := db.FindNodesByType(ctx, "Ingredient", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUpdateNode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.CreateNode(ctx, apptype.Entity{
		Name: "Tomato", EntityType: "Ingredient", PurchaseFrequency: "Always",
	})
	require.NoError(t, err)

	newName := "Roma Tomato"
	newFreq := "Usually"
	err = db.UpdateNode(ctx, apptype.UpdateEntitySpec{
		ID:                id,
		Name:              &newName,
		PurchaseFrequency: &newFreq,
	})
	require.NoError(t, err)

	got, err := db.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Roma Tomato", got.Name)
	assert.Equal(t, "Usually", got.PurchaseFrequency)

	empty := ""
	require.NoError(t, db.UpdateNode(ctx, apptype.UpdateEntitySpec{ID: id, PurchaseFrequency: &empty}))
	got, err = db.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.PurchaseFrequency)

	err = db.UpdateNode(ctx, apptype.UpdateEntitySpec{ID: "missing", Name: &newName})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNodeCascadesEdges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	recipeID, err := db.CreateNode(ctx, apptype.Entity{Name: "Pesto", EntityType: "Recipe"})
	require.NoError(t, err)
	ingredientID, err := db.CreateNode(ctx, apptype.Entity{Name: "Basil", EntityType: "Ingredient"})
	require.NoError(t, err)

	_, _, err = db.LinkNodes(ctx, recipeID, ingredientID)
	require.NoError(t, err)

	require.NoError(t, db.DeleteNode(ctx, ingredientID))

	relations, err := db.EdgesForNodes(ctx, []string{recipeID})
	require.NoError(t, err)
	assert.Empty(t, relations)

	assert.ErrorIs(t, db.DeleteNode(ctx, ingredientID), ErrNotFound)
}

func TestLinkNodesInfersRelationship(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	recipeID, err := db.CreateNode(ctx, apptype.Entity{Name: "Carbonara", EntityType: "Recipe"})
	require.NoError(t, err)
	ingredientID, err := db.CreateNode(ctx, apptype.Entity{Name: "Guanciale", EntityType: "Ingredient"})
	require.NoError(t, err)
	cuisineID, err := db.CreateNode(ctx, apptype.Entity{Name: "Italian", EntityType: "Cuisine"})
	require.NoError(t, err)

	relation, created, err := db.LinkNodes(ctx, recipeID, ingredientID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "USES", relation.RelationType)

	relation, created, err = db.LinkNodes(ctx, recipeID, cuisineID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "BELONGS_TO", relation.RelationType)

	// Reversed direction has no relationship.
	_, _, err = db.LinkNodes(ctx, ingredientID, recipeID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ingredient")
	assert.Contains(t, err.Error(), "Recipe")

	_, _, err = db.LinkNodes(ctx, recipeID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateEdgeDeduplicates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a, err := db.CreateNode(ctx, apptype.Entity{Name: "Soup", EntityType: "Recipe"})
	require.NoError(t, err)
	b, err := db.CreateNode(ctx, apptype.Entity{Name: "Leek", EntityType: "Ingredient"})
	require.NoError(t, err)

	created, err := db.CreateEdge(ctx, a, b, "USES")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = db.CreateEdge(ctx, a, b, "USES")
	require.NoError(t, err)
	assert.False(t, created)

	relations, err := db.EdgesForNodes(ctx, []string{a})
	require.NoError(t, err)
	assert.Len(t, relations, 1)
}

func TestDeleteEdge(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a, err := db.CreateNode(ctx, apptype.Entity{Name: "Bread", EntityType: "Recipe"})
	require.NoError(t, err)
	b, err := db.CreateNode(ctx, apptype.Entity{Name: "Flour", EntityType: "Ingredient"})
	require.NoError(t, err)

	_, err = db.CreateEdge(ctx, a, b, "USES")
	require.NoError(t, err)

	require.NoError(t, db.DeleteEdge(ctx, a, b, "USES"))
	assert.ErrorIs(t, db.DeleteEdge(ctx, a, b, "USES"), ErrNotFound)
}

func TestNeighborsDirections(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mealID, err := db.CreateNode(ctx, apptype.Entity{Name: "Sunday Roast", EntityType: "Meal"})
	require.NoError(t, err)
	recipeID, err := db.CreateNode(ctx, apptype.Entity{Name: "Roast Beef", EntityType: "Recipe"})
	require.NoError(t, err)
	planID, err := db.CreateNode(ctx, apptype.Entity{Name: "Week 34", EntityType: "MealPlan"})
	require.NoError(t, err)

	_, _, err = db.LinkNodes(ctx, mealID, recipeID) // MADE_FROM
	require.NoError(t, err)
	_, _, err = db.LinkNodes(ctx, planID, mealID) // SCHEDULES
	require.NoError(t, err)

	out, err := db.Neighbors(ctx, []string{mealID}, "out", 0)
	require.NoError(t, err)
	require.Len(t, out.Entities, 1)
	assert.Equal(t, "Roast Beef", out.Entities[0].Name)

	in, err := db.Neighbors(ctx, []string{mealID}, "in", 0)
	require.NoError(t, err)
	require.Len(t, in.Entities, 1)
	assert.Equal(t, "Week 34", in.Entities[0].Name)

	both, err := db.Neighbors(ctx, []string{mealID}, "both", 0)
	require.NoError(t, err)
	assert.Len(t, both.Entities, 2)
	assert.Len(t, both.Relations, 2)

	_, err = db.Neighbors(ctx, []string{mealID}, "sideways", 0)
	assert.Error(t, err)
}

func TestReadGraph(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	recipeID, err := db.CreateNode(ctx, apptype.Entity{Name: "Ramen", EntityType: "Recipe"})
	require.NoError(t, err)
	ingredientID, err := db.CreateNode(ctx, apptype.Entity{Name: "Noodles", EntityType: "Ingredient"})
	require.NoError(t, err)
	_, _, err = db.LinkNodes(ctx, recipeID, ingredientID)
	require.NoError(t, err)

	graph, err := db.ReadGraph(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, graph.Entities, 2)
	require.Len(t, graph.Relations, 1)
	assert.Equal(t, "USES", graph.Relations[0].RelationType)
}

func TestOpenNodes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a, err := db.CreateNode(ctx, apptype.Entity{Name: "Taco", EntityType: "Recipe"})
	require.NoError(t, err)
	b, err := db.CreateNode(ctx, apptype.Entity{Name: "Tortilla", EntityType: "Ingredient"})
	require.NoError(t, err)
	_, _, err = db.LinkNodes(ctx, a, b)
	require.NoError(t, err)

	result, err := db.OpenNodes(ctx, []string{a, b, "missing"}, true)
	require.NoError(t, err)
	assert.Len(t, result.Entities, 2)
	assert.Len(t, result.Relations, 1)

	bare, err := db.OpenNodes(ctx, []string{a, b}, false)
	require.NoError(t, err)
	assert.Empty(t, bare.Relations)
}

func TestSimilarIngredients(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	names := []string{"A", "B", "C", "D"}
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.7071, 0.7071, 0, 0},
		{-1, 0, 0, 0},
	}
	for i, name := range names {
		_, err := db.CreateNode(ctx, apptype.Entity{
			Name: name, EntityType: "Ingredient", Embedding: vectors[i],
		})
		require.NoError(t, err)
	}

	provider := &mapProvider{vectors: map[string][]float32{
		"query": {1, 0, 0, 0},
	}}
	db.SetProvider(provider)

	results, err := db.SimilarIngredients(ctx, "query", 4)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "A", results[0].Name)
	assert.Equal(t, "C", results[1].Name)
	assert.Equal(t, "B", results[2].Name)
	assert.Equal(t, "D", results[3].Name)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.InDelta(t, 0.7071, results[1].Similarity, 1e-3)

	top2, err := db.SimilarIngredients(ctx, "query", 2)
	require.NoError(t, err)
	assert.Len(t, top2, 2)
}

func TestSimilarIngredientsWithoutProvider(t *testing.T) {
	db := setupTestDB(t)
	db.provider = nil

	_, err := db.SimilarIngredients(context.Background(), "anything", 5)
	assert.ErrorContains(t, err, "provider")
}
