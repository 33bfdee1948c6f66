package server

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/database"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/extraction"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/logger"
)

// countingProvider records how often Embed is invoked. The counter is atomic
// because batch embedding fans out across goroutines.
type countingProvider struct {
	calls   atomic.Int64
	vectors map[string][]float32
}

func (p *countingProvider) Name() string    { return "counting" }
func (p *countingProvider) Dimensions() int { return 4 }

func (p *countingProvider) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	p.calls.Add(1)
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		if v, ok := p.vectors[in]; ok {
			out[i] = v
			continue
		}
		out[i] = []float32{1, 0, 0, 0}
	}
	return out, nil
}

type stubRenderer struct{ html string }

func (r *stubRenderer) Render(context.Context, string) (string, error) { return r.html, nil }

type stubExtractor struct{ recipe *extraction.Recipe }

func (e *stubExtractor) Extract(context.Context, string) (*extraction.Recipe, error) {
	return e.recipe, nil
}

func setupServer(t *testing.T) (*MCPServer, *database.DBManager, *countingProvider) {
	t.Helper()
	cfg := database.NewConfig()
	cfg.URL = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.EmbeddingDims = 4
	db, err := database.NewDBManager(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider := &countingProvider{vectors: map[string][]float32{}}
	db.SetProvider(provider)

	return NewMCPServer(db, logger.NewNop(), nil, nil), db, provider
}

func callSimilar(t *testing.T, s *MCPServer, name string, topK int) (*mcp.CallToolResultFor[apptype.SimilarIngredientsResult], error) {
	t.Helper()
	return s.handleSimilarIngredients(context.Background(), nil, &mcp.CallToolParamsFor[apptype.SimilarIngredientsArgs]{
		Arguments: apptype.SimilarIngredientsArgs{IngredientName: name, TopK: topK},
	})
}

func TestSimilarIngredientsRejectsBlankNameBeforeEmbedding(t *testing.T) {
	s, _, provider := setupServer(t)

	_, err := callSimilar(t, s, "", 5)
	require.Error(t, err)
	_, err = callSimilar(t, s, "   ", 5)
	require.Error(t, err)

	assert.EqualValues(t, 0, provider.calls.Load())
}

func TestSimilarIngredientsRejectsTopKOutOfRangeBeforeEmbedding(t *testing.T) {
	s, _, provider := setupServer(t)

	for _, k := range []int{0, -1, 51, 100} {
		_, err := callSimilar(t, s, "garlic", k)
		require.Error(t, err, "topK=%d", k)
	}
	assert.EqualValues(t, 0, provider.calls.Load())
}

func TestSimilarIngredientsRanksStoredVectors(t *testing.T) {
	s, db, provider := setupServer(t)
	ctx := context.Background()

	vectors := map[string][]float32{
		"A": {1, 0, 0, 0},
		"B": {0, 1, 0, 0},
		"C": {0.7071, 0.7071, 0, 0},
		"D": {-1, 0, 0, 0},
	}
	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := db.CreateNode(ctx, apptype.Entity{
			Name: name, EntityType: "Ingredient", Embedding: vectors[name],
		})
		require.NoError(t, err)
	}
	provider.vectors["garlic"] = []float32{1, 0, 0, 0}

	result, err := callSimilar(t, s, "garlic", 4)
	require.NoError(t, err)
	require.EqualValues(t, 1, provider.calls.Load())

	got := result.StructuredContent.Results
	require.Len(t, got, 4)
	assert.Equal(t, []string{"A", "C", "B", "D"}, []string{got[0].Name, got[1].Name, got[2].Name, got[3].Name})
}

func TestCreateRelationshipInfersAndRejects(t *testing.T) {
	s, db, _ := setupServer(t)
	ctx := context.Background()

	recipeID, err := db.CreateNode(ctx, apptype.Entity{Name: "Paella", EntityType: "Recipe"})
	require.NoError(t, err)
	ingredientID, err := db.CreateNode(ctx, apptype.Entity{Name: "Saffron", EntityType: "Ingredient"})
	require.NoError(t, err)

	result, err := s.handleCreateRelationship(ctx, nil, &mcp.CallToolParamsFor[apptype.CreateRelationshipArgs]{
		Arguments: apptype.CreateRelationshipArgs{FromID: recipeID, ToID: ingredientID},
	})
	require.NoError(t, err)
	assert.Equal(t, "USES", result.StructuredContent.RelationType)
	assert.True(t, result.StructuredContent.Created)

	// Same pair again is a no-op, not an error.
	result, err = s.handleCreateRelationship(ctx, nil, &mcp.CallToolParamsFor[apptype.CreateRelationshipArgs]{
		Arguments: apptype.CreateRelationshipArgs{FromID: recipeID, ToID: ingredientID},
	})
	require.NoError(t, err)
	assert.False(t, result.StructuredContent.Created)

	// Reversed direction has no defined relationship.
	_, err = s.handleCreateRelationship(ctx, nil, &mcp.CallToolParamsFor[apptype.CreateRelationshipArgs]{
		Arguments: apptype.CreateRelationshipArgs{FromID: ingredientID, ToID: recipeID},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ingredient")
	assert.Contains(t, err.Error(), "Recipe")
}

func TestGetSchemaIsDeterministic(t *testing.T) {
	s, _, _ := setupServer(t)
	ctx := context.Background()

	first, err := s.handleGetSchema(ctx, nil, &mcp.CallToolParamsFor[apptype.GetSchemaArgs]{})
	require.NoError(t, err)
	second, err := s.handleGetSchema(ctx, nil, &mcp.CallToolParamsFor[apptype.GetSchemaArgs]{})
	require.NoError(t, err)

	assert.Equal(t, first.StructuredContent, second.StructuredContent)
	assert.Len(t, first.StructuredContent.Entities, 8)
	assert.Len(t, first.StructuredContent.RelationshipMatrix, 16)
}

func TestCreateEntitiesReturnsIDsInOrder(t *testing.T) {
	s, db, _ := setupServer(t)
	ctx := context.Background()

	result, err := s.handleCreateEntities(ctx, nil, &mcp.CallToolParamsFor[apptype.CreateEntitiesArgs]{
		Arguments: apptype.CreateEntitiesArgs{Entities: []apptype.Entity{
			{Name: "Lemon", EntityType: "Ingredient"},
			{Name: "Lemonade", EntityType: "Recipe"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, result.StructuredContent.IDs, 2)

	first, err := db.GetNode(ctx, result.StructuredContent.IDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Lemon", first.Name)

	_, err = s.handleCreateEntities(ctx, nil, &mcp.CallToolParamsFor[apptype.CreateEntitiesArgs]{
		Arguments: apptype.CreateEntitiesArgs{},
	})
	assert.Error(t, err)
}

func TestImportRecipeStoresGraph(t *testing.T) {
	s, db, provider := setupServer(t)
	ctx := context.Background()

	s.renderer = &stubRenderer{html: "<html>recipe page</html>"}
	s.extractor = &stubExtractor{recipe: &extraction.Recipe{
		Name:        "Garlic Butter Pasta",
		Description: "Quick weeknight pasta.",
		Ingredients: []string{"Pasta", "Garlic", "Butter", "garlic"},
	}}

	result, err := s.handleImportRecipe(ctx, nil, &mcp.CallToolParamsFor[apptype.ImportRecipeArgs]{
		Arguments: apptype.ImportRecipeArgs{URL: "https://example.com/pasta"},
	})
	require.NoError(t, err)

	imported := result.StructuredContent
	assert.Equal(t, "Garlic Butter Pasta", imported.RecipeName)
	// Duplicate ingredient names collapse.
	require.Len(t, imported.IngredientIDs, 3)
	// One embedding call per unique ingredient name.
	assert.EqualValues(t, 3, provider.calls.Load())

	neighbors, err := db.Neighbors(ctx, []string{imported.RecipeID}, "out", 0)
	require.NoError(t, err)
	assert.Len(t, neighbors.Entities, 3)
	for _, r := range neighbors.Relations {
		assert.Equal(t, "USES", r.RelationType)
	}

	ingredient, err := db.GetNode(ctx, imported.IngredientIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Usually", ingredient.PurchaseFrequency)
	assert.NotEmpty(t, ingredient.Embedding)
}

func TestImportRecipeUnconfigured(t *testing.T) {
	s, _, _ := setupServer(t)

	_, err := s.handleImportRecipe(context.Background(), nil, &mcp.CallToolParamsFor[apptype.ImportRecipeArgs]{
		Arguments: apptype.ImportRecipeArgs{URL: "https://example.com"},
	})
	assert.ErrorContains(t, err, "not configured")
}

func TestHealthCheckReportsConfiguration(t *testing.T) {
	s, _, _ := setupServer(t)

	result, err := s.handleHealth(context.Background(), nil, &mcp.CallToolParamsFor[apptype.HealthArgs]{})
	require.NoError(t, err)
	assert.Equal(t, serverName, result.StructuredContent.Name)
	assert.Equal(t, 4, result.StructuredContent.EmbeddingDims)
	assert.Equal(t, "counting", result.StructuredContent.Provider)
}
