package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/database"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/embeddings"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/extraction"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/logger"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/metrics"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/taxonomy"
)

const (
	serverName = "food-chain-mcp-go"

	minTopK = 1
	maxTopK = 50

	importParallelism = 4
)

// MCPServer handles MCP protocol communication.
type MCPServer struct {
	server    *mcp.Server
	db        *database.DBManager
	log       *logger.Logger
	renderer  extraction.Renderer
	extractor extraction.Extractor
}

// NewMCPServer creates a new MCP server over the given store. Renderer and
// extractor may be nil; import_recipe then reports itself unconfigured.
func NewMCPServer(db *database.DBManager, log *logger.Logger, renderer extraction.Renderer, extractor extraction.Extractor) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: buildinfo.Version,
	}, nil)

	if log == nil {
		log = logger.NewNop()
	}
	mcpServer := &MCPServer{
		server:    server,
		db:        db,
		log:       log,
		renderer:  renderer,
		extractor: extractor,
	}
	mcpServer.setupToolHandlers()
	return mcpServer
}

// setupToolHandlers registers all MCP tools.
func (s *MCPServer) setupToolHandlers() {
	createEntitiesInputSchema, err := jsonschema.For[apptype.CreateEntitiesArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for CreateEntitiesArgs: %v", err))
	}
	createEntitiesOutputSchema, err := jsonschema.For[apptype.CreateEntitiesResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for CreateEntitiesResult: %v", err))
	}
	createRelationshipInputSchema, err := jsonschema.For[apptype.CreateRelationshipArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for CreateRelationshipArgs: %v", err))
	}
	createRelationshipOutputSchema, err := jsonschema.For[apptype.CreateRelationshipResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for CreateRelationshipResult: %v", err))
	}
	similarInputSchema, err := jsonschema.For[apptype.SimilarIngredientsArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SimilarIngredientsArgs: %v", err))
	}
	similarOutputSchema, err := jsonschema.For[apptype.SimilarIngredientsResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SimilarIngredientsResult: %v", err))
	}
	getSchemaInputSchema, err := jsonschema.For[apptype.GetSchemaArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GetSchemaArgs: %v", err))
	}
	getSchemaOutputSchema, err := jsonschema.For[taxonomy.Schema]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for Schema: %v", err))
	}
	readGraphInputSchema, err := jsonschema.For[apptype.ReadGraphArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ReadGraphArgs: %v", err))
	}
	readGraphOutputSchema, err := jsonschema.For[apptype.GraphResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GraphResult (read): %v", err))
	}
	openNodesInputSchema, err := jsonschema.For[apptype.OpenNodesArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for OpenNodesArgs: %v", err))
	}
	// Fresh GraphResult schemas per tool to avoid re-resolving the same root.
	openNodesOutputSchema, err := jsonschema.For[apptype.GraphResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GraphResult (open_nodes): %v", err))
	}
	neighborsInputSchema, err := jsonschema.For[apptype.NeighborsArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for NeighborsArgs: %v", err))
	}
	neighborsOutputSchema, err := jsonschema.For[apptype.GraphResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GraphResult (neighbors): %v", err))
	}
	deleteEntityInputSchema, err := jsonschema.For[apptype.DeleteEntityArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for DeleteEntityArgs: %v", err))
	}
	deleteRelationshipInputSchema, err := jsonschema.For[apptype.DeleteRelationshipArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for DeleteRelationshipArgs: %v", err))
	}
	importRecipeInputSchema, err := jsonschema.For[apptype.ImportRecipeArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ImportRecipeArgs: %v", err))
	}
	importRecipeOutputSchema, err := jsonschema.For[apptype.ImportRecipeResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ImportRecipeResult: %v", err))
	}
	healthInputSchema, err := jsonschema.For[apptype.HealthArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthArgs: %v", err))
	}
	healthOutputSchema, err := jsonschema.For[apptype.HealthResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthResult: %v", err))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "create_entities",
		Title:        "Create Entities",
		Description:  "Create food entities (Ingredient, Recipe, Meal, ...). Ingredients are embedded automatically when a provider is configured.",
		InputSchema:  createEntitiesInputSchema,
		OutputSchema: createEntitiesOutputSchema,
	}, s.handleCreateEntities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "create_relationship",
		Title:        "Create Relationship",
		Description:  "Connect two entities. The relationship type is inferred from their entity types; pairs with no defined relationship are rejected.",
		InputSchema:  createRelationshipInputSchema,
		OutputSchema: createRelationshipOutputSchema,
	}, s.handleCreateRelationship)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "similar_ingredients",
		Title:        "Similar Ingredients",
		Description:  "Rank stored ingredients by cosine similarity to the given name.",
		InputSchema:  similarInputSchema,
		OutputSchema: similarOutputSchema,
	}, s.handleSimilarIngredients)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "get_schema",
		Title:        "Get Schema",
		Description:  "Describe the entity types, relationship types and legal transitions.",
		InputSchema:  getSchemaInputSchema,
		OutputSchema: getSchemaOutputSchema,
	}, s.handleGetSchema)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "read_graph",
		Title:        "Read Graph",
		Description:  "Get recent entities and their relations.",
		InputSchema:  readGraphInputSchema,
		OutputSchema: readGraphOutputSchema,
	}, s.handleReadGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "open_nodes",
		Title:        "Open Nodes",
		Description:  "Retrieve entities by id with optional relations.",
		InputSchema:  openNodesInputSchema,
		OutputSchema: openNodesOutputSchema,
	}, s.handleOpenNodes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "neighbors",
		Title:        "Neighbors",
		Description:  "Fetch 1-hop neighbors for given entities.",
		InputSchema:  neighborsInputSchema,
		OutputSchema: neighborsOutputSchema,
	}, s.handleNeighbors)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_entity",
		Title:       "Delete Entity",
		Description: "Delete an entity and all edges touching it.",
		InputSchema: deleteEntityInputSchema,
	}, s.handleDeleteEntity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_relationship",
		Title:       "Delete Relationship",
		Description: "Delete a specific relationship between two entities.",
		InputSchema: deleteRelationshipInputSchema,
	}, s.handleDeleteRelationship)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "import_recipe",
		Title:        "Import Recipe",
		Description:  "Render a web page, extract the recipe and store it with its ingredients.",
		InputSchema:  importRecipeInputSchema,
		OutputSchema: importRecipeOutputSchema,
	}, s.handleImportRecipe)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Returns server and configuration information.",
		InputSchema:  healthInputSchema,
		OutputSchema: healthOutputSchema,
	}, s.handleHealth)
}

// handleCreateEntities handles the create_entities tool call.
func (s *MCPServer) handleCreateEntities(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.CreateEntitiesArgs],
) (*mcp.CallToolResultFor[apptype.CreateEntitiesResult], error) {
	done := metrics.TimeTool("create_entities")
	var success bool
	defer func() { done(success) }()

	entities := params.Arguments.Entities
	if len(entities) == 0 {
		return nil, fmt.Errorf("entities must not be empty")
	}
	ids, err := s.db.CreateNodes(ctx, entities)
	if err != nil {
		return nil, fmt.Errorf("failed to create entities: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.CreateEntitiesResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Created %d entities", len(ids))},
		},
		StructuredContent: apptype.CreateEntitiesResult{IDs: ids},
	}, nil
}

// handleCreateRelationship handles the create_relationship tool call.
func (s *MCPServer) handleCreateRelationship(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.CreateRelationshipArgs],
) (*mcp.CallToolResultFor[apptype.CreateRelationshipResult], error) {
	done := metrics.TimeTool("create_relationship")
	var success bool
	defer func() { done(success) }()

	relation, created, err := s.db.LinkNodes(ctx, params.Arguments.FromID, params.Arguments.ToID)
	if err != nil {
		return nil, err
	}
	success = true

	text := fmt.Sprintf("Created %s relationship", relation.RelationType)
	if !created {
		text = fmt.Sprintf("%s relationship already exists", relation.RelationType)
	}
	return &mcp.CallToolResultFor[apptype.CreateRelationshipResult]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: apptype.CreateRelationshipResult{
			From:         relation.From,
			To:           relation.To,
			RelationType: relation.RelationType,
			Created:      created,
		},
	}, nil
}

// handleSimilarIngredients handles the similar_ingredients tool call.
// Input is validated before any embedding call is made.
func (s *MCPServer) handleSimilarIngredients(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.SimilarIngredientsArgs],
) (*mcp.CallToolResultFor[apptype.SimilarIngredientsResult], error) {
	done := metrics.TimeTool("similar_ingredients")
	var success bool
	defer func() { done(success) }()

	name := strings.TrimSpace(params.Arguments.IngredientName)
	if name == "" {
		return nil, fmt.Errorf("ingredientName must not be blank")
	}
	topK := params.Arguments.TopK
	if topK < minTopK || topK > maxTopK {
		return nil, fmt.Errorf("topK must be between %d and %d inclusive, got %d", minTopK, maxTopK, topK)
	}

	results, err := s.db.SimilarIngredients(ctx, name, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.SimilarIngredientsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d similar ingredients", len(results))},
		},
		StructuredContent: apptype.SimilarIngredientsResult{Results: results},
	}, nil
}

// handleGetSchema handles the get_schema tool call.
func (s *MCPServer) handleGetSchema(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.GetSchemaArgs],
) (*mcp.CallToolResultFor[taxonomy.Schema], error) {
	done := metrics.TimeTool("get_schema")
	defer func() { done(true) }()

	return &mcp.CallToolResultFor[taxonomy.Schema]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "Schema projected"}},
		StructuredContent: taxonomy.Project(),
	}, nil
}

// handleReadGraph handles the read_graph tool call.
func (s *MCPServer) handleReadGraph(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.ReadGraphArgs],
) (*mcp.CallToolResultFor[apptype.GraphResult], error) {
	done := metrics.TimeTool("read_graph")
	var success bool
	defer func() { done(success) }()

	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = 10
	}
	graph, err := s.db.ReadGraph(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read graph failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.GraphResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "Graph read successfully"}},
		StructuredContent: graph,
	}, nil
}

// handleOpenNodes handles the open_nodes tool call.
func (s *MCPServer) handleOpenNodes(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.OpenNodesArgs],
) (*mcp.CallToolResultFor[apptype.GraphResult], error) {
	done := metrics.TimeTool("open_nodes")
	var success bool
	defer func() { done(success) }()

	result, err := s.db.OpenNodes(ctx, params.Arguments.IDs, params.Arguments.IncludeRelations)
	if err != nil {
		return nil, fmt.Errorf("open nodes failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.GraphResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Opened %d entities", len(result.Entities))}},
		StructuredContent: result,
	}, nil
}

// handleNeighbors returns 1-hop neighbors and connecting relations.
func (s *MCPServer) handleNeighbors(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.NeighborsArgs],
) (*mcp.CallToolResultFor[apptype.GraphResult], error) {
	done := metrics.TimeTool("neighbors")
	var success bool
	defer func() { done(success) }()

	result, err := s.db.Neighbors(ctx, params.Arguments.IDs, params.Arguments.Direction, params.Arguments.Limit)
	if err != nil {
		return nil, fmt.Errorf("neighbors failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.GraphResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "Neighbors fetched"}},
		StructuredContent: result,
	}, nil
}

// handleDeleteEntity handles the delete_entity tool call.
func (s *MCPServer) handleDeleteEntity(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.DeleteEntityArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("delete_entity")
	var success bool
	defer func() { done(success) }()

	if err := s.db.DeleteNode(ctx, params.Arguments.ID); err != nil {
		return nil, fmt.Errorf("failed to delete entity: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Deleted entity %s", params.Arguments.ID)}},
	}, nil
}

// handleDeleteRelationship handles the delete_relationship tool call.
func (s *MCPServer) handleDeleteRelationship(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.DeleteRelationshipArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("delete_relationship")
	var success bool
	defer func() { done(success) }()

	if err := s.db.DeleteEdge(ctx, params.Arguments.FromID, params.Arguments.ToID, params.Arguments.Type); err != nil {
		return nil, fmt.Errorf("failed to delete relationship: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: "Relationship deleted"}},
	}, nil
}

// handleImportRecipe renders a page, extracts the recipe and stores the
// recipe, its ingredients and the connecting edges.
func (s *MCPServer) handleImportRecipe(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.ImportRecipeArgs],
) (*mcp.CallToolResultFor[apptype.ImportRecipeResult], error) {
	done := metrics.TimeTool("import_recipe")
	var success bool
	defer func() { done(success) }()

	if s.renderer == nil || s.extractor == nil {
		return nil, fmt.Errorf("recipe import is not configured; set RENDERER_URL and OPENAI_API_KEY")
	}
	pageURL := strings.TrimSpace(params.Arguments.URL)
	if pageURL == "" {
		return nil, fmt.Errorf("url must not be blank")
	}

	html, err := s.renderer.Render(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", pageURL, err)
	}
	recipe, err := s.extractor.Extract(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("failed to extract recipe from %s: %w", pageURL, err)
	}

	result, err := s.storeRecipe(ctx, pageURL, recipe)
	if err != nil {
		return nil, err
	}
	success = true

	return &mcp.CallToolResultFor[apptype.ImportRecipeResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Imported recipe %q with %d ingredients", result.RecipeName, len(result.IngredientIDs))},
		},
		StructuredContent: result,
	}, nil
}

// storeRecipe persists an extracted recipe. Ingredient names are deduplicated,
// batch embedded in input order, reused by exact name when already stored, and
// connected to the recipe with inferred edges.
func (s *MCPServer) storeRecipe(ctx context.Context, pageURL string, recipe *extraction.Recipe) (apptype.ImportRecipeResult, error) {
	recipeID, err := s.db.CreateNode(ctx, apptype.Entity{
		Name:        recipe.Name,
		EntityType:  taxonomy.Recipe.Name,
		Description: recipe.Description,
		Properties:  map[string]any{"sourceUrl": pageURL},
	})
	if err != nil {
		return apptype.ImportRecipeResult{}, fmt.Errorf("failed to create recipe: %w", err)
	}

	names := dedupeNames(recipe.Ingredients)

	var vectors [][]float32
	if provider := s.db.Provider(); provider != nil && len(names) > 0 {
		vectors, err = embeddings.EmbedEach(ctx, provider, names, importParallelism)
		if err != nil {
			return apptype.ImportRecipeResult{}, fmt.Errorf("failed to embed ingredients: %w", err)
		}
	}

	ingredientIDs := make([]string, 0, len(names))
	for i, name := range names {
		id, err := s.findOrCreateIngredient(ctx, name, vectors, i)
		if err != nil {
			return apptype.ImportRecipeResult{}, err
		}
		ingredientIDs = append(ingredientIDs, id)
		if _, _, err := s.db.LinkNodes(ctx, recipeID, id); err != nil {
			return apptype.ImportRecipeResult{}, fmt.Errorf("failed to link ingredient %q: %w", name, err)
		}
	}

	return apptype.ImportRecipeResult{
		RecipeID:      recipeID,
		RecipeName:    recipe.Name,
		IngredientIDs: ingredientIDs,
	}, nil
}

func (s *MCPServer) findOrCreateIngredient(ctx context.Context, name string, vectors [][]float32, i int) (string, error) {
	existing, err := s.db.FindNodeByName(ctx, name)
	if err == nil && strings.EqualFold(existing.EntityType, taxonomy.Ingredient.Name) {
		return existing.ID, nil
	}

	entity := apptype.Entity{
		Name:              name,
		EntityType:        taxonomy.Ingredient.Name,
		PurchaseFrequency: defaultPurchaseFrequency,
	}
	if i < len(vectors) {
		entity.Embedding = vectors[i]
	}
	id, err := s.db.CreateNode(ctx, entity)
	if err != nil {
		return "", fmt.Errorf("failed to create ingredient %q: %w", name, err)
	}
	return id, nil
}

const defaultPurchaseFrequency = "Usually"

func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// handleHealth returns basic server health information.
func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HealthArgs],
) (*mcp.CallToolResultFor[apptype.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	defer func() { done(true) }()

	cfg := s.db.Config()
	inUse, idle := s.db.PoolStats()
	metrics.Default().ObservePoolStats(inUse, idle)

	res := apptype.HealthResult{
		Name:          serverName,
		Version:       buildinfo.Version,
		Revision:      buildinfo.Revision,
		BuildDate:     buildinfo.BuildDate,
		EmbeddingDims: cfg.EmbeddingDims,
	}
	if provider := s.db.Provider(); provider != nil {
		res.Provider = provider.Name()
	}
	return &mcp.CallToolResultFor[apptype.HealthResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "ok"}},
		StructuredContent: res,
	}, nil
}

// Run starts the MCP server with stdio transport.
func (s *MCPServer) Run(ctx context.Context) error {
	s.startPoolStatsReporter(ctx)
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// RunSSE starts the MCP server over SSE at the given address and endpoint.
func (s *MCPServer) RunSSE(ctx context.Context, addr string, endpoint string) error {
	s.startPoolStatsReporter(ctx)
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("SSE MCP server listening", "addr", addr, "endpoint", endpoint)
	return srv.ListenAndServe()
}

func (s *MCPServer) startPoolStatsReporter(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				inUse, idle := s.db.PoolStats()
				metrics.Default().ObservePoolStats(inUse, idle)
			}
		}
	}()
}
