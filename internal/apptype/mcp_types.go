package apptype

// CreateEntitiesArgs represents the arguments for the create_entities tool.
type CreateEntitiesArgs struct {
	Entities []Entity `json:"entities" jsonschema:"A list of entities to create. Unknown entityType labels become custom types."`
}

// CreateEntitiesResult reports the ids of the created entities, in input order.
type CreateEntitiesResult struct {
	IDs []string `json:"ids"`
}

// CreateRelationshipArgs represents the arguments for the create_relationship
// tool. The relationship type is inferred from the stored entity types.
type CreateRelationshipArgs struct {
	FromID string `json:"fromId" jsonschema:"The id of the source entity."`
	ToID   string `json:"toId" jsonschema:"The id of the target entity."`
}

// CreateRelationshipResult echoes the created edge with its inferred type.
type CreateRelationshipResult struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
	Created      bool   `json:"created"`
}

// SimilarIngredientsArgs represents the arguments for the similar_ingredients tool.
type SimilarIngredientsArgs struct {
	IngredientName string `json:"ingredientName" jsonschema:"The ingredient name to find similar ingredients for. Must not be blank."`
	TopK           int    `json:"topK" jsonschema:"How many results to return, between 1 and 50 inclusive."`
}

// SimilarIngredientsResult is the ordered similarity ranking.
type SimilarIngredientsResult struct {
	Results []SimilarityResult `json:"results"`
}

// GetSchemaArgs represents the (empty) arguments for the get_schema tool.
type GetSchemaArgs struct{}

// ReadGraphArgs represents the arguments for the read_graph tool.
type ReadGraphArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of recent entities to return (default 10)."`
}

// OpenNodesArgs represents arguments for fetching entities by id.
type OpenNodesArgs struct {
	IDs              []string `json:"ids" jsonschema:"Entity ids to open."`
	IncludeRelations bool     `json:"includeRelations,omitempty" jsonschema:"Whether to include relations among the returned entities."`
}

// NeighborsArgs represents arguments for fetching 1-hop neighbors.
// Direction may be "out", "in", or "both" (default "both").
type NeighborsArgs struct {
	IDs       []string `json:"ids" jsonschema:"Seed entity ids to expand from."`
	Direction string   `json:"direction,omitempty" jsonschema:"Which direction of edges to follow: out|in|both (default both)."`
	Limit     int      `json:"limit,omitempty" jsonschema:"Maximum number of relations to expand."`
}

// DeleteEntityArgs represents the arguments for the delete_entity tool.
type DeleteEntityArgs struct {
	ID string `json:"id" jsonschema:"The id of the entity to delete."`
}

// DeleteRelationshipArgs represents the arguments for the delete_relationship tool.
type DeleteRelationshipArgs struct {
	FromID string `json:"fromId" jsonschema:"The id of the source entity."`
	ToID   string `json:"toId" jsonschema:"The id of the target entity."`
	Type   string `json:"type" jsonschema:"The wire name of the relationship to delete."`
}

// ImportRecipeArgs represents the arguments for the import_recipe tool.
type ImportRecipeArgs struct {
	URL string `json:"url" jsonschema:"The web page to render and extract a recipe from."`
}

// ImportRecipeResult reports what the import created.
type ImportRecipeResult struct {
	RecipeID      string   `json:"recipeId"`
	RecipeName    string   `json:"recipeName"`
	IngredientIDs []string `json:"ingredientIds"`
}

// HealthArgs represents the (empty) arguments for the health_check tool.
type HealthArgs struct{}

// HealthResult reports server and configuration information.
type HealthResult struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Revision      string `json:"revision"`
	BuildDate     string `json:"buildDate"`
	EmbeddingDims int    `json:"embeddingDims"`
	Provider      string `json:"provider,omitempty"`
}
