package apptype

// Reserved property-bag keys. The bag stays an open string-keyed map; these
// keys are lifted into dedicated columns by the store and must not be
// shadowed by ad-hoc properties.
const (
	PropPurchaseFrequency = "purchaseFrequency"
	PropEmbedding         = "embedding"
)

// Entity represents a node in the food graph.
type Entity struct {
	ID                string         `json:"id,omitempty"`
	Name              string         `json:"name"`
	EntityType        string         `json:"entityType"`
	Description       string         `json:"description,omitempty"`
	Properties        map[string]any `json:"properties,omitempty"`
	PurchaseFrequency string         `json:"purchaseFrequency,omitempty"`
	Embedding         []float32      `json:"embedding,omitempty"`
	CreatedAt         string         `json:"createdAt,omitempty"`
	UpdatedAt         string         `json:"updatedAt,omitempty"`
}

// UpdateEntitySpec carries a partial update for an existing node. Nil fields
// are left untouched; a non-nil empty Properties map clears the bag.
type UpdateEntitySpec struct {
	ID                string          `json:"id"`
	Name              *string         `json:"name,omitempty"`
	Description       *string         `json:"description,omitempty"`
	Properties        *map[string]any `json:"properties,omitempty"`
	PurchaseFrequency *string         `json:"purchaseFrequency,omitempty"`
	Embedding         []float32       `json:"embedding,omitempty"`
}

// Relation represents a directed, typed edge between two node ids.
type Relation struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
}

// SimilarityResult is one scored ingredient from a similarity query.
// Request-scoped; never persisted.
type SimilarityResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// GraphResult bundles entities with the relations among them.
type GraphResult struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}
