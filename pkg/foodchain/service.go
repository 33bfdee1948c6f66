package foodchain

import (
	"context"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/database"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/embeddings"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/logger"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/taxonomy"
)

// Service provides a library-first API for the food graph without MCP transport.
type Service struct {
	db *database.DBManager
}

// NewService constructs a Service with the provided config.
func NewService(cfg *Config, log *logger.Logger) (*Service, error) {
	dm, err := database.NewDBManager(cfg.toInternal(), log)
	if err != nil {
		return nil, err
	}
	return &Service{db: dm}, nil
}

// Close releases resources.
func (s *Service) Close() error { return s.db.Close() }

// SetEmbeddingsProvider overrides the environment-configured provider.
func (s *Service) SetEmbeddingsProvider(p embeddings.Provider) { s.db.SetProvider(p) }

// CreateEntities inserts entities, returning ids in input order.
func (s *Service) CreateEntities(ctx context.Context, ents []apptype.Entity) ([]string, error) {
	return s.db.CreateNodes(ctx, ents)
}

// CreateRelationship connects two entities with the inferred relationship type.
func (s *Service) CreateRelationship(ctx context.Context, fromID, toID string) (apptype.Relation, bool, error) {
	return s.db.LinkNodes(ctx, fromID, toID)
}

// SimilarIngredients ranks stored ingredients against the given name.
func (s *Service) SimilarIngredients(ctx context.Context, name string, topK int) ([]apptype.SimilarityResult, error) {
	return s.db.SimilarIngredients(ctx, name, topK)
}

// Schema returns the projected entity and relationship schema.
func (s *Service) Schema() taxonomy.Schema { return taxonomy.Project() }

// ReadGraph returns recent entities and the relations among them.
func (s *Service) ReadGraph(ctx context.Context, limit int) (apptype.GraphResult, error) {
	return s.db.ReadGraph(ctx, limit)
}

// OpenNodes fetches entities (and optionally relations) by id.
func (s *Service) OpenNodes(ctx context.Context, ids []string, includeRelations bool) (apptype.GraphResult, error) {
	return s.db.OpenNodes(ctx, ids, includeRelations)
}

// Neighbors fetches 1-hop neighbors.
func (s *Service) Neighbors(ctx context.Context, ids []string, direction string, limit int) (apptype.GraphResult, error) {
	return s.db.Neighbors(ctx, ids, direction, limit)
}

// UpdateEntity applies a partial update.
func (s *Service) UpdateEntity(ctx context.Context, spec apptype.UpdateEntitySpec) error {
	return s.db.UpdateNode(ctx, spec)
}

// DeleteEntity removes an entity and all edges touching it.
func (s *Service) DeleteEntity(ctx context.Context, id string) error {
	return s.db.DeleteNode(ctx, id)
}

// DeleteRelationship removes one typed edge.
func (s *Service) DeleteRelationship(ctx context.Context, fromID, toID, relationType string) error {
	return s.db.DeleteEdge(ctx, fromID, toID, relationType)
}
