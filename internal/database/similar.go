package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/metrics"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/similarity"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/taxonomy"
)

// IngredientEmbeddings returns every stored ingredient vector in creation
// order. Rows whose blob fails to decode are skipped with a warning rather
// than failing the whole query.
func (dm *DBManager) IngredientEmbeddings(ctx context.Context) ([]similarity.Candidate, error) {
	stmt, err := dm.getPreparedStmt(ctx, `SELECT id, name, embedding FROM nodes
        WHERE entity_type = ? AND embedding IS NOT NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, taxonomy.Ingredient.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredient embeddings: %w", err)
	}
	defer rows.Close()

	candidates := []similarity.Candidate{}
	for rows.Next() {
		var (
			id, name string
			blob     []byte
		)
		if err := rows.Scan(&id, &name, &blob); err != nil {
			return nil, err
		}
		vector, err := dm.extractVector(blob)
		if err != nil {
			dm.log.Warn("skipping ingredient with malformed embedding", "id", id, "name", name, "error", err)
			continue
		}
		if len(vector) == 0 {
			continue
		}
		candidates = append(candidates, similarity.Candidate{ID: id, Name: name, Vector: vector})
	}
	return candidates, rows.Err()
}

// SimilarIngredients embeds the query name and ranks all stored ingredient
// vectors against it, returning the topK most similar.
func (dm *DBManager) SimilarIngredients(ctx context.Context, name string, topK int) ([]apptype.SimilarityResult, error) {
	done := metrics.TimeOp("similar_ingredients")
	success := false
	defer func() { done(success) }()

	if dm.provider == nil {
		return nil, fmt.Errorf("no embeddings provider configured; set EMBEDDINGS_PROVIDER")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("ingredient name must not be empty")
	}

	vectors, err := dm.provider.Embed(ctx, []string{name})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query %q: %w", name, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding provider returned %d vectors for one input", len(vectors))
	}

	candidates, err := dm.IngredientEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	ranked := similarity.TopK(vectors[0], candidates, topK)
	results := make([]apptype.SimilarityResult, len(ranked))
	for i, r := range ranked {
		results[i] = apptype.SimilarityResult{ID: r.ID, Name: r.Name, Similarity: r.Similarity}
	}
	success = true
	return results, nil
}
