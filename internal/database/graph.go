package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/metrics"
)

const defaultGraphLimit = 100

// ReadGraph returns the most recent nodes and the relations among them.
func (dm *DBManager) ReadGraph(ctx context.Context, limit int) (apptype.GraphResult, error) {
	done := metrics.TimeOp("read_graph")
	success := false
	defer func() { done(success) }()

	if limit <= 0 {
		limit = defaultGraphLimit
	}
	stmt, err := dm.getPreparedStmt(ctx, `SELECT `+nodeColumns+` FROM nodes ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err != nil {
		return apptype.GraphResult{}, err
	}
	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return apptype.GraphResult{}, fmt.Errorf("failed to query recent nodes: %w", err)
	}
	entities, err := func() ([]apptype.Entity, error) {
		defer rows.Close()
		return dm.collectNodes(rows)
	}()
	if err != nil {
		return apptype.GraphResult{}, err
	}

	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	relations, err := dm.edgesAmong(ctx, ids)
	if err != nil {
		return apptype.GraphResult{}, err
	}
	success = true
	return apptype.GraphResult{Entities: entities, Relations: relations}, nil
}

// OpenNodes returns the requested nodes, optionally with the relations among
// them. Unknown ids are skipped.
func (dm *DBManager) OpenNodes(ctx context.Context, ids []string, includeRelations bool) (apptype.GraphResult, error) {
	entities, err := dm.GetNodes(ctx, ids)
	if err != nil {
		return apptype.GraphResult{}, err
	}
	result := apptype.GraphResult{Entities: entities, Relations: []apptype.Relation{}}
	if includeRelations {
		found := make([]string, len(entities))
		for i, e := range entities {
			found[i] = e.ID
		}
		relations, err := dm.edgesAmong(ctx, found)
		if err != nil {
			return apptype.GraphResult{}, err
		}
		result.Relations = relations
	}
	return result, nil
}

// Neighbors returns the nodes one hop away from ids along the given
// direction ("out", "in" or "both"), plus the traversed edges.
func (dm *DBManager) Neighbors(ctx context.Context, ids []string, direction string, limit int) (apptype.GraphResult, error) {
	done := metrics.TimeOp("neighbors")
	success := false
	defer func() { done(success) }()

	if len(ids) == 0 {
		return apptype.GraphResult{Entities: []apptype.Entity{}, Relations: []apptype.Relation{}}, nil
	}
	if limit <= 0 {
		limit = defaultGraphLimit
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	var condition string
	bothEnds := false
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "out":
		condition = fmt.Sprintf("source IN (%s)", placeholders)
	case "in":
		condition = fmt.Sprintf("target IN (%s)", placeholders)
	case "", "both":
		condition = fmt.Sprintf("source IN (%s) OR target IN (%s)", placeholders, placeholders)
		bothEnds = true
	default:
		return apptype.GraphResult{}, fmt.Errorf("invalid direction %q: must be out, in or both", direction)
	}

	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, id)
	}
	if bothEnds {
		for _, id := range ids {
			args = append(args, id)
		}
	}

	rows, err := dm.db.QueryContext(ctx, fmt.Sprintf(`SELECT source, target, relation_type FROM edges WHERE %s ORDER BY id`, condition), args...)
	if err != nil {
		return apptype.GraphResult{}, fmt.Errorf("failed to query neighbor edges: %w", err)
	}
	defer rows.Close()

	seed := make(map[string]bool, len(ids))
	for _, id := range ids {
		seed[id] = true
	}

	relations := []apptype.Relation{}
	neighborIDs := []string{}
	seen := make(map[string]bool)
	for rows.Next() {
		var r apptype.Relation
		if err := rows.Scan(&r.From, &r.To, &r.RelationType); err != nil {
			return apptype.GraphResult{}, err
		}
		relations = append(relations, r)
		for _, id := range []string{r.From, r.To} {
			if !seed[id] && !seen[id] {
				seen[id] = true
				if len(neighborIDs) < limit {
					neighborIDs = append(neighborIDs, id)
				}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return apptype.GraphResult{}, err
	}

	entities, err := dm.GetNodes(ctx, neighborIDs)
	if err != nil {
		return apptype.GraphResult{}, err
	}
	success = true
	return apptype.GraphResult{Entities: entities, Relations: relations}, nil
}

// edgesAmong returns edges whose endpoints are both in ids.
func (dm *DBManager) edgesAmong(ctx context.Context, ids []string) ([]apptype.Relation, error) {
	if len(ids) == 0 {
		return []apptype.Relation{}, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(`SELECT source, target, relation_type FROM edges
        WHERE source IN (%s) AND target IN (%s) ORDER BY id`, placeholders, placeholders)

	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, id)
	}
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := dm.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	relations := []apptype.Relation{}
	for rows.Next() {
		var r apptype.Relation
		if err := rows.Scan(&r.From, &r.To, &r.RelationType); err != nil {
			return nil, err
		}
		relations = append(relations, r)
	}
	return relations, rows.Err()
}
