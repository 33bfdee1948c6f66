package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/metrics"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/taxonomy"
)

// CreateEdge inserts a typed edge between two existing nodes. It returns
// false without error when the identical edge already exists. Missing
// endpoints yield ErrNotFound.
func (dm *DBManager) CreateEdge(ctx context.Context, fromID, toID, relationType string) (bool, error) {
	if strings.TrimSpace(relationType) == "" {
		return false, fmt.Errorf("relation type must not be empty")
	}
	if err := dm.requireNode(ctx, fromID); err != nil {
		return false, err
	}
	if err := dm.requireNode(ctx, toID); err != nil {
		return false, err
	}

	stmt, err := dm.getPreparedStmt(ctx, `INSERT OR IGNORE INTO edges (source, target, relation_type) VALUES (?, ?, ?)`)
	if err != nil {
		return false, err
	}
	result, err := stmt.ExecContext(ctx, fromID, toID, relationType)
	if err != nil {
		return false, fmt.Errorf("failed to create edge %s -> %s: %w", fromID, toID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// LinkNodes connects two nodes with the relationship type inferred from
// their entity types. Pairs with no legal relationship are rejected with an
// error naming both types.
func (dm *DBManager) LinkNodes(ctx context.Context, fromID, toID string) (apptype.Relation, bool, error) {
	done := metrics.TimeOp("link_nodes")
	success := false
	defer func() { done(success) }()

	from, err := dm.GetNode(ctx, fromID)
	if err != nil {
		return apptype.Relation{}, false, err
	}
	to, err := dm.GetNode(ctx, toID)
	if err != nil {
		return apptype.Relation{}, false, err
	}

	fromType := taxonomy.ParseEntityType(from.EntityType)
	toType := taxonomy.ParseEntityType(to.EntityType)
	relationship, ok := taxonomy.Infer(fromType, toType)
	if !ok {
		return apptype.Relation{}, false, fmt.Errorf("no relationship is defined from %s to %s", fromType.Label, toType.Label)
	}

	created, err := dm.CreateEdge(ctx, fromID, toID, relationship.Name)
	if err != nil {
		return apptype.Relation{}, false, err
	}
	success = true
	return apptype.Relation{From: fromID, To: toID, RelationType: relationship.Name}, created, nil
}

// DeleteEdge removes one typed edge. Absence yields ErrNotFound.
func (dm *DBManager) DeleteEdge(ctx context.Context, fromID, toID, relationType string) error {
	done := metrics.TimeOp("delete_edge")
	success := false
	defer func() { done(success) }()

	stmt, err := dm.getPreparedStmt(ctx, `DELETE FROM edges WHERE source = ? AND target = ? AND relation_type = ?`)
	if err != nil {
		return err
	}
	result, err := stmt.ExecContext(ctx, fromID, toID, relationType)
	if err != nil {
		return fmt.Errorf("failed to delete edge %s -> %s: %w", fromID, toID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("edge %s -[%s]-> %s: %w", fromID, relationType, toID, ErrNotFound)
	}
	success = true
	return nil
}

// EdgesForNodes returns every edge with either endpoint in ids, in creation order.
func (dm *DBManager) EdgesForNodes(ctx context.Context, ids []string) ([]apptype.Relation, error) {
	if len(ids) == 0 {
		return []apptype.Relation{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(`SELECT source, target, relation_type FROM edges
        WHERE source IN (%s) OR target IN (%s) ORDER BY id`, placeholders, placeholders)

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

func (dm *DBManager) requireNode(ctx context.Context, id string) error {
	stmt, err := dm.getPreparedStmt(ctx, `SELECT 1 FROM nodes WHERE id = ?`)
	if err != nil {
		return err
	}
	var one int
	if err := stmt.QueryRowContext(ctx, id).Scan(&one); err != nil {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return nil
}
