package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/apptype"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/metrics"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/taxonomy"
)

const nodeColumns = `id, name, entity_type, description, properties, purchase_frequency, embedding, created_at, updated_at`

// CreateNode inserts one node and returns its generated id. Ingredient nodes
// without an explicit embedding are embedded from their name when a provider
// is configured; other entity types are stored without a vector.
func (dm *DBManager) CreateNode(ctx context.Context, e apptype.Entity) (string, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return "", fmt.Errorf("entity name must not be empty")
	}
	if strings.TrimSpace(e.EntityType) == "" {
		return "", fmt.Errorf("entity type must not be empty")
	}
	entityType := taxonomy.ParseEntityType(e.EntityType)

	frequency, properties, err := splitReservedProperties(e)
	if err != nil {
		return "", err
	}
	if frequency != "" {
		if !strings.EqualFold(entityType.Name, taxonomy.Ingredient.Name) {
			return "", fmt.Errorf("purchaseFrequency is only valid on Ingredient entities, got %s", entityType.Name)
		}
		if !taxonomy.ValidPurchaseFrequency(frequency) {
			return "", fmt.Errorf("invalid purchaseFrequency %q: must be one of %s", frequency, strings.Join(taxonomy.PurchaseFrequencies, ", "))
		}
	}

	embedding := e.Embedding
	if len(embedding) == 0 && dm.provider != nil && strings.EqualFold(entityType.Name, taxonomy.Ingredient.Name) {
		vectors, err := dm.provider.Embed(ctx, []string{name})
		if err != nil {
			return "", fmt.Errorf("failed to embed ingredient %q: %w", name, err)
		}
		if len(vectors) == 1 {
			embedding = vectors[0]
		}
	}

	propsJSON, err := json.Marshal(properties)
	if err != nil {
		return "", fmt.Errorf("failed to encode properties for %q: %w", name, err)
	}

	id := uuid.NewString()
	var freqValue any
	if frequency != "" {
		freqValue = frequency
	}

	if len(embedding) > 0 {
		vectorString, err := dm.vectorToString(embedding)
		if err != nil {
			return "", fmt.Errorf("invalid embedding for %q: %w", name, err)
		}
		stmt, err := dm.getPreparedStmt(ctx, `INSERT INTO nodes (id, name, entity_type, description, properties, purchase_frequency, embedding)
            VALUES (?, ?, ?, ?, ?, ?, vector32(?))`)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, id, name, entityType.Name, e.Description, string(propsJSON), freqValue, vectorString); err != nil {
			return "", fmt.Errorf("failed to create node %q: %w", name, err)
		}
		return id, nil
	}

	stmt, err := dm.getPreparedStmt(ctx, `INSERT INTO nodes (id, name, entity_type, description, properties, purchase_frequency)
        VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	if _, err := stmt.ExecContext(ctx, id, name, entityType.Name, e.Description, string(propsJSON), freqValue); err != nil {
		return "", fmt.Errorf("failed to create node %q: %w", name, err)
	}
	return id, nil
}

// CreateNodes inserts a batch of nodes, returning ids in input order. The
// batch is not transactional: the first failure aborts with the error and
// earlier inserts stay committed.
func (dm *DBManager) CreateNodes(ctx context.Context, entities []apptype.Entity) ([]string, error) {
	done := metrics.TimeOp("create_nodes")
	success := false
	defer func() { done(success) }()

	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		id, err := dm.CreateNode(ctx, e)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	success = true
	return ids, nil
}

// GetNode returns a node by id, or ErrNotFound.
func (dm *DBManager) GetNode(ctx context.Context, id string) (apptype.Entity, error) {
	stmt, err := dm.getPreparedStmt(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`)
	if err != nil {
		return apptype.Entity{}, err
	}
	entity, err := dm.scanNode(stmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return apptype.Entity{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return entity, err
}

// FindNodeByName returns the first node matching name exactly, or ErrNotFound.
func (dm *DBManager) FindNodeByName(ctx context.Context, name string) (apptype.Entity, error) {
	stmt, err := dm.getPreparedStmt(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE name = ? ORDER BY created_at LIMIT 1`)
	if err != nil {
		return apptype.Entity{}, err
	}
	entity, err := dm.scanNode(stmt.QueryRowContext(ctx, name))
	if err == sql.ErrNoRows {
		return apptype.Entity{}, fmt.Errorf("node named %q: %w", name, ErrNotFound)
	}
	return entity, err
}

// FindNodesByType returns nodes of the given entity type in creation order.
// A limit of zero or less means no limit.
func (dm *DBManager) FindNodesByType(ctx context.Context, entityType string, limit int) ([]apptype.Entity, error) {
	canonical := taxonomy.ParseEntityType(entityType)
	if limit <= 0 {
		limit = -1
	}
	stmt, err := dm.getPreparedStmt(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE entity_type = ? ORDER BY created_at, id LIMIT ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, canonical.Name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes by type: %w", err)
	}
	defer rows.Close()
	return dm.collectNodes(rows)
}

// GetNodes returns the nodes for the given ids, in the input id order.
// Unknown ids are skipped.
func (dm *DBManager) GetNodes(ctx context.Context, ids []string) ([]apptype.Entity, error) {
	entities := make([]apptype.Entity, 0, len(ids))
	for _, id := range ids {
		entity, err := dm.GetNode(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// UpdateNode applies a partial update. Unknown id yields ErrNotFound.
func (dm *DBManager) UpdateNode(ctx context.Context, spec apptype.UpdateEntitySpec) error {
	done := metrics.TimeOp("update_node")
	success := false
	defer func() { done(success) }()

	existing, err := dm.GetNode(ctx, spec.ID)
	if err != nil {
		return err
	}
	entityType := taxonomy.ParseEntityType(existing.EntityType)

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if spec.Name != nil {
		name := strings.TrimSpace(*spec.Name)
		if name == "" {
			return fmt.Errorf("entity name must not be empty")
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if spec.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *spec.Description)
	}
	if spec.Properties != nil {
		propsJSON, err := json.Marshal(*spec.Properties)
		if err != nil {
			return fmt.Errorf("failed to encode properties: %w", err)
		}
		sets = append(sets, "properties = ?")
		args = append(args, string(propsJSON))
	}
	if spec.PurchaseFrequency != nil {
		frequency := *spec.PurchaseFrequency
		if frequency != "" {
			if !strings.EqualFold(entityType.Name, taxonomy.Ingredient.Name) {
				return fmt.Errorf("purchaseFrequency is only valid on Ingredient entities, got %s", entityType.Name)
			}
			if !taxonomy.ValidPurchaseFrequency(frequency) {
				return fmt.Errorf("invalid purchaseFrequency %q: must be one of %s", frequency, strings.Join(taxonomy.PurchaseFrequencies, ", "))
			}
			sets = append(sets, "purchase_frequency = ?")
			args = append(args, frequency)
		} else {
			sets = append(sets, "purchase_frequency = NULL")
		}
	}

	query := `UPDATE nodes SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if len(spec.Embedding) > 0 {
		vectorString, err := dm.vectorToString(spec.Embedding)
		if err != nil {
			return fmt.Errorf("invalid embedding: %w", err)
		}
		query = `UPDATE nodes SET ` + strings.Join(append(sets, "embedding = vector32(?)"), ", ") + ` WHERE id = ?`
		args = append(args, vectorString)
	}
	args = append(args, spec.ID)

	if _, err := dm.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update node %s: %w", spec.ID, err)
	}
	success = true
	return nil
}

// DeleteNode removes a node and every edge touching it, in one transaction.
func (dm *DBManager) DeleteNode(ctx context.Context, id string) error {
	done := metrics.TimeOp("delete_node")
	success := false
	defer func() { done(success) }()

	tx, err := dm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges WHERE source = ? OR target = ?`, id, id); err != nil {
		return fmt.Errorf("failed to delete edges for node %s: %w", id, err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	success = true
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (dm *DBManager) scanNode(row rowScanner) (apptype.Entity, error) {
	var (
		entity    apptype.Entity
		propsJSON string
		frequency sql.NullString
		embedding []byte
	)
	err := row.Scan(&entity.ID, &entity.Name, &entity.EntityType, &entity.Description,
		&propsJSON, &frequency, &embedding, &entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return apptype.Entity{}, err
	}
	if propsJSON != "" && propsJSON != "{}" {
		if err := json.Unmarshal([]byte(propsJSON), &entity.Properties); err != nil {
			return apptype.Entity{}, fmt.Errorf("failed to decode properties for node %s: %w", entity.ID, err)
		}
	}
	if frequency.Valid {
		entity.PurchaseFrequency = frequency.String
	}
	vector, err := dm.extractVector(embedding)
	if err != nil {
		return apptype.Entity{}, fmt.Errorf("failed to decode embedding for node %s: %w", entity.ID, err)
	}
	entity.Embedding = vector
	return entity, nil
}

func (dm *DBManager) collectNodes(rows *sql.Rows) ([]apptype.Entity, error) {
	entities := []apptype.Entity{}
	for rows.Next() {
		entity, err := dm.scanNode(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// splitReservedProperties lifts reserved bag keys into their dedicated fields
// and returns the remaining ad-hoc properties.
func splitReservedProperties(e apptype.Entity) (frequency string, properties map[string]any, err error) {
	frequency = e.PurchaseFrequency
	if len(e.Properties) == 0 {
		return frequency, map[string]any{}, nil
	}
	properties = make(map[string]any, len(e.Properties))
	for k, v := range e.Properties {
		switch k {
		case apptype.PropPurchaseFrequency:
			s, ok := v.(string)
			if !ok {
				return "", nil, fmt.Errorf("property %s must be a string", apptype.PropPurchaseFrequency)
			}
			if frequency == "" {
				frequency = s
			}
		case apptype.PropEmbedding:
			// Vectors travel in the dedicated field, never the bag.
		default:
			properties[k] = v
		}
	}
	return frequency, properties, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
