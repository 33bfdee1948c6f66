package taxonomy

// PropertySpec describes one property carried by an entity type.
type PropertySpec struct {
	Name string   `json:"name"`
	Type string   `json:"type"`
	Enum []string `json:"enum,omitempty"`
}

// EntityTypeSchema is the displayable record for one standard entity type.
type EntityTypeSchema struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Properties  []PropertySpec `json:"properties"`
}

// RelationshipSchema is the displayable record for one wire name.
type RelationshipSchema struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Directional bool   `json:"directional"`
}

// MatrixEntry is one legal (from, to, relationship) transition. Derived,
// never stored.
type MatrixEntry struct {
	FromEntityType          string `json:"fromEntityType"`
	ToEntityType            string `json:"toEntityType"`
	RelationshipName        string `json:"relationshipName"`
	RelationshipDescription string `json:"relationshipDescription"`
}

// Schema is the full projected type system.
type Schema struct {
	Entities           []EntityTypeSchema   `json:"entities"`
	Relationships      []RelationshipSchema `json:"relationships"`
	RelationshipMatrix []MatrixEntry        `json:"relationshipMatrix"`
	Enums              map[string][]string  `json:"enums"`
}

// baseProperties are carried by every entity type.
func baseProperties() []PropertySpec {
	return []PropertySpec{
		{Name: "id", Type: "string"},
		{Name: "name", Type: "string"},
		{Name: "description", Type: "string"},
		{Name: "createdAt", Type: "datetime"},
		{Name: "updatedAt", Type: "datetime"},
	}
}

// Project enumerates the full type system: entity records, relationship
// records deduplicated by wire name, the legal-transition matrix and the
// enumerated property values. The matrix is built by running Infer over the
// 8x8 cross product in declaration order, so it cannot drift from the
// relationship table. Pure and deterministic.
func Project() Schema {
	entities := make([]EntityTypeSchema, 0, len(standardEntityTypes))
	for _, t := range standardEntityTypes {
		props := baseProperties()
		if t.Name == Ingredient.Name {
			props = append(props, PropertySpec{
				Name: "purchaseFrequency",
				Type: "string",
				Enum: append([]string(nil), PurchaseFrequencies...),
			})
		}
		entities = append(entities, EntityTypeSchema{
			Name:        t.Name,
			Label:       t.Label,
			Description: t.Description,
			Properties:  props,
		})
	}

	seen := make(map[string]bool)
	relationships := make([]RelationshipSchema, 0, len(relationshipTable))
	for _, r := range relationshipTable {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		relationships = append(relationships, RelationshipSchema{
			Name:        r.Name,
			Description: r.Description,
			Directional: r.Directional,
		})
	}

	var matrix []MatrixEntry
	for _, from := range standardEntityTypes {
		for _, to := range standardEntityTypes {
			r, ok := Infer(from, to)
			if !ok {
				continue
			}
			matrix = append(matrix, MatrixEntry{
				FromEntityType:          from.Name,
				ToEntityType:            to.Name,
				RelationshipName:        r.Name,
				RelationshipDescription: r.Description,
			})
		}
	}

	return Schema{
		Entities:           entities,
		Relationships:      relationships,
		RelationshipMatrix: matrix,
		Enums: map[string][]string{
			"purchaseFrequency": append([]string(nil), PurchaseFrequencies...),
		},
	}
}
