package uri

import "strings"

// StorageType defines how a collection-valued property is stored
type StorageType int

const (
	// StorageEmbedded means the collection is an array column of the parent table
	StorageEmbedded StorageType = iota
	// StorageRelational means the collection lives in a separate table
	StorageRelational
)

// ForeignKeyPair represents a single FK column mapping
type ForeignKeyPair struct {
	// ChildColumn is the column in the child table (e.g., "customer_id")
	ChildColumn string
	// ParentColumn is the column in the parent table (e.g., "id")
	ParentColumn string
}

// CollectionMapping defines how a collection-valued property maps to storage
type CollectionMapping struct {
	Storage StorageType

	// Table is the name of the child table (only for StorageRelational)
	Table string

	// ForeignKeys links child rows to the parent row, composite keys included:
	//     []ForeignKeyPair{
	//         {ChildColumn: "tenant_id", ParentColumn: "tenant_id"},
	//         {ChildColumn: "customer_id", ParentColumn: "id"},
	//     }
	ForeignKeys []ForeignKeyPair

	// Alias prefixes the subquery alias (defaults to the singularized property name)
	Alias string

	// Schema maps the columns of the child table. Nil uses default column names.
	Schema *SchemaRegistry
}

// SchemaRegistry maps the properties of one entity type to a table
type SchemaRegistry struct {
	// Table is the table the entity set is stored in (e.g., "customers")
	Table string

	// Alias is used for the table in queries (e.g., "c" for "customers AS c")
	Alias string

	columns     map[string]string
	collections map[string]CollectionMapping
}

func NewSchemaRegistry(table string) *SchemaRegistry {
	return &SchemaRegistry{
		Table:       table,
		columns:     make(map[string]string),
		collections: make(map[string]CollectionMapping),
	}
}

func (r *SchemaRegistry) WithAlias(alias string) *SchemaRegistry {
	r.Alias = alias
	return r
}

// MapColumn maps a property path such as "Address/City" to a column.
func (r *SchemaRegistry) MapColumn(propertyPath, column string) *SchemaRegistry {
	r.columns[propertyPath] = column
	return r
}

// RegisterEmbedded registers a collection stored as an array column
func (r *SchemaRegistry) RegisterEmbedded(property string) *SchemaRegistry {
	r.collections[property] = CollectionMapping{
		Storage: StorageEmbedded,
	}
	return r
}

// RegisterRelational registers a collection stored in a separate table with simple FK
func (r *SchemaRegistry) RegisterRelational(property, table, childColumn, parentColumn string) *SchemaRegistry {
	r.collections[property] = CollectionMapping{
		Storage: StorageRelational,
		Table:   table,
		ForeignKeys: []ForeignKeyPair{
			{ChildColumn: childColumn, ParentColumn: parentColumn},
		},
	}
	return r
}

// RegisterRelationalComposite registers a collection with composite FK
func (r *SchemaRegistry) RegisterRelationalComposite(property, table string, foreignKeys []ForeignKeyPair) *SchemaRegistry {
	r.collections[property] = CollectionMapping{
		Storage:     StorageRelational,
		Table:       table,
		ForeignKeys: foreignKeys,
	}
	return r
}

func (r *SchemaRegistry) Register(property string, mapping CollectionMapping) *SchemaRegistry {
	r.collections[property] = mapping
	return r
}

func (r *SchemaRegistry) Get(property string) (CollectionMapping, bool) {
	if r == nil {
		return CollectionMapping{}, false
	}
	mapping, ok := r.collections[property]
	return mapping, ok
}

// IsRelational returns true if the collection is stored in a separate table
func (r *SchemaRegistry) IsRelational(property string) bool {
	mapping, ok := r.Get(property)
	return ok && mapping.Storage == StorageRelational
}

// Column returns the column of a property path. Unmapped paths use the
// lower-cased property names joined by "_".
func (r *SchemaRegistry) Column(path ...string) string {
	key := strings.Join(path, "/")
	if r != nil {
		if column, ok := r.columns[key]; ok {
			return column
		}
	}
	return strings.ToLower(strings.Join(path, "_"))
}

// Ref returns the reference to the table (alias or table name)
func (r *SchemaRegistry) Ref() string {
	if r == nil {
		return ""
	}
	if r.Alias != "" {
		return r.Alias
	}
	return r.Table
}
