package schema

import (
	"fmt"
	"strings"
)

// Column describes a single column of a table in the demo database.
type Column struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	IsNotNull    bool   `json:"is_not_null"`
}

// ForeignKey describes a relationship from a column to another table.
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencesTable  string `json:"references_table"`
	ReferencesColumn string `json:"references_column"`
}

type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

// Descriptor is the static, in-memory description of the database. It is
// built once at startup and shared read-only between the SQL generator
// (as prompt context) and the schema endpoint.
type Descriptor struct {
	Tables []Table `json:"tables"`
}

// Default returns the descriptor for the built-in business demo database:
// customers, orders, products and employees.
func Default() *Descriptor {
	return &Descriptor{Tables: []Table{
		{
			Name: "customers",
			Columns: []Column{
				{Name: "id", Type: "INTEGER", IsPrimaryKey: true, IsNotNull: true},
				{Name: "name", Type: "TEXT", IsNotNull: true},
				{Name: "email", Type: "TEXT", IsNotNull: true},
				{Name: "phone", Type: "TEXT"},
				{Name: "city", Type: "TEXT"},
				{Name: "country", Type: "TEXT"},
				{Name: "registration_date", Type: "DATE", IsNotNull: true},
				{Name: "status", Type: "TEXT"},
				{Name: "created_at", Type: "TIMESTAMP"},
			},
		},
		{
			Name: "orders",
			Columns: []Column{
				{Name: "id", Type: "INTEGER", IsPrimaryKey: true, IsNotNull: true},
				{Name: "customer_id", Type: "INTEGER", IsNotNull: true},
				{Name: "product_name", Type: "TEXT", IsNotNull: true},
				{Name: "category", Type: "TEXT"},
				{Name: "quantity", Type: "INTEGER", IsNotNull: true},
				{Name: "unit_price", Type: "DECIMAL(10,2)", IsNotNull: true},
				{Name: "total_amount", Type: "DECIMAL(10,2)"},
				{Name: "order_date", Type: "DATE", IsNotNull: true},
				{Name: "status", Type: "TEXT"},
				{Name: "created_at", Type: "TIMESTAMP"},
			},
			ForeignKeys: []ForeignKey{
				{Column: "customer_id", ReferencesTable: "customers", ReferencesColumn: "id"},
			},
		},
		{
			Name: "products",
			Columns: []Column{
				{Name: "id", Type: "INTEGER", IsPrimaryKey: true, IsNotNull: true},
				{Name: "name", Type: "TEXT", IsNotNull: true},
				{Name: "category", Type: "TEXT", IsNotNull: true},
				{Name: "price", Type: "DECIMAL(10,2)", IsNotNull: true},
				{Name: "stock_quantity", Type: "INTEGER", IsNotNull: true},
				{Name: "description", Type: "TEXT"},
				{Name: "supplier", Type: "TEXT"},
				{Name: "created_date", Type: "DATE", IsNotNull: true},
				{Name: "last_updated", Type: "TIMESTAMP"},
			},
		},
		{
			Name: "employees",
			Columns: []Column{
				{Name: "id", Type: "INTEGER", IsPrimaryKey: true, IsNotNull: true},
				{Name: "name", Type: "TEXT", IsNotNull: true},
				{Name: "email", Type: "TEXT", IsNotNull: true},
				{Name: "department", Type: "TEXT", IsNotNull: true},
				{Name: "position", Type: "TEXT", IsNotNull: true},
				{Name: "salary", Type: "DECIMAL(10,2)"},
				{Name: "hire_date", Type: "DATE", IsNotNull: true},
				{Name: "manager_id", Type: "INTEGER"},
				{Name: "status", Type: "TEXT"},
			},
			ForeignKeys: []ForeignKey{
				{Column: "manager_id", ReferencesTable: "employees", ReferencesColumn: "id"},
			},
		},
	}}
}

// Validate checks internal consistency: every foreign key must reference a
// table and column that exist in the descriptor.
func (d *Descriptor) Validate() error {
	byName := make(map[string]Table, len(d.Tables))
	for _, t := range d.Tables {
		byName[t.Name] = t
	}
	for _, t := range d.Tables {
		for _, fk := range t.ForeignKeys {
			target, ok := byName[fk.ReferencesTable]
			if !ok {
				return fmt.Errorf("table %s: foreign key %s references unknown table %s",
					t.Name, fk.Column, fk.ReferencesTable)
			}
			if !hasColumn(target, fk.ReferencesColumn) {
				return fmt.Errorf("table %s: foreign key %s references unknown column %s.%s",
					t.Name, fk.Column, fk.ReferencesTable, fk.ReferencesColumn)
			}
			if !hasColumn(t, fk.Column) {
				return fmt.Errorf("table %s: foreign key declared on unknown column %s", t.Name, fk.Column)
			}
		}
	}
	return nil
}

// HasTable reports whether name is a table of the descriptor. The lookup is
// case-insensitive since generated SQL freely mixes identifier casing.
func (d *Descriptor) HasTable(name string) bool {
	for _, t := range d.Tables {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// TableNames returns the table names in declaration order.
func (d *Descriptor) TableNames() []string {
	names := make([]string, 0, len(d.Tables))
	for _, t := range d.Tables {
		names = append(names, t.Name)
	}
	return names
}

// DDL renders one CREATE TABLE statement per table, in declaration order.
// Self-referencing foreign keys are kept descriptor-only because DuckDB
// cannot enforce them; they still appear in the prompt context.
func (d *Descriptor) DDL() []string {
	statements := make([]string, 0, len(d.Tables))
	for _, t := range d.Tables {
		var b strings.Builder
		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
		for i, c := range t.Columns {
			fmt.Fprintf(&b, "    %s %s", c.Name, c.Type)
			if c.IsPrimaryKey {
				b.WriteString(" PRIMARY KEY")
			} else if c.IsNotNull {
				b.WriteString(" NOT NULL")
			}
			if i < len(t.Columns)-1 || len(enforceableFKs(t)) > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		fks := enforceableFKs(t)
		for i, fk := range fks {
			fmt.Fprintf(&b, "    FOREIGN KEY (%s) REFERENCES %s (%s)", fk.Column, fk.ReferencesTable, fk.ReferencesColumn)
			if i < len(fks)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(")")
		statements = append(statements, b.String())
	}
	return statements
}

// PromptContext renders the schema as plain text for the generation prompt:
// table names, columns with constraints, and foreign key relationships.
func (d *Descriptor) PromptContext() string {
	var b strings.Builder
	for _, t := range d.Tables {
		fmt.Fprintf(&b, "Table: %s\n", strings.ToUpper(t.Name))
		for _, c := range t.Columns {
			var constraints []string
			if c.IsPrimaryKey {
				constraints = append(constraints, "PRIMARY KEY")
			}
			if c.IsNotNull && !c.IsPrimaryKey {
				constraints = append(constraints, "NOT NULL")
			}
			if len(constraints) > 0 {
				fmt.Fprintf(&b, "  - %s: %s [%s]\n", c.Name, c.Type, strings.Join(constraints, ", "))
			} else {
				fmt.Fprintf(&b, "  - %s: %s\n", c.Name, c.Type)
			}
		}
		if len(t.ForeignKeys) > 0 {
			b.WriteString("  Foreign Keys:\n")
			for _, fk := range t.ForeignKeys {
				fmt.Fprintf(&b, "    - %s -> %s.%s\n", fk.Column, fk.ReferencesTable, fk.ReferencesColumn)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func enforceableFKs(t Table) []ForeignKey {
	var fks []ForeignKey
	for _, fk := range t.ForeignKeys {
		if fk.ReferencesTable != t.Name {
			fks = append(fks, fk)
		}
	}
	return fks
}

func hasColumn(t Table, name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
