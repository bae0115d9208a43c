package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDescriptorIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultTables(t *testing.T) {
	desc := Default()
	assert.Equal(t, []string{"customers", "orders", "products", "employees"}, desc.TableNames())
}

func TestHasTableIsCaseInsensitive(t *testing.T) {
	desc := Default()
	assert.True(t, desc.HasTable("customers"))
	assert.True(t, desc.HasTable("CUSTOMERS"))
	assert.True(t, desc.HasTable("Orders"))
	assert.False(t, desc.HasTable("invoices"))
	assert.False(t, desc.HasTable(""))
}

func TestValidateRejectsDanglingForeignKey(t *testing.T) {
	desc := &Descriptor{Tables: []Table{
		{
			Name:    "orders",
			Columns: []Column{{Name: "id", Type: "INTEGER", IsPrimaryKey: true}, {Name: "customer_id", Type: "INTEGER"}},
			ForeignKeys: []ForeignKey{
				{Column: "customer_id", ReferencesTable: "customers", ReferencesColumn: "id"},
			},
		},
	}}
	err := desc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table customers")
}

func TestValidateRejectsForeignKeyOnUnknownColumn(t *testing.T) {
	desc := &Descriptor{Tables: []Table{
		{Name: "customers", Columns: []Column{{Name: "id", Type: "INTEGER", IsPrimaryKey: true}}},
		{
			Name:    "orders",
			Columns: []Column{{Name: "id", Type: "INTEGER", IsPrimaryKey: true}},
			ForeignKeys: []ForeignKey{
				{Column: "customer_id", ReferencesTable: "customers", ReferencesColumn: "id"},
			},
		},
	}}
	err := desc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign key declared on unknown column customer_id")
}

func TestDDLRendersConstraints(t *testing.T) {
	statements := Default().DDL()
	require.Len(t, statements, 4)

	orders := statements[1]
	assert.Contains(t, orders, "CREATE TABLE IF NOT EXISTS orders")
	assert.Contains(t, orders, "id INTEGER PRIMARY KEY")
	assert.Contains(t, orders, "customer_id INTEGER NOT NULL")
	assert.Contains(t, orders, "FOREIGN KEY (customer_id) REFERENCES customers (id)")

	// Self-referencing FKs stay out of the DDL.
	employees := statements[3]
	assert.NotContains(t, employees, "FOREIGN KEY")
	assert.Contains(t, employees, "manager_id INTEGER")
}

func TestPromptContextListsEveryTable(t *testing.T) {
	ctx := Default().PromptContext()

	for _, name := range []string{"CUSTOMERS", "ORDERS", "PRODUCTS", "EMPLOYEES"} {
		assert.Contains(t, ctx, "Table: "+name)
	}
	assert.Contains(t, ctx, "customer_id -> customers.id")
	assert.Contains(t, ctx, "manager_id -> employees.id")
	assert.True(t, strings.Contains(ctx, "PRIMARY KEY"))
}
