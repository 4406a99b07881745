package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmodel/relmodel/internal/errs"
	"github.com/relmodel/relmodel/internal/schema"
)

// sampleModel builds a small resolved model by hand: one referenced table
// and one referencing table with a composite primary key and an index.
func sampleModel() *schema.Model {
	customers := schema.QualifiedName{Name: "customers", Schema: "public"}
	orders := schema.QualifiedName{Name: "orders", Schema: "public"}

	custID := &schema.Column{Name: "id", Table: customers, TypeCode: 23, PrimaryKey: true}
	custEmail := &schema.Column{Name: "email", Table: customers, TypeCode: 1043, Nullable: true}

	ordRegion := &schema.Column{Name: "region", Table: orders, TypeCode: 1043}
	ordNum := &schema.Column{Name: "num", Table: orders, TypeCode: 23}
	ordCustomer := &schema.Column{Name: "customer_id", Table: orders, TypeCode: 23,
		Default: &schema.DefaultValue{Kind: schema.DefaultInt, Int: 0}}

	custTable := &schema.Table{Name: customers, Columns: []*schema.Column{custID, custEmail}}
	ordTable := &schema.Table{
		Name:    orders,
		Columns: []*schema.Column{ordRegion, ordNum, ordCustomer},
		PrimaryKey: &schema.PrimaryKey{
			Name: "orders_pkey", Table: orders,
			Columns: []*schema.Column{ordRegion, ordNum},
		},
		ForeignKeys: []*schema.ForeignKey{{
			Name: "orders_customer_fkey", Table: orders,
			Columns:    []*schema.Column{ordCustomer},
			RefTable:   customers,
			RefColumns: []*schema.Column{custID},
			OnUpdate:   schema.ActionNoAction,
			OnDelete:   schema.ActionCascade,
		}},
		Indexes: []*schema.Index{{
			Name: "orders_region_idx", Table: orders,
			Columns: []*schema.Column{ordRegion}, Unique: false,
		}},
	}

	return &schema.Model{Tables: []*schema.Table{custTable, ordTable}}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(sampleModel(), "postgres")

	assert.Equal(t, "postgres", doc.Source)
	assert.False(t, doc.ExtractedAt.IsZero())
	require.Len(t, doc.Tables, 2)

	cust := doc.Tables[0]
	assert.Equal(t, "customers", cust.Name)
	assert.Equal(t, "public", cust.Schema)
	require.Len(t, cust.Columns, 2)
	assert.True(t, cust.Columns[0].PrimaryKey)
	assert.Nil(t, cust.PrimaryKey)

	ord := doc.Tables[1]
	require.NotNil(t, ord.PrimaryKey)
	assert.Equal(t, []string{"region", "num"}, ord.PrimaryKey.Columns)

	require.Len(t, ord.ForeignKeys, 1)
	fk := ord.ForeignKeys[0]
	assert.Equal(t, []string{"customer_id"}, fk.Columns)
	assert.Equal(t, "public.customers", fk.RefTable)
	assert.Equal(t, []string{"id"}, fk.RefColumns)
	assert.Equal(t, "NO ACTION", fk.OnUpdate)
	assert.Equal(t, "CASCADE", fk.OnDelete)

	require.Len(t, ord.Indexes, 1)
	assert.Equal(t, "orders_region_idx", ord.Indexes[0].Name)
	assert.Equal(t, "0", ord.Columns[2].Default)
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := NewDocument(sampleModel(), "postgres")

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, doc))

	decoded, err := ReadYAML(&buf)
	require.NoError(t, err)

	// ExtractedAt survives with second precision at worst; compare the rest
	assert.Equal(t, doc.Source, decoded.Source)
	assert.Equal(t, doc.Tables, decoded.Tables)
}

func TestReadYAML_Malformed(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("tables: [not: {valid"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}
