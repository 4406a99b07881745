package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmodel/relmodel/internal/export"
	"github.com/relmodel/relmodel/internal/logger"
)

func testServer() *Server {
	doc := export.Document{
		Source:      "postgres",
		ExtractedAt: time.Now().UTC(),
		Tables: []export.TableDoc{
			{
				Name:   "customers",
				Schema: "public",
				Columns: []export.ColumnDoc{
					{Name: "id", TypeCode: 23, PrimaryKey: true},
					{Name: "email", TypeCode: 1043, Nullable: true},
				},
			},
			{
				Name:   "orders",
				Schema: "public",
				Columns: []export.ColumnDoc{
					{Name: "id", TypeCode: 23, PrimaryKey: true},
					{Name: "customer_id", TypeCode: 23},
				},
				ForeignKeys: []export.ForeignKeyDoc{{
					Name:       "orders_customer_fkey",
					Columns:    []string{"customer_id"},
					RefTable:   "public.customers",
					RefColumns: []string{"id"},
					OnUpdate:   "NO ACTION",
					OnDelete:   "CASCADE",
				}},
			},
		},
	}

	log := logger.New(&logger.Config{Level: "error", Format: "json", Output: &bytes.Buffer{}})
	return New(DefaultConfig(":0"), doc, log)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, testServer(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["tables"])
}

func TestSchema(t *testing.T) {
	rec := get(t, testServer(), "/schema")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc export.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "postgres", doc.Source)
	assert.Len(t, doc.Tables, 2)
}

func TestTables(t *testing.T) {
	rec := get(t, testServer(), "/schema/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "customers", summaries[0]["name"])
	assert.Equal(t, float64(2), summaries[0]["columns"])
	assert.Equal(t, float64(1), summaries[1]["foreign_keys"])
}

func TestTableByName(t *testing.T) {
	tests := []struct {
		name string
		path string
		code int
	}{
		{"bare name", "/schema/tables/orders", http.StatusOK},
		{"schema qualified", "/schema/tables/public.orders", http.StatusOK},
		{"unknown table", "/schema/tables/missing", http.StatusNotFound},
	}

	srv := testServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			require.Equal(t, tt.code, rec.Code)

			if tt.code == http.StatusOK {
				var table export.TableDoc
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
				assert.Equal(t, "orders", table.Name)
			}
		})
	}
}
