package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// tableSummary is the list-view projection of a table.
type tableSummary struct {
	Name        string `json:"name"`
	Schema      string `json:"schema,omitempty"`
	Catalog     string `json:"catalog,omitempty"`
	Columns     int    `json:"columns"`
	ForeignKeys int    `json:"foreign_keys"`
	Indexes     int    `json:"indexes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tables": len(s.doc.Tables),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.doc)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	out := make([]tableSummary, 0, len(s.doc.Tables))
	for _, t := range s.doc.Tables {
		out = append(out, tableSummary{
			Name:        t.Name,
			Schema:      t.Schema,
			Catalog:     t.Catalog,
			Columns:     len(t.Columns),
			ForeignKeys: len(t.ForeignKeys),
			Indexes:     len(t.Indexes),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	for i := range s.doc.Tables {
		t := &s.doc.Tables[i]
		if t.Name == name || t.Schema+"."+t.Name == name {
			s.writeJSON(w, http.StatusOK, t)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "table not found: "+name)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
