package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// parseListQuery reads q, from, to, branch, status, page and prev.
func parseListQuery(r *http.Request) core.ListQuery {
	q := r.URL.Query()
	return core.ListQuery{
		Query:   q.Get("q"),
		From:    strings.TrimSpace(q.Get("from")),
		To:      strings.TrimSpace(q.Get("to")),
		Branch:  q.Get("branch"),
		Status:  q.Get("status"),
		Page:    parseIntParam(r, "page", 1),
		PrevKey: q.Get("prev"),
	}
}

// parseIntParam parses an integer query parameter, falling back to defaultVal.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// handleList returns one page of screen.
func (s *Server) handleList(screen string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.service.List(r.Context(), screen, parseListQuery(r))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, page)
	}
}

// handleExport downloads every row of screen that matches the filters.
// format=xlsx selects a workbook; anything else is CSV.
func (s *Server) handleExport(screen string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.service.Export(r.Context(), screen, parseListQuery(r), s.sessions.User())
		if err != nil {
			s.fail(w, r, err)
			return
		}

		now := s.service.Now()
		if r.URL.Query().Get("format") == "xlsx" {
			data, err := core.EncodeXLSX(table)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			writeDownload(w, core.XLSXContentType, core.XLSXFileName(table.Entity, now), data)
			return
		}
		writeDownload(w, core.CSVContentType, core.ExportFileName(table.Entity, now), []byte(table.CSV()))
	}
}

func writeDownload(w http.ResponseWriter, contentType, fileName string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleScreens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, core.Screens())
}

func (s *Server) handleSettlementSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.SettlementSummary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"summary": summary})
}
