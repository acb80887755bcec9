package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/JonMunkholm/crmdesk/internal/logging"
	"github.com/JonMunkholm/crmdesk/internal/web/views"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// handleListPage renders one page of a screen as HTML. HTMX requests get the
// table alone so the pager can swap it in place.
func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "screen")
	screen, ok := core.GetScreen(key)
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: %s", core.ErrUnknownScreen, key))
		return
	}

	page, table, err := s.service.ListTable(r.Context(), key, parseListQuery(r), s.sessions.User())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	params := views.TableParams{Screen: screen, Page: page, Table: table, Query: r.URL.Query()}
	if r.Header.Get("HX-Request") == "true" {
		s.renderHTML(w, r, views.TablePartial(params))
	} else {
		s.renderHTML(w, r, views.TableView(params))
	}
}

// handleImportPage submits an upload and renders the report as HTML.
func (s *Server) handleImportPage(w http.ResponseWriter, r *http.Request) {
	report, ok := s.submitImport(w, r)
	if !ok {
		return
	}

	params := views.ImportParams{Report: report, ErrorLines: report.ErrorLines()}
	if r.Header.Get("HX-Request") == "true" {
		s.renderHTML(w, r, views.ImportResult(params))
	} else {
		s.renderHTML(w, r, views.ImportPage(params))
	}
}

func (s *Server) renderHTML(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}
