package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// multipartOverhead is allowed on top of the file size for form boundaries and fields.
const multipartOverhead = 1 << 20

// importResponse is the import report plus the preformatted error lines.
type importResponse struct {
	*core.ImportReport
	ErrorLines []string `json:"errorLines"`
}

// handleImport accepts a multipart "file" and submits its rows as memberships.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.submitImport(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, importResponse{ImportReport: report, ErrorLines: report.ErrorLines()})
}

// submitImport runs an upload through the service. Failures are written to w
// and reported as !ok. Optional branch and status values name the list view
// the refreshed memberships should match.
func (s *Server) submitImport(w http.ResponseWriter, r *http.Request) (*core.ImportReport, bool) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, core.ErrFileTooLarge)
			return nil, false
		}
		s.fail(w, r, core.ErrNoFile)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, core.ErrNoFile)
		return nil, false
	}
	defer file.Close()

	if header.Size > maxSize {
		s.fail(w, r, core.ErrFileTooLarge)
		return nil, false
	}

	ctx := WithRequestMetadata(r.Context(), r)
	view := core.MembershipFilter{BranchID: r.FormValue("branch"), Status: r.FormValue("status")}
	report, err := s.service.ImportMemberships(ctx, operatorFor(s.sessions.User()), view, header.Filename, file)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return report, true
}

// operatorFor keys the import guard by user. Without a user every import shares one key.
func operatorFor(u *core.User) core.Operator {
	if u == nil {
		return core.Operator{Key: "anonymous"}
	}
	name := u.Email
	if name == "" {
		name = u.Name
	}
	return core.Operator{Key: u.ID, Name: name}
}

func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.ImportHistory(r.Context(), parseIntParam(r, "limit", 20))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}

// handleImportTemplate downloads the canonical header row.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	table := core.ExportTable{Entity: "memberships", Headers: core.MembershipImportHeaders}
	writeDownload(w, core.CSVContentType, "membership-import-template.csv", []byte(table.CSV()))
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.Guard().Status())
}
