package core

import (
	"context"
	"time"
)

// DefaultPageSize is the fixed page size of every list screen.
const DefaultPageSize = 10

// DefaultErrorPreview is how many per-row import errors are shown before the overflow count.
const DefaultErrorPreview = 10

// Options configures a Service. Zero values select the defaults.
type Options struct {
	PageSize     int
	Location     *time.Location
	ErrorPreview int

	// MaxFileSize caps the bytes read from an import file. Zero means unlimited.
	MaxFileSize int64

	History   HistoryRecorder
	Guard     *ImportGuard
	Validator *FormValidator

	// Now is the clock used for history timestamps and export file names.
	Now func() time.Time
}

// Service provides the list, export, import and form operations of crmdesk.
type Service struct {
	backend Backend

	pageSize     int
	location     *time.Location
	errorPreview int
	maxFileSize  int64

	history   HistoryRecorder
	guard     *ImportGuard
	validator *FormValidator
	now       func() time.Time
}

// NewService creates a new Service backed by the given REST backend.
func NewService(backend Backend, opts Options) *Service {
	s := &Service{
		backend:      backend,
		pageSize:     opts.PageSize,
		location:     opts.Location,
		errorPreview: opts.ErrorPreview,
		maxFileSize:  opts.MaxFileSize,
		history:      opts.History,
		guard:        opts.Guard,
		validator:    opts.Validator,
		now:          opts.Now,
	}

	if s.pageSize < 1 {
		s.pageSize = DefaultPageSize
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.errorPreview < 1 {
		s.errorPreview = DefaultErrorPreview
	}
	if s.history == nil {
		s.history = NopHistory{}
	}
	if s.guard == nil {
		s.guard = NewImportGuard(DefaultMaxConcurrentImports)
	}
	if s.validator == nil {
		s.validator = NewFormValidator("US")
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Location returns the zone used for date filters and formatting.
func (s *Service) Location() *time.Location {
	return s.location
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Guard returns the import guard, for status reporting and shutdown draining.
func (s *Service) Guard() *ImportGuard {
	return s.guard
}

// Validator returns the form validator.
func (s *Service) Validator() *FormValidator {
	return s.validator
}

// ImportHistory lists the most recent import submissions, newest first.
func (s *Service) ImportHistory(ctx context.Context, limit int) ([]ImportHistoryEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.history.Recent(ctx, limit)
}

func (s *Service) env() screenEnv {
	return screenEnv{backend: s.backend, location: s.location, pageSize: s.pageSize}
}
