// Package core provides the list, export and import logic of crmdesk.
//
// The package holds all domain logic independent of any transport. The CRM
// REST backend is reached through the [Backend] interface, so web handlers and
// tests drive the same code.
//
// # Architecture
//
//   - List engine: [View], [Filter] and [Paginate] apply a [FilterSpec] to any
//     row type, parameterized by a per-screen [ScreenFields] map.
//   - Screens: registered at init time. Each screen knows how to fetch its rows,
//     which fields are searchable, and how to render an export.
//   - Codec: [EncodeCSV], [EncodeXLSX] and [DecodeMembershipCSV].
//   - Service: the entry point for list, export, import and form operations.
//
// # List Screens
//
// Every list call re-fetches rows from the backend and filters locally:
//
//	page, err := svc.List(ctx, core.ScreenMemberships, core.ListQuery{
//	    Query: "alice",
//	    From:  "2024-01-01",
//	    To:    "2024-01-31",
//	    Page:  2,
//	})
//
// A query whose filters differ from the caller's previous page (PrevKey) is
// served from page 1.
//
// # Import
//
// [Service.ImportMemberships] decodes a CSV file, refuses empty results with
// [ErrNoValidRows] before any network call, and submits all rows in one batch.
// Only one import per operator may be in flight; see [ImportGuard].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - NET001: backend unreachable
//   - AUTH001-AUTH002: session expired, account blocked
//   - IMP001-IMP003: import errors
//   - FILE001-FILE002: file errors
//   - VAL001-VAL002: validation errors
package core
