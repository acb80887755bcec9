// Package views renders the console's HTML pages as templ components.
package views

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/a-h/templ"
)

// TableParams is one page of a list screen ready for display.
type TableParams struct {
	Screen core.Screen
	Page   *core.ListPage
	Table  core.ExportTable

	// Query holds the filters of the request; pager links keep them.
	Query url.Values
}

// ImportParams is the outcome of an upload submitted from the console.
type ImportParams struct {
	Report     *core.ImportReport
	ErrorLines []string
}

// Layout wraps body in the page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+` · crmdesk</title></head><body><main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

// TableView is the full list page.
func TableView(p TableParams) templ.Component {
	return Layout(p.Screen.Label, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>"+templ.EscapeString(p.Screen.Label)+"</h1>"); err != nil {
			return err
		}
		return TablePartial(p).Render(ctx, w)
	}))
}

// TablePartial is the table and pager alone, swapped in on HTMX requests.
func TablePartial(p TableParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		sw := &stickyWriter{w: w}

		sw.write(`<section id="list-` + templ.EscapeString(p.Screen.Key) + `">`)
		sw.write(`<p class="count">` + strconv.Itoa(p.Page.TotalMatched) + " matching · page " +
			strconv.Itoa(p.Page.Page) + " of " + strconv.Itoa(p.Page.TotalPages) + "</p>")

		sw.write("<table><thead><tr>")
		for _, h := range p.Table.Headers {
			sw.write("<th>" + templ.EscapeString(h) + "</th>")
		}
		sw.write("</tr></thead><tbody>")
		if len(p.Table.Rows) == 0 {
			sw.write(`<tr><td colspan="` + strconv.Itoa(max(len(p.Table.Headers), 1)) + `">No ` +
				templ.EscapeString(p.Screen.Entity) + " match the current filters.</td></tr>")
		}
		for _, row := range p.Table.Rows {
			sw.write("<tr>")
			for _, cell := range row {
				sw.write("<td>" + templ.EscapeString(cell) + "</td>")
			}
			sw.write("</tr>")
		}
		sw.write("</tbody></table>")

		sw.write(`<nav class="pager">`)
		if p.Page.Page > 1 {
			sw.write(`<a rel="prev" href="` + templ.EscapeString(pageHref(p, p.Page.Page-1)) + `">Previous</a>`)
		}
		if p.Page.Page < p.Page.TotalPages {
			sw.write(`<a rel="next" href="` + templ.EscapeString(pageHref(p, p.Page.Page+1)) + `">Next</a>`)
		}
		sw.write("</nav></section>")
		return sw.err
	})
}

// pageHref links to page n under the same filters. prev carries the current
// filter key so a changed filter falls back to page 1.
func pageHref(p TableParams, n int) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	q.Set("prev", p.Page.FilterKey)
	return "?" + q.Encode()
}

// ImportResult shows the import summary and the previewed per-row errors.
func ImportResult(p ImportParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		sw := &stickyWriter{w: w}
		r := p.Report

		sw.write(`<section id="import-result">`)
		sw.write(`<p class="summary">` + templ.EscapeString(r.Summary) + "</p>")
		sw.write(`<dl><dt>File</dt><dd>` + templ.EscapeString(r.FileName) + "</dd>" +
			"<dt>Submitted</dt><dd>" + strconv.Itoa(r.Submitted) + "</dd>" +
			"<dt>Imported</dt><dd>" + strconv.Itoa(r.Imported) + "</dd>" +
			"<dt>New customers</dt><dd>" + strconv.Itoa(r.CreatedCustomers) + "</dd>" +
			"<dt>Errors</dt><dd>" + strconv.Itoa(r.TotalErrors) + "</dd></dl>")
		if len(p.ErrorLines) > 0 {
			sw.write(`<ul class="errors">`)
			for _, line := range p.ErrorLines {
				sw.write("<li>" + templ.EscapeString(line) + "</li>")
			}
			sw.write("</ul>")
		}
		sw.write("</section>")
		return sw.err
	})
}

// ImportPage is ImportResult inside the page chrome.
func ImportPage(p ImportParams) templ.Component {
	return Layout("Membership import", ImportResult(p))
}

// stickyWriter keeps the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}
