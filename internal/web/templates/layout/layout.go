// Package layout holds the shared page chrome for the HTML pages
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PageData is common data for every page
type PageData struct {
	Title string
}

// Writer writes HTML fragments, keeping the first error
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup as-is
func (w *Writer) Raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// Text writes s HTML-escaped
func (w *Writer) Text(s string) {
	w.Raw(templ.EscapeString(s))
}

// Component renders c into the same output
func (w *Writer) Component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

// Err returns the first error encountered
func (w *Writer) Err() error {
	return w.err
}

// Base wraps body in the site layout
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := NewWriter(out)
		w.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.Raw(`<title>`)
		w.Text(data.Title)
		w.Raw(` | Farkle Stats</title>`)
		w.Raw(`<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}` +
			`table{border-collapse:collapse;width:100%}th,td{text-align:left;padding:.4rem;border-bottom:1px solid #ddd}` +
			`nav a{margin-right:1rem}a.active{font-weight:bold}</style>`)
		w.Raw(`</head><body><header><nav><a href="/">Leaderboard</a></nav></header><main>`)
		w.Raw(`<h1>`)
		w.Text(data.Title)
		w.Raw(`</h1>`)
		w.Component(ctx, body)
		w.Raw(`</main></body></html>`)
		return w.Err()
	})
}
