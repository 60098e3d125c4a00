package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/farklestats/internal/web/templates/layout"
)

// ErrorData is the data for an error page
type ErrorData struct {
	layout.PageData
	Message string
}

// Error renders a message with a link back to the leaderboard
func Error(data ErrorData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := layout.NewWriter(out)
		w.Raw(`<p class="error">`)
		w.Text(data.Message)
		w.Raw(`</p><p><a href="/">Back to the leaderboard</a></p>`)
		return w.Err()
	})

	return layout.Base(data.PageData, body)
}
