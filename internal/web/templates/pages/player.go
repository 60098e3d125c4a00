package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/web/templates/layout"
)

// PlayerData is the data for a player's stats page
type PlayerData struct {
	layout.PageData
	Stats model.PlayerTotals
}

// Player renders one player's aggregate statistics
func Player(data PlayerData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := layout.NewWriter(out)
		t := data.Stats

		if t.GamesPlayed == 0 {
			w.Raw(`<p class="empty">No games played yet.</p>`)
		}

		fields := []struct {
			id, label, value string
		}{
			{"games-played", "Games played", strconv.Itoa(t.GamesPlayed)},
			{"wins", "Wins", strconv.Itoa(t.Wins)},
			{"total-points", "Total points", strconv.Itoa(t.TotalPoints)},
			{"avg-score", "Average score", fmt.Sprintf("%.1f", t.AvgScore())},
			{"total-farkles", "Farkles", strconv.Itoa(t.TotalFarkles)},
			{"high-score", "High score", strconv.Itoa(t.HighScore)},
		}

		w.Raw(`<dl id="stats">`)
		for _, f := range fields {
			w.Raw(`<dt>`)
			w.Text(f.label)
			w.Raw(`</dt><dd id="`)
			w.Text(f.id)
			w.Raw(`">`)
			w.Text(f.value)
			w.Raw(`</dd>`)
		}
		w.Raw(`</dl>`)
		return w.Err()
	})

	return layout.Base(data.PageData, body)
}
