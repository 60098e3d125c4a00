package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/web/templates/layout"
)

// LeaderboardData is the data for the leaderboard page
type LeaderboardData struct {
	layout.PageData
	Sort  model.SortKey
	Limit int
	Rows  []model.PlayerTotals
	// Live reloads the page when a game is recorded or a player deleted
	Live bool
}

const liveReloadScript = `<script>(function(){` +
	`var es=new EventSource("/events");` +
	`["game-recorded","player-deleted"].forEach(function(n){` +
	`es.addEventListener(n,function(){es.close();location.reload();});});` +
	`})();</script>`

var sortLabels = []struct {
	key   model.SortKey
	label string
}{
	{model.SortByAvgScore, "Average score"},
	{model.SortByWins, "Wins"},
	{model.SortByTotalPoints, "Total points"},
}

// Leaderboard renders the ranked player table
func Leaderboard(data LeaderboardData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := layout.NewWriter(out)

		w.Raw(`<nav id="sort">`)
		for _, s := range sortLabels {
			q := url.Values{"sort": {string(s.key)}, "limit": {strconv.Itoa(data.Limit)}}
			w.Raw(`<a href="/leaderboard?`)
			w.Text(q.Encode())
			w.Raw(`" data-sort="`)
			w.Text(string(s.key))
			w.Raw(`"`)
			if s.key == data.Sort {
				w.Raw(` class="active"`)
			}
			w.Raw(`>`)
			w.Text(s.label)
			w.Raw(`</a>`)
		}
		w.Raw(`</nav>`)

		if data.Live {
			w.Raw(`<div id="live" data-events="/events">`)
			w.Raw(liveReloadScript)
			w.Raw(`</div>`)
		}

		if len(data.Rows) == 0 {
			w.Raw(`<p class="empty">No games recorded yet.</p>`)
			return w.Err()
		}

		w.Raw(`<table id="leaderboard"><thead><tr><th>#</th><th>Player</th><th>Wins</th>` +
			`<th>Avg score</th><th>Total points</th></tr></thead><tbody>`)
		for i, row := range data.Rows {
			w.Raw(`<tr class="row" data-player-id="`)
			w.Text(string(row.PlayerID))
			w.Raw(`"><td class="rank">`)
			w.Text(strconv.Itoa(i + 1))
			w.Raw(`</td><td class="name"><a href="/players/`)
			w.Text(url.PathEscape(string(row.PlayerID)))
			w.Raw(`">`)
			w.Text(row.DisplayName)
			w.Raw(`</a></td><td class="wins">`)
			w.Text(strconv.Itoa(row.Wins))
			w.Raw(`</td><td class="avg">`)
			w.Text(fmt.Sprintf("%.1f", row.AvgScore()))
			w.Raw(`</td><td class="total">`)
			w.Text(strconv.Itoa(row.TotalPoints))
			w.Raw(`</td></tr>`)
		}
		w.Raw(`</tbody></table>`)
		return w.Err()
	})

	return layout.Base(data.PageData, body)
}
