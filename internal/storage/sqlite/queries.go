package sqlite

// Aggregate queries. won is stored as 0/1 so SUM counts wins.

const totalsColumns = `
    p.player_id,
    p.display_name,
    COUNT(r.result_id),
    COALESCE(SUM(r.won), 0),
    COALESCE(SUM(r.score), 0),
    COALESCE(SUM(r.farkles), 0),
    COALESCE(MAX(r.score), 0)
`

const playerTotalsQuery = `
SELECT` + totalsColumns + `
FROM player_profiles p
LEFT JOIN game_results r ON r.player_id = p.player_id
WHERE p.player_id = ?
GROUP BY p.player_id, p.display_name
`

const leaderboardTotalsQuery = `
SELECT` + totalsColumns + `
FROM player_profiles p
JOIN game_results r ON r.player_id = p.player_id
GROUP BY p.player_id, p.display_name
`

const userPlayerTotalsQuery = `
SELECT` + totalsColumns + `
FROM player_profiles p
LEFT JOIN game_results r ON r.player_id = p.player_id
WHERE p.user_id = ?
GROUP BY p.player_id, p.display_name, p.created_at
ORDER BY p.created_at, p.player_id
`
