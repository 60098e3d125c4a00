package postgres

const totalsColumns = `
    p.player_id AS player_id,
    p.display_name AS display_name,
    COUNT(r.result_id) AS games_played,
    COALESCE(SUM(CASE WHEN r.won THEN 1 ELSE 0 END), 0)::bigint AS wins,
    COALESCE(SUM(r.score), 0)::bigint AS total_points,
    COALESCE(SUM(r.farkles), 0)::bigint AS total_farkles,
    COALESCE(MAX(r.score), 0)::bigint AS high_score
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
