package stats

// PlayerStats holds a player's cumulative historical totals. The
// seeding scorer reads them; the points awarder increments them once a
// category finishes.
type PlayerStats struct {
	PlayerID          string
	MatchesPlayed     int
	MatchesWon        int
	MatchesLost       int
	TournamentsPlayed int
	TournamentsWon    int
	AwardPoints       int
}
