package participant

// Participant is a confirmed entrant of one category's draw, created at
// draw-generation time and immutable for the lifetime of that draw.
// Seed is the rank within the draw (1 = strongest); SeedScore is the
// numeric score the rank was derived from.
type Participant struct {
	ID           string
	TournamentID string
	CategoryID   string
	PlayerID     string
	Name         string
	Seed         int
	SeedScore    float64
}
