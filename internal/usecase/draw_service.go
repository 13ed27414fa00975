package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/stats"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/id"
)

// DrawService owns the draw lifecycle of a category: seeding,
// bracket/group construction, materialization into match rows, manual
// slot edits before play starts and the group-to-knockout advancement
// of the hybrid format. All mutations serialize per category.
type DrawService struct {
	drawRepo        draw.Repository
	matchRepo       match.Repository
	participantRepo participant.Repository
	statsRepo       statsReader
	idGen           id.Generator
	locks           *CategoryLocks
	newRNG          func() *rand.Rand
}

// statsReader is the slice of the stats repository seeding needs.
type statsReader interface {
	GetByPlayers(ctx context.Context, playerIDs []string) (map[string]stats.PlayerStats, error)
}

func NewDrawService(
	drawRepo draw.Repository,
	matchRepo match.Repository,
	participantRepo participant.Repository,
	statsRepo statsReader,
	idGen id.Generator,
	locks *CategoryLocks,
) *DrawService {
	return &DrawService{
		drawRepo:        drawRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		statsRepo:       statsRepo,
		idGen:           idGen,
		locks:           locks,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

type GenerateDrawInput struct {
	TournamentID     string `validate:"required"`
	CategoryID       string `validate:"required"`
	Format           string `validate:"required"`
	NumberOfGroups   int
	AdvanceFromGroup int
	Regenerate       bool
}

// SlotAssignment places one player into one knockout slot. An empty
// PlayerID clears the slot.
type SlotAssignment struct {
	MatchNumber int
	Position    string
	PlayerID    string
}

func (s *DrawService) Generate(ctx context.Context, in GenerateDrawInput) (draw.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.Generate")
	defer span.End()

	in.TournamentID = strings.TrimSpace(in.TournamentID)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.TournamentID == "" || in.CategoryID == "" {
		return draw.Schedule{}, fmt.Errorf("%w: tournament id and category id are required", ErrInvalidInput)
	}
	switch in.Format {
	case draw.FormatKnockout:
	case draw.FormatRoundRobin:
		if in.NumberOfGroups < 1 {
			return draw.Schedule{}, fmt.Errorf("%w: number of groups must be >= 1", ErrInvalidInput)
		}
	case draw.FormatRoundRobinKnockout:
		if in.NumberOfGroups < 1 || in.AdvanceFromGroup < 1 {
			return draw.Schedule{}, fmt.Errorf("%w: number of groups and advance-from-group must be >= 1", ErrInvalidInput)
		}
	default:
		return draw.Schedule{}, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, in.Format)
	}

	unlock := s.locks.Acquire(in.TournamentID, in.CategoryID)
	defer unlock()

	_, exists, err := s.drawRepo.Get(ctx, in.TournamentID, in.CategoryID)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("get schedule: %w", err)
	}
	if exists && !in.Regenerate {
		return draw.Schedule{}, fmt.Errorf("%w: draw already generated for category=%s", ErrConflict, in.CategoryID)
	}

	confirmed, err := s.participantRepo.ListConfirmedByCategory(ctx, in.TournamentID, in.CategoryID)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("list confirmed participants: %w", err)
	}
	if len(confirmed) < 2 {
		return draw.Schedule{}, fmt.Errorf("%w: %d confirmed participants, need at least 2", ErrInvalidInput, len(confirmed))
	}

	playerIDs := make([]string, 0, len(confirmed))
	for _, p := range confirmed {
		playerIDs = append(playerIDs, p.PlayerID)
	}
	statsByPlayer, err := s.statsRepo.GetByPlayers(ctx, playerIDs)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("get player stats: %w", err)
	}

	seeded := draw.SeedParticipants(confirmed, statsByPlayer, s.newRNG())

	schedule := draw.Schedule{
		TournamentID:      in.TournamentID,
		CategoryID:        in.CategoryID,
		Format:            in.Format,
		Version:           1,
		TotalParticipants: len(seeded),
	}

	var rows []match.Match
	switch in.Format {
	case draw.FormatKnockout:
		plan, err := draw.BuildKnockout(seeded)
		if err != nil {
			return draw.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		knockoutRows, bracket, _, err := materializeKnockout(s.idGen, in.TournamentID, in.CategoryID, plan, 1)
		if err != nil {
			return draw.Schedule{}, err
		}
		bracket.TotalParticipants = len(seeded)
		rows = knockoutRows
		schedule.Knockout = bracket

	case draw.FormatRoundRobin:
		plan, err := draw.BuildRoundRobin(seeded, in.NumberOfGroups)
		if err != nil {
			return draw.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		groupRows, stage, _, err := materializeGroups(s.idGen, in.TournamentID, in.CategoryID, plan, 1)
		if err != nil {
			return draw.Schedule{}, err
		}
		rows = groupRows
		schedule.RoundRobin = stage

	case draw.FormatRoundRobinKnockout:
		plan, err := draw.BuildHybrid(seeded, in.NumberOfGroups, in.AdvanceFromGroup)
		if err != nil {
			return draw.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		groupRows, stage, next, err := materializeGroups(s.idGen, in.TournamentID, in.CategoryID, plan.Groups, 1)
		if err != nil {
			return draw.Schedule{}, err
		}
		knockoutRows, bracket, _, err := materializeKnockout(s.idGen, in.TournamentID, in.CategoryID, plan.Knockout, next)
		if err != nil {
			return draw.Schedule{}, err
		}
		stage.AdvanceFromGroup = plan.AdvanceFromGroup
		bracket.TotalParticipants = plan.Knockout.BracketSize
		rows = append(groupRows, knockoutRows...)
		schedule.RoundRobin = stage
		schedule.Knockout = bracket
	}

	// Nothing is written until the whole new draw is built, so a failed
	// regenerate leaves the existing draw untouched.
	if err := s.participantRepo.ReplaceForCategory(ctx, in.TournamentID, in.CategoryID, seeded); err != nil {
		return draw.Schedule{}, fmt.Errorf("persist seeded participants: %w", err)
	}
	if err := s.matchRepo.ReplaceForCategory(ctx, in.TournamentID, in.CategoryID, rows); err != nil {
		return draw.Schedule{}, fmt.Errorf("persist match rows: %w", err)
	}
	if exists {
		if err := s.drawRepo.Delete(ctx, in.TournamentID, in.CategoryID); err != nil {
			return draw.Schedule{}, fmt.Errorf("delete schedule: %w", err)
		}
	}
	if err := s.drawRepo.Create(ctx, schedule); err != nil {
		return draw.Schedule{}, fmt.Errorf("persist schedule: %w", err)
	}

	return schedule, nil
}

func (s *DrawService) Get(ctx context.Context, tournamentID, categoryID string) (draw.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.Get")
	defer span.End()

	return loadSchedule(ctx, s.drawRepo, tournamentID, categoryID)
}

// AssignSlot places (or clears) one participant slot of a pending
// knockout match before play starts.
func (s *DrawService) AssignSlot(ctx context.Context, tournamentID, categoryID string, assignment SlotAssignment) (draw.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.AssignSlot")
	defer span.End()

	return s.assign(ctx, tournamentID, categoryID, []SlotAssignment{assignment})
}

// BulkAssign applies a batch of slot assignments atomically: either
// every assignment is legal or none is applied.
func (s *DrawService) BulkAssign(ctx context.Context, tournamentID, categoryID string, assignments []SlotAssignment) (draw.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.BulkAssign")
	defer span.End()

	if len(assignments) == 0 {
		return draw.Schedule{}, fmt.Errorf("%w: no assignments given", ErrInvalidInput)
	}
	return s.assign(ctx, tournamentID, categoryID, assignments)
}

func (s *DrawService) assign(ctx context.Context, tournamentID, categoryID string, assignments []SlotAssignment) (draw.Schedule, error) {
	unlock := s.locks.Acquire(tournamentID, categoryID)
	defer unlock()

	return s.assignLocked(ctx, tournamentID, categoryID, assignments)
}

// assignLocked applies slot assignments; the caller holds the category
// lock.
func (s *DrawService) assignLocked(ctx context.Context, tournamentID, categoryID string, assignments []SlotAssignment) (draw.Schedule, error) {
	schedule, err := loadSchedule(ctx, s.drawRepo, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, err
	}
	if schedule.Knockout == nil {
		return draw.Schedule{}, fmt.Errorf("%w: category has no knockout stage", ErrInvalidInput)
	}

	confirmed, err := s.participantRepo.ListConfirmedByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("list confirmed participants: %w", err)
	}
	byPlayer := make(map[string]participant.Participant, len(confirmed))
	for _, p := range confirmed {
		byPlayer[p.PlayerID] = p
	}

	changed := make(map[int]match.Match, len(assignments))
	for _, a := range assignments {
		if a.Position != match.PositionPlayer1 && a.Position != match.PositionPlayer2 {
			return draw.Schedule{}, fmt.Errorf("%w: unknown slot position %q", ErrInvalidInput, a.Position)
		}

		row, ok := changed[a.MatchNumber]
		if !ok {
			stored, exists, err := s.matchRepo.GetByNumber(ctx, tournamentID, categoryID, a.MatchNumber)
			if err != nil {
				return draw.Schedule{}, fmt.Errorf("get match %d: %w", a.MatchNumber, err)
			}
			if !exists {
				return draw.Schedule{}, fmt.Errorf("%w: match number %d", ErrNotFound, a.MatchNumber)
			}
			row = stored
		}
		if row.Stage != match.StageKnockout {
			return draw.Schedule{}, fmt.Errorf("%w: group slots are fixed at generation", ErrInvalidInput)
		}
		if row.SlotsLocked() {
			return draw.Schedule{}, fmt.Errorf("%w: match %d already started", ErrConflict, a.MatchNumber)
		}

		var entry *draw.SlotEntry
		if a.PlayerID != "" {
			p, ok := byPlayer[a.PlayerID]
			if !ok {
				return draw.Schedule{}, fmt.Errorf("%w: player %s is not a confirmed participant", ErrInvalidInput, a.PlayerID)
			}
			entry = &draw.SlotEntry{PlayerID: p.PlayerID, Name: p.Name, Seed: p.Seed}
		}

		applySlot(&row, a.Position, entry)
		row.Status = openSlotStatus(row)
		changed[a.MatchNumber] = row

		slot, ok := findBracketSlot(schedule.Knockout, a.MatchNumber)
		if !ok {
			return draw.Schedule{}, fmt.Errorf("%w: match %d missing from bracket view", ErrCorruptSchedule, a.MatchNumber)
		}
		if a.Position == match.PositionPlayer1 {
			slot.Player1 = entry
		} else {
			slot.Player2 = entry
		}
	}

	if err := s.checkNoDuplicateOccupants(ctx, tournamentID, categoryID, changed); err != nil {
		return draw.Schedule{}, err
	}

	for _, row := range changed {
		if err := s.matchRepo.Update(ctx, row); err != nil {
			return draw.Schedule{}, fmt.Errorf("update match %d: %w", row.MatchNumber, err)
		}
	}
	if err := s.drawRepo.Save(ctx, schedule); err != nil {
		return draw.Schedule{}, fmt.Errorf("save schedule: %w", err)
	}
	schedule.Version++

	return schedule, nil
}

// checkNoDuplicateOccupants rejects an edit that would place the same
// player into two knockout slots.
func (s *DrawService) checkNoDuplicateOccupants(ctx context.Context, tournamentID, categoryID string, changed map[int]match.Match) error {
	rows, err := s.matchRepo.ListByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return fmt.Errorf("list category matches: %w", err)
	}

	seen := make(map[string]int)
	for _, stored := range rows {
		if stored.Stage != match.StageKnockout {
			continue
		}
		row := stored
		if edited, ok := changed[stored.MatchNumber]; ok {
			row = edited
		}
		for _, slot := range []*string{row.Player1ID, row.Player2ID} {
			if slot == nil || *slot == "" {
				continue
			}
			if other, dup := seen[*slot]; dup && other != row.MatchNumber {
				return fmt.Errorf("%w: player %s would occupy matches %d and %d", ErrInvalidInput, *slot, other, row.MatchNumber)
			}
			seen[*slot] = row.MatchNumber
		}
	}
	return nil
}

// Shuffle re-randomizes the occupants of the still-unlocked first
// round knockout slots. Bracket topology, byes and anything already
// started stay untouched.
func (s *DrawService) Shuffle(ctx context.Context, tournamentID, categoryID string) (draw.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.Shuffle")
	defer span.End()

	unlock := s.locks.Acquire(tournamentID, categoryID)
	defer unlock()

	schedule, err := loadSchedule(ctx, s.drawRepo, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, err
	}
	if schedule.Knockout == nil {
		return draw.Schedule{}, fmt.Errorf("%w: category has no knockout stage", ErrInvalidInput)
	}

	rows, err := s.matchRepo.ListByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("list category matches: %w", err)
	}

	confirmed, err := s.participantRepo.ListConfirmedByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("list confirmed participants: %w", err)
	}
	names := make(map[string]string, len(confirmed))
	for _, p := range confirmed {
		names[p.PlayerID] = p.Name
	}

	firstRound := draw.TotalRounds(schedule.Knockout.BracketSize)

	type openSlot struct {
		row      *match.Match
		position string
	}
	var slots []openSlot
	var occupants []*draw.SlotEntry
	for i := range rows {
		row := &rows[i]
		if row.Stage != match.StageKnockout || row.Round != firstRound || row.SlotsLocked() {
			continue
		}
		for _, position := range []string{match.PositionPlayer1, match.PositionPlayer2} {
			entry := slotEntryOf(*row, position)
			if entry == nil {
				continue
			}
			entry.Name = names[entry.PlayerID]
			slots = append(slots, openSlot{row: row, position: position})
			occupants = append(occupants, entry)
		}
	}
	if len(slots) < 2 {
		return schedule, nil
	}

	rng := s.newRNG()
	rng.Shuffle(len(occupants), func(i, j int) {
		occupants[i], occupants[j] = occupants[j], occupants[i]
	})

	for i, slot := range slots {
		applySlot(slot.row, slot.position, occupants[i])
		slot.row.Status = openSlotStatus(*slot.row)

		viewSlot, ok := findBracketSlot(schedule.Knockout, slot.row.MatchNumber)
		if !ok {
			return draw.Schedule{}, fmt.Errorf("%w: match %d missing from bracket view", ErrCorruptSchedule, slot.row.MatchNumber)
		}
		if slot.position == match.PositionPlayer1 {
			viewSlot.Player1 = copySlot(occupants[i])
		} else {
			viewSlot.Player2 = copySlot(occupants[i])
		}
	}

	updated := make(map[int]struct{})
	for _, slot := range slots {
		if _, done := updated[slot.row.MatchNumber]; done {
			continue
		}
		updated[slot.row.MatchNumber] = struct{}{}
		if err := s.matchRepo.Update(ctx, *slot.row); err != nil {
			return draw.Schedule{}, fmt.Errorf("update match %d: %w", slot.row.MatchNumber, err)
		}
	}
	if err := s.drawRepo.Save(ctx, schedule); err != nil {
		return draw.Schedule{}, fmt.Errorf("save schedule: %w", err)
	}
	schedule.Version++

	return schedule, nil
}

// ContinueToKnockout fills the empty knockout bracket of a hybrid draw
// with group qualifiers, per the given placement picks. Every group
// match must be finished, every pick must be a top-N player of its
// group and every qualifier must be placed exactly once.
func (s *DrawService) ContinueToKnockout(ctx context.Context, tournamentID, categoryID string, picks []SlotAssignment) (draw.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.ContinueToKnockout")
	defer span.End()

	unlock := s.locks.Acquire(tournamentID, categoryID)
	defer unlock()

	schedule, err := loadSchedule(ctx, s.drawRepo, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, err
	}
	if schedule.Format != draw.FormatRoundRobinKnockout {
		return draw.Schedule{}, fmt.Errorf("%w: format %s has no advancement stage", ErrInvalidInput, schedule.Format)
	}

	rows, err := s.matchRepo.ListByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("list category matches: %w", err)
	}
	for _, row := range rows {
		if row.Stage == match.StageGroup && !row.Finished() {
			return draw.Schedule{}, fmt.Errorf("%w: group match %d is not finished", ErrConflict, row.MatchNumber)
		}
	}

	firstRound := draw.TotalRounds(schedule.Knockout.BracketSize)
	for _, viewRound := range schedule.Knockout.Rounds {
		if viewRound.RoundNumber != firstRound {
			continue
		}
		for _, slot := range viewRound.Matches {
			if slot.Player1 != nil || slot.Player2 != nil {
				return draw.Schedule{}, fmt.Errorf("%w: knockout stage already populated", ErrConflict)
			}
		}
	}

	// Standings entries are kept sorted by the recompute, so the top
	// advanceFromGroup rows of each group are its qualifiers.
	qualifiers := make(map[string]struct{})
	for _, group := range schedule.RoundRobin.Groups {
		advance := schedule.RoundRobin.AdvanceFromGroup
		if advance > len(group.Participants) {
			advance = len(group.Participants)
		}
		for _, entry := range group.Participants[:advance] {
			qualifiers[entry.PlayerID] = struct{}{}
		}
	}

	if len(picks) != len(qualifiers) {
		return draw.Schedule{}, fmt.Errorf("%w: %d picks for %d qualifiers", ErrInvalidInput, len(picks), len(qualifiers))
	}
	seen := make(map[string]struct{}, len(picks))
	for _, pick := range picks {
		if _, ok := qualifiers[pick.PlayerID]; !ok {
			return draw.Schedule{}, fmt.Errorf("%w: player %s did not qualify from the group stage", ErrInvalidInput, pick.PlayerID)
		}
		if _, dup := seen[pick.PlayerID]; dup {
			return draw.Schedule{}, fmt.Errorf("%w: player %s placed twice", ErrInvalidInput, pick.PlayerID)
		}
		seen[pick.PlayerID] = struct{}{}
	}

	return s.assignLocked(ctx, tournamentID, categoryID, picks)
}

func applySlot(row *match.Match, position string, entry *draw.SlotEntry) {
	var playerID *string
	var seed *int
	if entry != nil {
		playerID = strPtr(entry.PlayerID)
		seed = intPtr(entry.Seed)
	}
	if position == match.PositionPlayer1 {
		row.Player1ID = playerID
		row.Player1Seed = seed
	} else {
		row.Player2ID = playerID
		row.Player2Seed = seed
	}
}

func slotEntryOf(row match.Match, position string) *draw.SlotEntry {
	playerID, seed := row.Player1ID, row.Player1Seed
	if position == match.PositionPlayer2 {
		playerID, seed = row.Player2ID, row.Player2Seed
	}
	if playerID == nil || *playerID == "" {
		return nil
	}
	entry := &draw.SlotEntry{PlayerID: *playerID}
	if seed != nil {
		entry.Seed = *seed
	}
	return entry
}

func openSlotStatus(row match.Match) string {
	if row.FilledSlots() == 2 {
		return match.StatusReady
	}
	return match.StatusPending
}

func findBracketSlot(bracket *draw.KnockoutBracket, matchNumber int) (*draw.RoundSlot, bool) {
	for i := range bracket.Rounds {
		for j := range bracket.Rounds[i].Matches {
			if bracket.Rounds[i].Matches[j].MatchNumber == matchNumber {
				return &bracket.Rounds[i].Matches[j], true
			}
		}
	}
	return nil, false
}
