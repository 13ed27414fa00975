package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
)

// ProgressionService drives matches through their lifecycle: starting,
// recording results, manual byes and undo. Completed knockout matches
// push their winner into the parent's slot; completed group matches
// trigger a standings recompute. All mutations serialize per category.
type ProgressionService struct {
	drawRepo  draw.Repository
	matchRepo match.Repository
	locks     *CategoryLocks
	now       func() time.Time
}

func NewProgressionService(drawRepo draw.Repository, matchRepo match.Repository, locks *CategoryLocks) *ProgressionService {
	return &ProgressionService{
		drawRepo:  drawRepo,
		matchRepo: matchRepo,
		locks:     locks,
		now:       time.Now,
	}
}

type RecordResultInput struct {
	MatchID  string `validate:"required"`
	WinnerID string `validate:"required"`
	Score1   *string
	Score2   *string
}

// scorePayload is the persisted shape of a recorded score. Scores are
// display strings; the engine never interprets them.
type scorePayload struct {
	Score1 *string `json:"score1,omitempty"`
	Score2 *string `json:"score2,omitempty"`
}

// ListMatches returns a category's match rows ordered by match number.
func (s *ProgressionService) ListMatches(ctx context.Context, tournamentID, categoryID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.ListMatches")
	defer span.End()

	rows, err := s.matchRepo.ListByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category matches: %w", err)
	}
	return rows, nil
}

// StartMatch moves a READY match to IN_PROGRESS, locking its slots.
func (s *ProgressionService) StartMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.StartMatch")
	defer span.End()

	row, unlock, err := s.lockMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	defer unlock()

	if row.Status != match.StatusReady {
		return match.Match{}, fmt.Errorf("%w: match %d is %s, only READY matches can start", ErrConflict, row.MatchNumber, row.Status)
	}

	row.Status = match.StatusInProgress
	if err := s.matchRepo.Update(ctx, row); err != nil {
		return match.Match{}, fmt.Errorf("update match %d: %w", row.MatchNumber, err)
	}
	return row, nil
}

// RecordResult completes a match with the given winner, appends the
// score history entry, advances the winner into the parent slot (for
// knockout) or recomputes the group standings (for group play).
func (s *ProgressionService) RecordResult(ctx context.Context, in RecordResultInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.RecordResult")
	defer span.End()

	if in.WinnerID == "" {
		return match.Match{}, fmt.Errorf("%w: winner id is required", ErrInvalidInput)
	}

	row, unlock, err := s.lockMatch(ctx, in.MatchID)
	if err != nil {
		return match.Match{}, err
	}
	defer unlock()

	if row.Finished() {
		return match.Match{}, fmt.Errorf("%w: match %d already has a result, undo it first", ErrConflict, row.MatchNumber)
	}
	if row.Status != match.StatusReady && row.Status != match.StatusInProgress {
		return match.Match{}, fmt.Errorf("%w: match %d is %s, not ready for a result", ErrConflict, row.MatchNumber, row.Status)
	}
	if !row.HasPlayer(in.WinnerID) {
		return match.Match{}, fmt.Errorf("%w: player %s is not in match %d", ErrInvalidInput, in.WinnerID, row.MatchNumber)
	}

	if err := s.checkParentAcceptsWinner(ctx, row); err != nil {
		return match.Match{}, err
	}

	schedule, err := loadSchedule(ctx, s.drawRepo, row.TournamentID, row.CategoryID)
	if err != nil {
		return match.Match{}, err
	}

	var scoreJSON *string
	if in.Score1 != nil || in.Score2 != nil {
		raw, err := sonic.MarshalString(scorePayload{Score1: in.Score1, Score2: in.Score2})
		if err != nil {
			return match.Match{}, fmt.Errorf("encode score: %w", err)
		}
		scoreJSON = &raw
	}

	if err := s.appendHistory(ctx, row, scoreJSON); err != nil {
		return match.Match{}, err
	}

	row.Status = match.StatusCompleted
	row.WinnerID = strPtr(in.WinnerID)
	row.ScoreJSON = scoreJSON
	if err := s.matchRepo.Update(ctx, row); err != nil {
		return match.Match{}, fmt.Errorf("update match %d: %w", row.MatchNumber, err)
	}

	switch row.Stage {
	case match.StageGroup:
		if err := recomputeGroupStandings(ctx, s.matchRepo, &schedule, row.GroupName); err != nil {
			return match.Match{}, err
		}
	case match.StageKnockout:
		if err := s.completeKnockout(ctx, &schedule, row, in.Score1, in.Score2); err != nil {
			return match.Match{}, err
		}
	}

	if err := s.drawRepo.Save(ctx, schedule); err != nil {
		return match.Match{}, fmt.Errorf("save schedule: %w", err)
	}
	return row, nil
}

// GiveBye completes a half-filled match as a walkover for its sole
// occupant, who must be named explicitly.
func (s *ProgressionService) GiveBye(ctx context.Context, matchID, winnerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.GiveBye")
	defer span.End()

	if winnerID == "" {
		return match.Match{}, fmt.Errorf("%w: winner id is required", ErrInvalidInput)
	}

	row, unlock, err := s.lockMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	defer unlock()

	if row.Finished() {
		return match.Match{}, fmt.Errorf("%w: match %d already has a result", ErrConflict, row.MatchNumber)
	}
	if row.FilledSlots() != 1 {
		return match.Match{}, fmt.Errorf("%w: a bye needs exactly one occupied slot, match %d has %d", ErrConflict, row.MatchNumber, row.FilledSlots())
	}
	if !row.HasPlayer(winnerID) {
		return match.Match{}, fmt.Errorf("%w: player %s is not in match %d", ErrInvalidInput, winnerID, row.MatchNumber)
	}
	if err := s.checkParentAcceptsWinner(ctx, row); err != nil {
		return match.Match{}, err
	}

	schedule, err := loadSchedule(ctx, s.drawRepo, row.TournamentID, row.CategoryID)
	if err != nil {
		return match.Match{}, err
	}

	if err := s.appendHistory(ctx, row, nil); err != nil {
		return match.Match{}, err
	}

	row.Status = match.StatusByeCompleted
	row.WinnerID = strPtr(winnerID)
	row.ScoreJSON = nil
	if err := s.matchRepo.Update(ctx, row); err != nil {
		return match.Match{}, fmt.Errorf("update match %d: %w", row.MatchNumber, err)
	}

	if row.Stage == match.StageKnockout {
		if err := s.completeKnockout(ctx, &schedule, row, nil, nil); err != nil {
			return match.Match{}, err
		}
	}

	if err := s.drawRepo.Save(ctx, schedule); err != nil {
		return match.Match{}, fmt.Errorf("save schedule: %w", err)
	}
	return row, nil
}

// UndoResult reverts the most recent recorded result of a match,
// restoring the exact prior state from the score history. Refused when
// the downstream match has already started: the bracket past that
// point is no longer just a projection of this result.
func (s *ProgressionService) UndoResult(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.UndoResult")
	defer span.End()

	row, unlock, err := s.lockMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	defer unlock()

	if !row.Finished() {
		return match.Match{}, fmt.Errorf("%w: match %d has no result to undo", ErrConflict, row.MatchNumber)
	}

	event, hasHistory, err := s.matchRepo.LatestScoreEvent(ctx, row.ID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get score history: %w", err)
	}
	if !hasHistory {
		// Structural byes are resolved at build time and carry no
		// history; they can only be undone by regenerating the draw.
		return match.Match{}, fmt.Errorf("%w: match %d has no recorded result to undo", ErrConflict, row.MatchNumber)
	}

	schedule, err := loadSchedule(ctx, s.drawRepo, row.TournamentID, row.CategoryID)
	if err != nil {
		return match.Match{}, err
	}

	if row.Stage == match.StageKnockout && row.ParentMatchID != nil {
		parent, exists, err := s.matchRepo.GetByID(ctx, *row.ParentMatchID)
		if err != nil {
			return match.Match{}, fmt.Errorf("get parent match: %w", err)
		}
		if !exists {
			return match.Match{}, fmt.Errorf("%w: parent of match %d is missing", ErrCorruptSchedule, row.MatchNumber)
		}
		if parent.Status == match.StatusInProgress || parent.Finished() {
			return match.Match{}, fmt.Errorf("%w: match %d already progressed, undo it first", ErrConflict, parent.MatchNumber)
		}

		applySlot(&parent, row.WinnerPosition, nil)
		parent.Status = openSlotStatus(parent)
		if err := s.matchRepo.Update(ctx, parent); err != nil {
			return match.Match{}, fmt.Errorf("update parent match: %w", err)
		}
		if err := setBracketSlot(schedule.Knockout, parent.MatchNumber, row.WinnerPosition, nil); err != nil {
			return match.Match{}, err
		}
	}

	row.Status = event.PrevStatus
	row.WinnerID = event.PrevWinnerID
	row.ScoreJSON = event.PrevScoreJSON
	if err := s.matchRepo.Update(ctx, row); err != nil {
		return match.Match{}, fmt.Errorf("update match %d: %w", row.MatchNumber, err)
	}
	if err := s.matchRepo.DeleteScoreEvent(ctx, row.ID, event.Sequence); err != nil {
		return match.Match{}, fmt.Errorf("delete score event: %w", err)
	}

	switch row.Stage {
	case match.StageGroup:
		if err := recomputeGroupStandings(ctx, s.matchRepo, &schedule, row.GroupName); err != nil {
			return match.Match{}, err
		}
	case match.StageKnockout:
		slot, ok := findBracketSlot(schedule.Knockout, row.MatchNumber)
		if !ok {
			return match.Match{}, fmt.Errorf("%w: match %d missing from bracket view", ErrCorruptSchedule, row.MatchNumber)
		}
		slot.WinnerID = ""
		slot.Score1 = nil
		slot.Score2 = nil
		if row.ScoreJSON != nil {
			var prev scorePayload
			if err := sonic.UnmarshalString(*row.ScoreJSON, &prev); err == nil {
				slot.Score1 = prev.Score1
				slot.Score2 = prev.Score2
			}
		}
		if row.Round == 1 {
			schedule.WinnerID = ""
			schedule.RunnerUpID = ""
		}
	}

	if err := s.drawRepo.Save(ctx, schedule); err != nil {
		return match.Match{}, fmt.Errorf("save schedule: %w", err)
	}
	return row, nil
}

// lockMatch resolves the match's category, takes the category lock and
// rereads the row under it.
func (s *ProgressionService) lockMatch(ctx context.Context, matchID string) (match.Match, func(), error) {
	row, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, nil, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	unlock := s.locks.Acquire(row.TournamentID, row.CategoryID)

	row, exists, err = s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		unlock()
		return match.Match{}, nil, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		unlock()
		return match.Match{}, nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return row, unlock, nil
}

// checkParentAcceptsWinner refuses a result whose downstream match has
// already been decided, before anything is written. A finished parent
// can happen legally: a bye on a half-filled parent while its other
// feeder was still open.
func (s *ProgressionService) checkParentAcceptsWinner(ctx context.Context, row match.Match) error {
	if row.Stage != match.StageKnockout || row.ParentMatchID == nil {
		return nil
	}

	parent, exists, err := s.matchRepo.GetByID(ctx, *row.ParentMatchID)
	if err != nil {
		return fmt.Errorf("get parent match: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: parent of match %d is missing", ErrCorruptSchedule, row.MatchNumber)
	}
	if parent.Finished() {
		return fmt.Errorf("%w: match %d already has a result, undo it before deciding match %d", ErrConflict, parent.MatchNumber, row.MatchNumber)
	}
	return nil
}

// appendHistory records the match's pre-result state so an undo can
// restore it exactly.
func (s *ProgressionService) appendHistory(ctx context.Context, row match.Match, scoreJSON *string) error {
	latest, hasHistory, err := s.matchRepo.LatestScoreEvent(ctx, row.ID)
	if err != nil {
		return fmt.Errorf("get score history: %w", err)
	}
	sequence := 1
	if hasHistory {
		sequence = latest.Sequence + 1
	}

	event := match.ScoreEvent{
		MatchID:       row.ID,
		Sequence:      sequence,
		PrevStatus:    row.Status,
		PrevWinnerID:  row.WinnerID,
		PrevScoreJSON: row.ScoreJSON,
		ScoreJSON:     scoreJSON,
		RecordedAt:    s.now().UTC(),
	}
	if err := s.matchRepo.AppendScoreEvent(ctx, event); err != nil {
		return fmt.Errorf("append score event: %w", err)
	}
	return nil
}

// completeKnockout reflects a finished knockout match in the schedule
// view and pushes the winner into the parent slot. The final also
// stamps the category's winner and runner-up.
func (s *ProgressionService) completeKnockout(ctx context.Context, schedule *draw.Schedule, row match.Match, score1, score2 *string) error {
	if schedule.Knockout == nil {
		return fmt.Errorf("%w: knockout match %d but schedule has no bracket", ErrCorruptSchedule, row.MatchNumber)
	}

	slot, ok := findBracketSlot(schedule.Knockout, row.MatchNumber)
	if !ok {
		return fmt.Errorf("%w: match %d missing from bracket view", ErrCorruptSchedule, row.MatchNumber)
	}
	winnerID := ""
	if row.WinnerID != nil {
		winnerID = *row.WinnerID
	}
	slot.WinnerID = winnerID
	slot.Score1 = score1
	slot.Score2 = score2

	winner := occupantOf(slot, winnerID)
	if winner == nil {
		return fmt.Errorf("%w: winner %s missing from bracket view of match %d", ErrCorruptSchedule, winnerID, row.MatchNumber)
	}

	if row.ParentMatchID != nil {
		parent, exists, err := s.matchRepo.GetByID(ctx, *row.ParentMatchID)
		if err != nil {
			return fmt.Errorf("get parent match: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: parent of match %d is missing", ErrCorruptSchedule, row.MatchNumber)
		}
		if parent.Finished() {
			return fmt.Errorf("%w: match %d already has a result, undo it before deciding match %d", ErrConflict, parent.MatchNumber, row.MatchNumber)
		}

		applySlot(&parent, row.WinnerPosition, winner)
		if !parent.SlotsLocked() {
			parent.Status = openSlotStatus(parent)
		}
		if err := s.matchRepo.Update(ctx, parent); err != nil {
			return fmt.Errorf("update parent match: %w", err)
		}
		if err := setBracketSlot(schedule.Knockout, parent.MatchNumber, row.WinnerPosition, winner); err != nil {
			return err
		}
	}

	if row.Round == 1 {
		schedule.WinnerID = winnerID
		schedule.RunnerUpID = loserOf(slot, winnerID)
	}
	return nil
}

func occupantOf(slot *draw.RoundSlot, playerID string) *draw.SlotEntry {
	if slot.Player1 != nil && slot.Player1.PlayerID == playerID {
		return copySlot(slot.Player1)
	}
	if slot.Player2 != nil && slot.Player2.PlayerID == playerID {
		return copySlot(slot.Player2)
	}
	return nil
}

func loserOf(slot *draw.RoundSlot, winnerID string) string {
	if slot.Player1 != nil && slot.Player1.PlayerID != winnerID {
		return slot.Player1.PlayerID
	}
	if slot.Player2 != nil && slot.Player2.PlayerID != winnerID {
		return slot.Player2.PlayerID
	}
	return ""
}

func setBracketSlot(bracket *draw.KnockoutBracket, matchNumber int, position string, entry *draw.SlotEntry) error {
	slot, ok := findBracketSlot(bracket, matchNumber)
	if !ok {
		return fmt.Errorf("%w: match %d missing from bracket view", ErrCorruptSchedule, matchNumber)
	}
	if position == match.PositionPlayer1 {
		slot.Player1 = copySlot(entry)
	} else {
		slot.Player2 = copySlot(entry)
	}
	return nil
}
