package leveling

// MismatchState is whether a habit is currently flagged as too hard.
type MismatchState string

const (
	StateCompatible MismatchState = "compatible"
	StateMismatched MismatchState = "mismatched"
)

// Action is what the scan job must do for a habit.
type Action string

const (
	ActionCreateNotification Action = "create_notification"
	ActionResolveMismatch    Action = "resolve_mismatch"
	ActionNone               Action = "no_action"
)

// MismatchStateTransition records the decision for one habit snapshot.
// The caller performs Action and persists AcknowledgementUpdate.
type MismatchStateTransition struct {
	HabitID        string              `json:"habit_id"`
	PreviousState  MismatchState       `json:"previous_state"`
	NewState       MismatchState       `json:"new_state"`
	Action         Action              `json:"action"`
	MismatchResult LevelMismatchResult `json:"mismatch_result"`
}

// DetermineStateTransition decides the scan action from the habit's stored
// acknowledgment state and a fresh mismatch result.
func DetermineStateTransition(h HabitLevelProfile, m LevelMismatchResult) MismatchStateTransition {
	wasAcknowledged := h.MismatchAcknowledged != nil && *h.MismatchAcknowledged
	previousGap := 0
	if h.OriginalLevelGap != nil {
		previousGap = *h.OriginalLevelGap
	}

	previous := StateCompatible
	if wasAcknowledged && previousGap > 0 {
		previous = StateMismatched
	}
	next := StateCompatible
	if m.IsMismatch {
		next = StateMismatched
	}

	action := ActionNone
	switch {
	case m.IsMismatch && !wasAcknowledged:
		action = ActionCreateNotification
	case !m.IsMismatch && wasAcknowledged && previousGap > 0:
		action = ActionResolveMismatch
	}

	return MismatchStateTransition{
		HabitID:        h.HabitID,
		PreviousState:  previous,
		NewState:       next,
		Action:         action,
		MismatchResult: m,
	}
}

// AcknowledgementUpdate is the acknowledgment state to store after an action.
// A nil OriginalLevelGap means the column is cleared.
type AcknowledgementUpdate struct {
	MismatchAcknowledged bool
	OriginalLevelGap     *int
}

// AcknowledgementUpdate returns the state to persist once Action has been
// carried out, or nil when nothing changes.
func (t MismatchStateTransition) AcknowledgementUpdate() *AcknowledgementUpdate {
	switch t.Action {
	case ActionCreateNotification:
		gap := t.MismatchResult.LevelGap
		return &AcknowledgementUpdate{MismatchAcknowledged: true, OriginalLevelGap: &gap}
	case ActionResolveMismatch:
		return &AcknowledgementUpdate{MismatchAcknowledged: false}
	default:
		return nil
	}
}
