// Package session models the per-session page state machine driving which
// view the board renders next. One State exists per browser session; no
// two transitions run concurrently for the same session.
package session

import (
	"errors"

	"github.com/google/uuid"
)

// Page enumerates the board's screens.
type Page string

const (
	PageList      Page = "list"
	PageDetail    Page = "detail"
	PageCreate    Page = "create"
	PageEdit      Page = "edit"
	PageDashboard Page = "dashboard"
)

// ErrInvalidTransition is returned when a requested page change is not a
// legal move from the current page. The state is left untouched.
var ErrInvalidTransition = errors.New("invalid page transition")

// State is the per-session view state. The two flag maps are transient:
// they never outlive the session and reset when a problem's detail view is
// re-entered.
type State struct {
	Page              Page      `json:"page"`
	SelectedProblemID uuid.UUID `json:"selected_problem_id,omitempty"`
	EditingProblemID  uuid.UUID `json:"editing_problem_id,omitempty"`
	// ExplanationRevealed records the outcome of the last answer check
	// per problem: true after a correct submission, false after a wrong
	// one, absent before any check.
	ExplanationRevealed map[uuid.UUID]bool `json:"explanation_revealed,omitempty"`
	// DeleteConfirmPending marks problems whose delete button has been
	// pressed once and awaits a confirming second press.
	DeleteConfirmPending map[uuid.UUID]bool `json:"delete_confirm_pending,omitempty"`
}

// New returns the initial state: the list page with no selection.
func New() *State {
	return &State{Page: PageList}
}

// EnterDetail selects a problem and shows its detail page. Re-entering a
// problem's detail view clears its transient flags.
func (s *State) EnterDetail(problemID uuid.UUID) {
	s.Page = PageDetail
	s.SelectedProblemID = problemID
	s.EditingProblemID = uuid.Nil
	delete(s.ExplanationRevealed, problemID)
	delete(s.DeleteConfirmPending, problemID)
}

// BackToList returns to the list page, dropping the selection and the
// selected problem's transient flags.
func (s *State) BackToList() {
	if s.SelectedProblemID != uuid.Nil {
		delete(s.ExplanationRevealed, s.SelectedProblemID)
		delete(s.DeleteConfirmPending, s.SelectedProblemID)
	}
	s.Page = PageList
	s.SelectedProblemID = uuid.Nil
	s.EditingProblemID = uuid.Nil
}

// EnterCreate opens the creation form. Only reachable from the list and
// detail pages.
func (s *State) EnterCreate() error {
	if s.Page != PageList && s.Page != PageDetail {
		return ErrInvalidTransition
	}
	s.Page = PageCreate
	return nil
}

// FinishCreate leaves the creation form after a successful submission.
// Failed validation keeps the state at Create; callers simply do not
// invoke this.
func (s *State) FinishCreate() {
	s.Page = PageList
	s.SelectedProblemID = uuid.Nil
}

// EnterEdit opens the edit form for the problem shown on the detail page.
// Authorization (owner or admin) is the caller's responsibility and must
// be checked before transitioning.
func (s *State) EnterEdit(problemID uuid.UUID) error {
	if s.Page != PageDetail || s.SelectedProblemID != problemID {
		return ErrInvalidTransition
	}
	s.Page = PageEdit
	s.EditingProblemID = problemID
	return nil
}

// FinishEdit returns to the detail page after a successful update.
func (s *State) FinishEdit() {
	if s.Page == PageEdit {
		s.Page = PageDetail
		s.EditingProblemID = uuid.Nil
	}
}

// EnterDashboard shows the dashboard for admins. Everyone else is
// silently redirected to the list page.
func (s *State) EnterDashboard(isAdmin bool) {
	if !isAdmin {
		s.BackToList()
		return
	}
	s.Page = PageDashboard
	s.SelectedProblemID = uuid.Nil
	s.EditingProblemID = uuid.Nil
}

// RecordAnswerCheck stores the outcome of an answer check. The page does
// not change; the explanation-reveal flag is set to the outcome, true or
// false, regardless of whether the solve record was saved.
func (s *State) RecordAnswerCheck(problemID uuid.UUID, correct bool) {
	if s.ExplanationRevealed == nil {
		s.ExplanationRevealed = make(map[uuid.UUID]bool)
	}
	s.ExplanationRevealed[problemID] = correct
}

// ArmDelete handles the first press of the delete button and reports
// whether the delete is now confirmed: the first call arms the pending
// flag and returns false, the second returns true.
func (s *State) ArmDelete(problemID uuid.UUID) bool {
	if s.DeleteConfirmPending[problemID] {
		return true
	}
	if s.DeleteConfirmPending == nil {
		s.DeleteConfirmPending = make(map[uuid.UUID]bool)
	}
	s.DeleteConfirmPending[problemID] = true
	return false
}

// CancelDelete clears a pending delete confirmation without transition.
func (s *State) CancelDelete(problemID uuid.UUID) {
	delete(s.DeleteConfirmPending, problemID)
}

// FinishDelete leaves the detail page after a performed delete.
func (s *State) FinishDelete(problemID uuid.UUID) {
	delete(s.DeleteConfirmPending, problemID)
	delete(s.ExplanationRevealed, problemID)
	s.Page = PageList
	s.SelectedProblemID = uuid.Nil
	s.EditingProblemID = uuid.Nil
}
