package session

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestInitialState(t *testing.T) {
	s := New()
	if s.Page != PageList {
		t.Errorf("initial page = %q, want list", s.Page)
	}
	if s.SelectedProblemID != uuid.Nil {
		t.Error("initial state must have no selection")
	}
}

func TestDetailRoundTrip(t *testing.T) {
	s := New()
	id := uuid.New()

	s.EnterDetail(id)
	if s.Page != PageDetail || s.SelectedProblemID != id {
		t.Fatalf("after EnterDetail: page=%q selected=%v", s.Page, s.SelectedProblemID)
	}

	s.BackToList()
	if s.Page != PageList || s.SelectedProblemID != uuid.Nil {
		t.Fatalf("after BackToList: page=%q selected=%v", s.Page, s.SelectedProblemID)
	}
}

func TestRevealFlagResetsOnReentry(t *testing.T) {
	s := New()
	id := uuid.New()

	s.EnterDetail(id)
	s.RecordAnswerCheck(id, true)
	if !s.ExplanationRevealed[id] {
		t.Fatal("correct check must set the reveal flag")
	}

	s.BackToList()
	s.EnterDetail(id)
	if _, present := s.ExplanationRevealed[id]; present {
		t.Error("reveal flag must reset on re-entering detail")
	}
}

func TestRecordAnswerCheckWrongAnswerClearsReveal(t *testing.T) {
	s := New()
	id := uuid.New()
	s.EnterDetail(id)

	s.RecordAnswerCheck(id, true)
	s.RecordAnswerCheck(id, false)
	if s.ExplanationRevealed[id] {
		t.Error("wrong check must set the reveal flag to false")
	}
}

func TestEnterCreateOnlyFromListOrDetail(t *testing.T) {
	s := New()
	if err := s.EnterCreate(); err != nil {
		t.Fatalf("from list: %v", err)
	}
	if s.Page != PageCreate {
		t.Fatalf("page = %q", s.Page)
	}

	if err := s.EnterCreate(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("from create: err = %v, want ErrInvalidTransition", err)
	}
	if s.Page != PageCreate {
		t.Error("failed transition must not move the page")
	}

	s.FinishCreate()
	if s.Page != PageList {
		t.Errorf("after FinishCreate: page = %q, want list", s.Page)
	}
}

func TestEditRequiresMatchingDetail(t *testing.T) {
	s := New()
	id := uuid.New()

	if err := s.EnterEdit(id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("edit from list: err = %v, want ErrInvalidTransition", err)
	}

	s.EnterDetail(id)
	if err := s.EnterEdit(uuid.New()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("edit of unselected problem: err = %v, want ErrInvalidTransition", err)
	}

	if err := s.EnterEdit(id); err != nil {
		t.Fatalf("EnterEdit: %v", err)
	}
	if s.Page != PageEdit || s.EditingProblemID != id {
		t.Fatalf("after EnterEdit: page=%q editing=%v", s.Page, s.EditingProblemID)
	}

	s.FinishEdit()
	if s.Page != PageDetail || s.EditingProblemID != uuid.Nil {
		t.Fatalf("after FinishEdit: page=%q editing=%v", s.Page, s.EditingProblemID)
	}
}

func TestDashboardAdminGate(t *testing.T) {
	s := New()
	s.EnterDashboard(false)
	if s.Page != PageList {
		t.Errorf("non-admin must be redirected to list, got %q", s.Page)
	}

	s.EnterDashboard(true)
	if s.Page != PageDashboard {
		t.Errorf("admin dashboard entry failed, got %q", s.Page)
	}
}

func TestTwoStepDelete(t *testing.T) {
	s := New()
	id := uuid.New()
	s.EnterDetail(id)

	if confirmed := s.ArmDelete(id); confirmed {
		t.Fatal("first press must only arm the confirmation")
	}
	if !s.DeleteConfirmPending[id] {
		t.Fatal("pending flag not set after first press")
	}

	if confirmed := s.ArmDelete(id); !confirmed {
		t.Fatal("second press must confirm")
	}

	s.FinishDelete(id)
	if s.Page != PageList || len(s.DeleteConfirmPending) != 0 {
		t.Fatalf("after FinishDelete: page=%q pending=%v", s.Page, s.DeleteConfirmPending)
	}
}

func TestCancelDelete(t *testing.T) {
	s := New()
	id := uuid.New()
	s.EnterDetail(id)

	s.ArmDelete(id)
	s.CancelDelete(id)
	if s.DeleteConfirmPending[id] {
		t.Error("cancel must clear the pending flag")
	}
	if s.Page != PageDetail {
		t.Error("cancel must not change the page")
	}

	// The next press starts the two-step sequence over.
	if confirmed := s.ArmDelete(id); confirmed {
		t.Error("press after cancel must re-arm, not confirm")
	}
}
