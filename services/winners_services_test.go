package services

import (
	"errors"
	"testing"

	"api/models"
)

// completedWithEntries builds a completed challenge with three approved
// entries, returning the challenge and the entries.
func completedWithEntries(t *testing.T, env *testEnv) (*models.Challenge, []*models.Entry) {
	t.Helper()

	ch := env.createChallenge(t, models.PhaseActive)
	entries := []*models.Entry{
		env.submitApprovedEntry(t, ch.ID, "participant-a"),
		env.submitApprovedEntry(t, ch.ID, "participant-b"),
		env.submitApprovedEntry(t, ch.ID, "participant-c"),
	}

	env.clock.mu.Lock()
	env.clock.t = ch.VotingEnd
	env.clock.mu.Unlock()
	if _, err := env.engine.Advance(ch); err != nil {
		t.Fatalf("Failed to advance challenge: %v", err)
	}
	if ch.Phase != models.PhaseCompleted {
		t.Fatalf("Expected completed challenge, got %s", ch.Phase)
	}
	return ch, entries
}

func TestSelectWinnersRequiresCompletedChallenge(t *testing.T) {
	env := newTestEnv(t)

	for _, phase := range []models.ChallengePhase{models.PhaseUpcoming, models.PhaseActive, models.PhaseVoting} {
		ch := env.createChallenge(t, phase)
		err := env.winners.SelectWinners(ch.ID, WinnerSelection{First: "anything"})
		if !errors.Is(err, ErrChallengeNotCompleted) {
			t.Errorf("Phase %s: expected ErrChallengeNotCompleted, got %v", phase, err)
		}
	}

	err := env.winners.SelectWinners("no-such-id", WinnerSelection{First: "anything"})
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("Expected ErrChallengeNotFound, got %v", err)
	}
}

func TestSelectWinnersRejectsForeignEntries(t *testing.T) {
	env := newTestEnv(t)
	ch, entries := completedWithEntries(t, env)

	other := env.createChallenge(t, models.PhaseActive)
	foreign := env.submitApprovedEntry(t, other.ID, "participant-z")

	err := env.winners.SelectWinners(ch.ID, WinnerSelection{First: entries[0].ID, Second: foreign.ID})
	if !errors.Is(err, ErrEntryNotInChallenge) {
		t.Fatalf("Expected ErrEntryNotInChallenge, got %v", err)
	}

	// The failed selection must not have left partial annotations behind.
	var stamped int64
	env.db.Model(&models.Entry{}).Where("is_winner = ?", true).Count(&stamped)
	if stamped != 0 {
		t.Errorf("Expected no winner annotations after a rejected selection, got %d", stamped)
	}

	err = env.winners.SelectWinners(ch.ID, WinnerSelection{First: "no-such-entry"})
	if !errors.Is(err, ErrEntryNotInChallenge) {
		t.Errorf("Expected ErrEntryNotInChallenge for unknown entry, got %v", err)
	}
}

func TestSelectWinnersStampsPlaces(t *testing.T) {
	env := newTestEnv(t)
	ch, entries := completedWithEntries(t, env)

	sel := WinnerSelection{First: entries[0].ID, Second: entries[1].ID, Third: entries[2].ID}
	if err := env.winners.SelectWinners(ch.ID, sel); err != nil {
		t.Fatalf("Winner selection failed: %v", err)
	}

	winners, err := env.winners.Winners(ch.ID)
	if err != nil {
		t.Fatalf("Failed to fetch winners: %v", err)
	}
	if len(winners) != 3 {
		t.Fatalf("Expected 3 winners, got %d", len(winners))
	}
	for i, w := range winners {
		if w.ID != entries[i].ID {
			t.Errorf("Place %d: expected entry %s, got %s", i+1, entries[i].ID, w.ID)
		}
		if !w.IsWinner || w.WinnerPlace == nil || *w.WinnerPlace != i+1 {
			t.Errorf("Place %d not stamped: %+v", i+1, w)
		}
		if (i == 0) != w.IsFeatured {
			t.Errorf("Featured flag wrong for place %d: %v", i+1, w.IsFeatured)
		}
	}
}

func TestSelectWinnersPartialPodium(t *testing.T) {
	env := newTestEnv(t)
	ch, entries := completedWithEntries(t, env)

	if err := env.winners.SelectWinners(ch.ID, WinnerSelection{First: entries[1].ID}); err != nil {
		t.Fatalf("Winner selection failed: %v", err)
	}

	winners, err := env.winners.Winners(ch.ID)
	if err != nil {
		t.Fatalf("Failed to fetch winners: %v", err)
	}
	if len(winners) != 1 {
		t.Fatalf("Expected a single winner, got %d", len(winners))
	}
	if winners[0].ID != entries[1].ID || !winners[0].IsFeatured {
		t.Errorf("First place not stamped: %+v", winners[0])
	}
}

func TestSelectWinnersOverwritesPriorSelection(t *testing.T) {
	env := newTestEnv(t)
	ch, entries := completedWithEntries(t, env)

	first := WinnerSelection{First: entries[0].ID, Second: entries[1].ID}
	if err := env.winners.SelectWinners(ch.ID, first); err != nil {
		t.Fatalf("Winner selection failed: %v", err)
	}

	// A re-run replaces, never merges: the old second place loses its
	// annotations entirely.
	second := WinnerSelection{First: entries[2].ID}
	if err := env.winners.SelectWinners(ch.ID, second); err != nil {
		t.Fatalf("Repeat winner selection failed: %v", err)
	}

	winners, err := env.winners.Winners(ch.ID)
	if err != nil {
		t.Fatalf("Failed to fetch winners: %v", err)
	}
	if len(winners) != 1 || winners[0].ID != entries[2].ID {
		t.Fatalf("Expected only the new winner, got %+v", winners)
	}

	demoted, err := env.entries.Get(entries[0].ID)
	if err != nil {
		t.Fatalf("Failed to fetch entry: %v", err)
	}
	if demoted.IsWinner || demoted.WinnerPlace != nil || demoted.IsFeatured {
		t.Errorf("Prior winner still annotated: %+v", demoted)
	}

	// Replaying the same selection is a no-op, not an error.
	if err := env.winners.SelectWinners(ch.ID, second); err != nil {
		t.Errorf("Idempotent replay failed: %v", err)
	}
}
