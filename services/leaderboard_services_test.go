package services

import (
	"testing"
	"time"

	"api/models"
)

// castVotes toggles a vote on the entry from each named voter.
func (env *testEnv) castVotes(t *testing.T, entryID string, voters ...string) {
	t.Helper()
	for _, voter := range voters {
		if _, err := env.votes.Toggle(entryID, voter); err != nil {
			t.Fatalf("Failed to cast vote from %s: %v", voter, err)
		}
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseActive)
	a := env.submitApprovedEntry(t, ch.ID, "participant-a")
	b := env.submitApprovedEntry(t, ch.ID, "participant-b")
	c := env.submitApprovedEntry(t, ch.ID, "participant-c")
	env.moveToVoting(t, ch)

	env.castVotes(t, b.ID, "v1", "v2", "v3")
	env.castVotes(t, c.ID, "v1")

	rows, err := env.leaderboard.Rank(ch.ID, 0)
	if err != nil {
		t.Fatalf("Failed to rank entries: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	wantOrder := []string{b.ID, c.ID, a.ID}
	wantVotes := []int64{3, 1, 0}
	for i, row := range rows {
		if row.Rank != i+1 {
			t.Errorf("Row %d: expected rank %d, got %d", i, i+1, row.Rank)
		}
		if row.Entry.ID != wantOrder[i] {
			t.Errorf("Row %d: expected entry %s, got %s", i, wantOrder[i], row.Entry.ID)
		}
		if row.VoteCount != wantVotes[i] {
			t.Errorf("Row %d: expected %d votes, got %d", i, wantVotes[i], row.VoteCount)
		}
	}
}

func TestLeaderboardTieBreakAndDenseRanks(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseActive)
	early := env.submitApprovedEntry(t, ch.ID, "participant-a")
	late := env.submitApprovedEntry(t, ch.ID, "participant-b")

	// Force distinct submission times; a single test run is too fast to
	// rely on the row timestamps.
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	env.db.Model(&models.Entry{}).Where("id = ?", early.ID).Update("created_at", base)
	env.db.Model(&models.Entry{}).Where("id = ?", late.ID).Update("created_at", base.Add(time.Minute))

	env.moveToVoting(t, ch)
	env.castVotes(t, early.ID, "v1", "v2")
	env.castVotes(t, late.ID, "v1", "v2")

	rows, err := env.leaderboard.Rank(ch.ID, 0)
	if err != nil {
		t.Fatalf("Failed to rank entries: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	// Equal counts: the earlier submission wins the higher rank, and the
	// ranks stay contiguous rather than sharing a place.
	if rows[0].Entry.ID != early.ID || rows[1].Entry.ID != late.ID {
		t.Errorf("Expected [early, late] on a tie, got [%s, %s]", rows[0].Entry.ID, rows[1].Entry.ID)
	}
	if rows[0].Rank != 1 || rows[1].Rank != 2 {
		t.Errorf("Expected ranks [1, 2], got [%d, %d]", rows[0].Rank, rows[1].Rank)
	}
}

func TestLeaderboardExcludesUnapproved(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseActive)
	approved := env.submitApprovedEntry(t, ch.ID, "participant-a")
	if _, err := env.entries.Submit(ch.ID, "participant-b", SubmitEntryInput{ImageRef: "images/b.jpg"}); err != nil {
		t.Fatalf("Failed to submit entry: %v", err)
	}
	env.moveToVoting(t, ch)

	rows, err := env.leaderboard.Rank(ch.ID, 0)
	if err != nil {
		t.Fatalf("Failed to rank entries: %v", err)
	}
	if len(rows) != 1 || rows[0].Entry.ID != approved.ID {
		t.Errorf("Expected only the approved entry, got %+v", rows)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseActive)
	for _, p := range []string{"a", "b", "c", "d", "e"} {
		env.submitApprovedEntry(t, ch.ID, "participant-"+p)
	}

	rows, err := env.leaderboard.Rank(ch.ID, 2)
	if err != nil {
		t.Fatalf("Failed to rank entries: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows with limit 2, got %d", len(rows))
	}
}

func TestLeaderboardReflectsToggleOff(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseActive)
	a := env.submitApprovedEntry(t, ch.ID, "participant-a")
	b := env.submitApprovedEntry(t, ch.ID, "participant-b")
	env.moveToVoting(t, ch)

	env.castVotes(t, a.ID, "v1")
	env.castVotes(t, b.ID, "v1", "v2")

	rows, err := env.leaderboard.Rank(ch.ID, 0)
	if err != nil {
		t.Fatalf("Failed to rank entries: %v", err)
	}
	if rows[0].Entry.ID != b.ID {
		t.Fatalf("Expected b to lead, got %s", rows[0].Entry.ID)
	}

	// Retracting both of b's votes reorders the board.
	env.castVotes(t, b.ID, "v1", "v2")

	rows, err = env.leaderboard.Rank(ch.ID, 0)
	if err != nil {
		t.Fatalf("Failed to rank entries: %v", err)
	}
	if rows[0].Entry.ID != a.ID || rows[0].VoteCount != 1 {
		t.Errorf("Expected a to lead with 1 vote, got %s with %d", rows[0].Entry.ID, rows[0].VoteCount)
	}
	if rows[1].VoteCount != 0 {
		t.Errorf("Expected b back at 0 votes, got %d", rows[1].VoteCount)
	}
}
