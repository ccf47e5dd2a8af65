package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"api/models"
)

func TestAdvanceFollowsTheClock(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseUpcoming)

	// One second before the start nothing happens.
	env.clock.Advance(time.Hour - time.Second)
	if n, _ := env.engine.Advance(ch); n != 0 {
		t.Fatalf("Expected no transition before start, applied %d", n)
	}
	if ch.Phase != models.PhaseUpcoming {
		t.Fatalf("Expected upcoming, got %s", ch.Phase)
	}

	// At the boundary the phase flips.
	env.clock.Advance(time.Second)
	if _, err := env.engine.Advance(ch); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if ch.Phase != models.PhaseActive {
		t.Fatalf("Expected active at start date, got %s", ch.Phase)
	}

	env.clock.Advance(time.Hour)
	env.engine.Advance(ch)
	if ch.Phase != models.PhaseVoting {
		t.Fatalf("Expected voting at end date, got %s", ch.Phase)
	}

	env.clock.Advance(time.Hour)
	env.engine.Advance(ch)
	if ch.Phase != models.PhaseCompleted {
		t.Fatalf("Expected completed at voting end, got %s", ch.Phase)
	}
}

func TestAdvanceCatchesUpAcrossMultiplePhases(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseUpcoming)

	// A run started long after every boundary has passed must not stall
	// after a single hop.
	env.clock.Advance(24 * time.Hour)
	n, err := env.engine.Advance(ch)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 transitions in one run, got %d", n)
	}
	if ch.Phase != models.PhaseCompleted {
		t.Errorf("Expected completed, got %s", ch.Phase)
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseUpcoming)
	env.clock.Advance(24 * time.Hour)

	if _, err := env.engine.Advance(ch); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	n, err := env.engine.Advance(ch)
	if err != nil {
		t.Fatalf("Second advance failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected idle second run, applied %d transitions", n)
	}
}

func TestAdvanceNeverMovesBackward(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseVoting)

	// Even if the clock were somehow behind the stored phase, the engine
	// only knows forward rules.
	env.clock.Advance(-6 * time.Hour)
	if n, _ := env.engine.Advance(ch); n != 0 {
		t.Fatalf("Engine applied %d transitions with a rewound clock", n)
	}
	if ch.Phase != models.PhaseVoting {
		t.Errorf("Expected phase to stay voting, got %s", ch.Phase)
	}
}

func TestConcurrentAdvanceAppliesEachHopOnce(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseUpcoming)
	env.clock.Advance(24 * time.Hour)

	const runners = 8
	applied := make([]int, runners)
	var wg sync.WaitGroup
	for i := 0; i < runners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each runner works from its own snapshot, like separate
			// processes racing on the same row.
			local := *ch
			n, err := env.engine.Advance(&local)
			if err != nil {
				t.Errorf("Runner %d failed: %v", i, err)
			}
			applied[i] = n
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range applied {
		total += n
	}
	if total != 3 {
		t.Errorf("Expected exactly 3 transitions across all runners, got %d", total)
	}

	reloaded, err := env.challenges.Get(ch.ID)
	if err != nil {
		t.Fatalf("Failed to reload challenge: %v", err)
	}
	if reloaded.Phase != models.PhaseCompleted {
		t.Errorf("Expected completed, got %s", reloaded.Phase)
	}
}

func TestSetPhaseRejectsIllegalTransitions(t *testing.T) {
	env := newTestEnv(t)
	ch := env.createChallenge(t, models.PhaseActive)

	if err := env.engine.SetPhase(ch.ID, models.PhaseCompleted); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Expected ErrIllegalTransition for a skip, got %v", err)
	}
	if err := env.engine.SetPhase(ch.ID, models.PhaseUpcoming); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Expected ErrIllegalTransition for a reversal, got %v", err)
	}
	if err := env.engine.SetPhase(ch.ID, models.PhaseVoting); err != nil {
		t.Errorf("Expected legal successor transition to pass, got %v", err)
	}

	done := env.createChallenge(t, models.PhaseCompleted)
	if err := env.engine.SetPhase(done.ID, models.PhaseCompleted); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Expected ErrIllegalTransition past completed, got %v", err)
	}
}

func TestPhaseAtMatchesBoundaries(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ch := &models.Challenge{
		StartDate: start,
		EndDate:   start.Add(7 * 24 * time.Hour),
		VotingEnd: start.Add(10 * 24 * time.Hour),
	}

	cases := []struct {
		at   time.Time
		want models.ChallengePhase
	}{
		{start.Add(-time.Second), models.PhaseUpcoming},
		{start, models.PhaseActive},
		{start.Add(7 * 24 * time.Hour), models.PhaseVoting},
		{start.Add(10 * 24 * time.Hour), models.PhaseCompleted},
	}
	for _, tc := range cases {
		if got := ch.PhaseAt(tc.at); got != tc.want {
			t.Errorf("PhaseAt(%v) = %s, want %s", tc.at, got, tc.want)
		}
	}
}
