package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"api/cache"
	"api/database"
	"api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeClock is the settable time source injected into every service under
// test, so phase boundaries can be crossed without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// sqlite allows a single writer; one pooled connection keeps the
	// concurrency tests free of SQLITE_BUSY noise while the goroutine
	// interleaving stays real.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// testEnv bundles the services wired against one test database and one
// fake clock.
type testEnv struct {
	db          *gorm.DB
	clock       *fakeClock
	challenges  *ChallengeService
	entries     *EntryService
	votes       *VoteService
	leaderboard *LeaderboardService
	winners     *WinnerService
	engine      *TransitionEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	disabled := cache.New("")

	engine := NewTransitionEngine(db)
	engine.now = clock.Now

	challenges := NewChallengeService(db, 14*24*time.Hour)
	challenges.now = clock.Now

	return &testEnv{
		db:          db,
		clock:       clock,
		challenges:  challenges,
		entries:     NewEntryService(db, engine, disabled),
		votes:       NewVoteService(db, engine, disabled),
		leaderboard: NewLeaderboardService(db, disabled),
		winners:     NewWinnerService(db, disabled),
		engine:      engine,
	}
}

// createChallenge makes a challenge whose window places it in the given
// phase relative to the fake clock, advancing it through the engine where
// the phase is past creation's reach.
func (env *testEnv) createChallenge(t *testing.T, phase models.ChallengePhase) *models.Challenge {
	t.Helper()

	now := env.clock.Now()
	var in CreateChallengeInput
	in.Theme = "Golden Hour"
	switch phase {
	case models.PhaseUpcoming:
		in.StartDate, in.EndDate, in.VotingEnd = now.Add(time.Hour), now.Add(2*time.Hour), now.Add(3*time.Hour)
	case models.PhaseActive:
		in.StartDate, in.EndDate, in.VotingEnd = now.Add(-time.Hour), now.Add(time.Hour), now.Add(2*time.Hour)
	case models.PhaseVoting:
		in.StartDate, in.EndDate, in.VotingEnd = now.Add(-3*time.Hour), now.Add(-time.Hour), now.Add(time.Hour)
	case models.PhaseCompleted:
		in.StartDate, in.EndDate, in.VotingEnd = now.Add(-3*time.Hour), now.Add(-2*time.Hour), now.Add(-time.Hour)
	}

	ch, err := env.challenges.Create(in)
	if err != nil {
		t.Fatalf("Failed to create challenge: %v", err)
	}
	if _, err := env.engine.Advance(ch); err != nil {
		t.Fatalf("Failed to advance challenge: %v", err)
	}
	if ch.Phase != phase {
		t.Fatalf("Expected challenge in phase %s, got %s", phase, ch.Phase)
	}
	return ch
}

// submitApprovedEntry submits and approves an entry for a participant.
// The challenge must be active.
func (env *testEnv) submitApprovedEntry(t *testing.T, challengeID, participantID string) *models.Entry {
	t.Helper()

	entry, err := env.entries.Submit(challengeID, participantID, SubmitEntryInput{
		ImageRef: "images/" + participantID + ".jpg",
	})
	if err != nil {
		t.Fatalf("Failed to submit entry: %v", err)
	}
	if err := env.entries.Approve(entry.ID); err != nil {
		t.Fatalf("Failed to approve entry: %v", err)
	}
	entry.IsApproved = true
	return entry
}

// moveToVoting pushes an active challenge into its voting phase by
// advancing the clock past the submission deadline.
func (env *testEnv) moveToVoting(t *testing.T, ch *models.Challenge) {
	t.Helper()

	env.clock.mu.Lock()
	if env.clock.t.Before(ch.EndDate) {
		env.clock.t = ch.EndDate
	}
	env.clock.mu.Unlock()

	if _, err := env.engine.Advance(ch); err != nil {
		t.Fatalf("Failed to advance challenge: %v", err)
	}
	if ch.Phase != models.PhaseVoting {
		t.Fatalf("Expected voting phase, got %s", ch.Phase)
	}
}
