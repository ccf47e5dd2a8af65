package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"api/metrics"
	"api/models"

	"gorm.io/gorm"
)

// TransitionEngine advances challenge phases to match the clock. Every
// hop is a guarded UPDATE conditioned on the source phase, so any number
// of concurrent runs apply each transition exactly once: a runner whose
// UPDATE matches zero rows lost the race and simply re-reads.
//
// The engine runs on a schedule and is also invoked lazily by the entry
// and vote services before their phase checks, so a challenge is never
// observed in a phase its own boundaries have superseded.
type TransitionEngine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTransitionEngine(db *gorm.DB) *TransitionEngine {
	return &TransitionEngine{db: db, now: time.Now}
}

// transitionDue reports whether the clock has reached the boundary that
// admits target.
func transitionDue(ch *models.Challenge, target models.ChallengePhase, now time.Time) bool {
	switch target {
	case models.PhaseActive:
		return !now.Before(ch.StartDate)
	case models.PhaseVoting:
		return !now.Before(ch.EndDate)
	case models.PhaseCompleted:
		return !now.Before(ch.VotingEnd)
	}
	return false
}

// Advance walks a single challenge forward until its phase matches the
// clock, applying as many hops as the elapsed time requires. The caller's
// copy is updated in place. Returns the number of transitions this runner
// applied; zero is the normal idle outcome, never an error.
func (e *TransitionEngine) Advance(ch *models.Challenge) (int, error) {
	applied := 0
	now := e.now()
	for {
		next, ok := ch.Phase.Next()
		if !ok || !transitionDue(ch, next, now) {
			return applied, nil
		}

		res := e.db.Model(&models.Challenge{}).
			Where("id = ? AND phase = ?", ch.ID, ch.Phase).
			Update("phase", next)
		if res.Error != nil {
			return applied, fmt.Errorf("failed to advance challenge %s: %w", ch.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent runner moved it first, or the challenge was
			// deleted. Re-read and continue from whatever phase it is in.
			if err := e.db.First(ch, "id = ?", ch.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return applied, nil
				}
				return applied, fmt.Errorf("failed to reload challenge %s: %w", ch.ID, err)
			}
			continue
		}

		ch.Phase = next
		applied++
		metrics.PhaseTransitions.WithLabelValues(string(next)).Inc()
	}
}

// AdvanceAll advances every challenge that has not yet completed.
func (e *TransitionEngine) AdvanceAll() (int, error) {
	var challenges []models.Challenge
	if err := e.db.Where("phase <> ?", models.PhaseCompleted).Find(&challenges).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch challenges for transition: %w", err)
	}

	total := 0
	for i := range challenges {
		n, err := e.Advance(&challenges[i])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Run invokes AdvanceAll on every tick until ctx is cancelled.
func (e *TransitionEngine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := e.AdvanceAll()
			if err != nil {
				log.Printf("Phase transition run failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Advanced %d challenge phase(s)", n)
			}
		}
	}
}

// SetPhase applies a single named transition. Only the immediate successor
// of the current phase is legal; skips and reversals fail with
// ErrIllegalTransition, as does losing the write to a concurrent runner.
func (e *TransitionEngine) SetPhase(id string, target models.ChallengePhase) error {
	var ch models.Challenge
	if err := e.db.First(&ch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to fetch challenge: %w", err)
	}

	next, ok := ch.Phase.Next()
	if !ok || next != target {
		return ErrIllegalTransition
	}

	res := e.db.Model(&models.Challenge{}).
		Where("id = ? AND phase = ?", ch.ID, ch.Phase).
		Update("phase", target)
	if res.Error != nil {
		return fmt.Errorf("failed to set phase: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrIllegalTransition
	}
	metrics.PhaseTransitions.WithLabelValues(string(target)).Inc()
	return nil
}
