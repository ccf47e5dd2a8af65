package services

import (
	"context"
	"errors"
	"fmt"

	"api/cache"
	"api/models"

	"gorm.io/gorm"
)

// WinnerService stamps up to three entries of a completed challenge as its
// winners. Selection is an idempotent overwrite: re-running with different
// entries clears every prior annotation for the challenge first, so there
// is no winner-diffing to get wrong.
type WinnerService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewWinnerService(db *gorm.DB, c *cache.Cache) *WinnerService {
	return &WinnerService{db: db, cache: c}
}

// WinnerSelection names the entries taking each place. First is required;
// an empty Second or Third leaves that place unawarded.
type WinnerSelection struct {
	First  string
	Second string
	Third  string
}

// places returns the selected entry ids keyed by place, skipping empty
// ones. Callers validate distinctness before this runs.
func (sel WinnerSelection) places() map[int]string {
	out := map[int]string{1: sel.First}
	if sel.Second != "" {
		out[2] = sel.Second
	}
	if sel.Third != "" {
		out[3] = sel.Third
	}
	return out
}

// SelectWinners annotates the selected entries. Valid only once the
// challenge has completed; every selected entry must belong to it.
func (s *WinnerService) SelectWinners(challengeID string, sel WinnerSelection) error {
	var ch models.Challenge
	if err := s.db.First(&ch, "id = ?", challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to fetch challenge: %w", err)
	}
	if ch.Phase != models.PhaseCompleted {
		return ErrChallengeNotCompleted
	}

	places := sel.places()
	ids := make([]string, 0, len(places))
	for _, id := range places {
		ids = append(ids, id)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Entry{}).
			Where("id IN ? AND challenge_id = ?", ids, challengeID).
			Count(&n).Error; err != nil {
			return fmt.Errorf("failed to verify winner entries: %w", err)
		}
		if n != int64(len(ids)) {
			return ErrEntryNotInChallenge
		}

		clear := map[string]interface{}{
			"is_winner":    false,
			"winner_place": nil,
			"is_featured":  false,
		}
		if err := tx.Model(&models.Entry{}).
			Where("challenge_id = ?", challengeID).
			Updates(clear).Error; err != nil {
			return fmt.Errorf("failed to clear winner annotations: %w", err)
		}

		for place, id := range places {
			stamp := map[string]interface{}{
				"is_winner":    true,
				"winner_place": place,
			}
			if place == 1 {
				stamp["is_featured"] = true
			}
			if err := tx.Model(&models.Entry{}).
				Where("id = ?", id).
				Updates(stamp).Error; err != nil {
				return fmt.Errorf("failed to stamp winner %d: %w", place, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Delete(context.Background(), leaderboardCacheKey(challengeID))
	return nil
}

// Winners returns a completed challenge's annotated entries ordered by
// place.
func (s *WinnerService) Winners(challengeID string) ([]models.Entry, error) {
	var entries []models.Entry
	err := s.db.Where("challenge_id = ? AND is_winner = ?", challengeID, true).
		Order("winner_place ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch winners: %w", err)
	}
	return entries, nil
}
