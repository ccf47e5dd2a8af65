package services

import (
	"errors"
	"fmt"
	"time"

	"api/models"

	"gorm.io/gorm"
)

// ChallengeService owns the challenge records themselves. The phase column
// is deliberately out of its reach: creation sets the initial phase, and
// from then on only the transition engine writes it.
type ChallengeService struct {
	db         *gorm.DB
	now        func() time.Time
	leadWindow time.Duration
}

func NewChallengeService(db *gorm.DB, leadWindow time.Duration) *ChallengeService {
	return &ChallengeService{db: db, now: time.Now, leadWindow: leadWindow}
}

// CreateChallengeInput carries the fields of an administrative create.
type CreateChallengeInput struct {
	Theme       string
	Description string
	Rules       string
	StartDate   time.Time
	EndDate     time.Time
	VotingEnd   time.Time
	Featured    bool
}

// Create validates the time window and stores a new challenge. A back-dated
// start (contest created mid-run) begins in the active phase; the engine
// walks it further forward on its next pass if even the voting window has
// already elapsed.
func (s *ChallengeService) Create(in CreateChallengeInput) (*models.Challenge, error) {
	if !in.StartDate.Before(in.EndDate) || !in.EndDate.Before(in.VotingEnd) {
		return nil, ErrInvalidWindow
	}

	ch := &models.Challenge{
		Theme:       in.Theme,
		Description: in.Description,
		Rules:       in.Rules,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		VotingEnd:   in.VotingEnd,
		Featured:    in.Featured,
		Phase:       models.PhaseUpcoming,
	}
	if !s.now().Before(in.StartDate) {
		ch.Phase = models.PhaseActive
	}

	if err := s.db.Create(ch).Error; err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return ch, nil
}

// Get fetches a single challenge by id.
func (s *ChallengeService) Get(id string) (*models.Challenge, error) {
	var ch models.Challenge
	if err := s.db.First(&ch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}
	return &ch, nil
}

// ListActive returns challenges a member can see on the contests page:
// active and voting ones, plus upcoming ones whose start falls inside the
// lead window, ordered by start date.
func (s *ChallengeService) ListActive() ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.db.
		Where("(phase = ? AND start_date <= ?) OR phase IN ?",
			models.PhaseUpcoming,
			s.now().Add(s.leadWindow),
			[]models.ChallengePhase{models.PhaseActive, models.PhaseVoting}).
		Order("start_date ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active challenges: %w", err)
	}
	return challenges, nil
}

// ListAll returns every challenge, newest first. Administrative view.
func (s *ChallengeService) ListAll() ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := s.db.Order("start_date DESC").Find(&challenges).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch challenges: %w", err)
	}
	return challenges, nil
}

// UpdateChallengeInput carries an administrative metadata edit. Nil fields
// are left untouched. Phase is not editable here under any circumstances.
type UpdateChallengeInput struct {
	Theme       *string
	Description *string
	Rules       *string
	Featured    *bool
	StartDate   *time.Time
	EndDate     *time.Time
	VotingEnd   *time.Time
}

// Update applies a metadata edit. A time boundary may only be moved while
// its stored value is still in the future; rewriting a boundary the clock
// has already passed would make the stored phase inconsistent with the
// window, which the engine cannot repair since it never moves backward.
func (s *ChallengeService) Update(id string, in UpdateChallengeInput) (*models.Challenge, error) {
	ch, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if in.StartDate != nil && !in.StartDate.Equal(ch.StartDate) {
		if !ch.StartDate.After(now) {
			return nil, ErrInvalidWindow
		}
		ch.StartDate = *in.StartDate
	}
	if in.EndDate != nil && !in.EndDate.Equal(ch.EndDate) {
		if !ch.EndDate.After(now) {
			return nil, ErrInvalidWindow
		}
		ch.EndDate = *in.EndDate
	}
	if in.VotingEnd != nil && !in.VotingEnd.Equal(ch.VotingEnd) {
		if !ch.VotingEnd.After(now) {
			return nil, ErrInvalidWindow
		}
		ch.VotingEnd = *in.VotingEnd
	}
	if !ch.StartDate.Before(ch.EndDate) || !ch.EndDate.Before(ch.VotingEnd) {
		return nil, ErrInvalidWindow
	}

	if in.Theme != nil {
		ch.Theme = *in.Theme
	}
	if in.Description != nil {
		ch.Description = *in.Description
	}
	if in.Rules != nil {
		ch.Rules = *in.Rules
	}
	if in.Featured != nil {
		ch.Featured = *in.Featured
	}

	if err := s.db.Save(ch).Error; err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}
	return ch, nil
}

// Delete removes a challenge together with its entries and votes in one
// transaction, so no entry can ever reference a missing challenge.
func (s *ChallengeService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ch models.Challenge
		if err := tx.First(&ch, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return fmt.Errorf("failed to fetch challenge: %w", err)
		}

		entryIDs := tx.Model(&models.Entry{}).Select("id").Where("challenge_id = ?", id)
		if err := tx.Where("entry_id IN (?)", entryIDs).Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&models.Entry{}).Error; err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
		if err := tx.Delete(&ch).Error; err != nil {
			return fmt.Errorf("failed to delete challenge: %w", err)
		}
		return nil
	})
}
