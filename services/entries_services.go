package services

import (
	"context"
	"errors"
	"fmt"

	"api/cache"
	"api/metrics"
	"api/models"

	"gorm.io/gorm"
)

// EntryService records submissions and the moderation gate. Uniqueness of
// (challenge, participant) is not checked in application code: the insert
// runs straight into the unique index, so two concurrent submissions by
// the same participant leave exactly one row and the loser observes
// ErrDuplicateEntry.
type EntryService struct {
	db     *gorm.DB
	engine *TransitionEngine
	cache  *cache.Cache
}

func NewEntryService(db *gorm.DB, engine *TransitionEngine, c *cache.Cache) *EntryService {
	return &EntryService{db: db, engine: engine, cache: c}
}

// SubmitEntryInput carries a participant's submission. ImageRef is the
// opaque reference handed out by the upload pipeline.
type SubmitEntryInput struct {
	ImageRef string
	Title    string
	Caption  string
	Location string
	Camera   string
}

// Submit stores a participant's single entry for a challenge. The
// challenge is advanced to its clock-consistent phase first, so a contest
// whose submission window just opened or closed is judged correctly.
func (s *EntryService) Submit(challengeID, participantID string, in SubmitEntryInput) (*models.Entry, error) {
	var ch models.Challenge
	if err := s.db.First(&ch, "id = ?", challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}
	if _, err := s.engine.Advance(&ch); err != nil {
		return nil, err
	}
	if ch.Phase != models.PhaseActive {
		return nil, ErrChallengeNotAcceptingEntries
	}

	entry := &models.Entry{
		ChallengeID:   challengeID,
		ParticipantID: participantID,
		ImageRef:      in.ImageRef,
		Title:         in.Title,
		Caption:       in.Caption,
		Location:      in.Location,
		Camera:        in.Camera,
	}
	if err := s.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	metrics.EntriesSubmitted.Inc()
	return entry, nil
}

// Get fetches a single entry by id.
func (s *EntryService) Get(entryID string) (*models.Entry, error) {
	var entry models.Entry
	if err := s.db.First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	return &entry, nil
}

// Approve makes an entry visible to voters and the leaderboard.
func (s *EntryService) Approve(entryID string) error {
	return s.setApproval(entryID, true)
}

// Reject hides an entry from voters and the leaderboard. Existing votes
// stay in the ledger; they simply stop counting anywhere until the entry
// is approved again.
func (s *EntryService) Reject(entryID string) error {
	return s.setApproval(entryID, false)
}

func (s *EntryService) setApproval(entryID string, approved bool) error {
	entry, err := s.Get(entryID)
	if err != nil {
		return err
	}
	if err := s.db.Model(entry).Update("is_approved", approved).Error; err != nil {
		return fmt.Errorf("failed to update entry approval: %w", err)
	}
	s.cache.Delete(context.Background(), leaderboardCacheKey(entry.ChallengeID))
	return nil
}

// GetParticipantEntry returns the participant's entry for a challenge, or
// (nil, nil) when they have not submitted one.
func (s *EntryService) GetParticipantEntry(challengeID, participantID string) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.Where("challenge_id = ? AND participant_id = ?", challengeID, participantID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch participant entry: %w", err)
	}
	return &entry, nil
}

// ListForChallenge returns a challenge's entries for the moderation view.
// approved filters by moderation state when non-nil.
func (s *EntryService) ListForChallenge(challengeID string, approved *bool) ([]models.Entry, error) {
	q := s.db.Where("challenge_id = ?", challengeID)
	if approved != nil {
		q = q.Where("is_approved = ?", *approved)
	}
	var entries []models.Entry
	if err := q.Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	return entries, nil
}
