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

// VoteService is the vote ledger. A vote either exists for an
// (entry, voter) pair or it does not; counts are always a COUNT over the
// ledger and are never stored.
//
// Toggle's atomicity comes from the statements themselves rather than an
// isolation level: the DELETE and the INSERT are each atomic, and the
// unique index on (entry_id, voter_id) makes a double insert impossible.
// Any interleaving of concurrent identical toggles therefore ends in a
// state some serial order of those toggles would also produce.
type VoteService struct {
	db     *gorm.DB
	engine *TransitionEngine
	cache  *cache.Cache
}

func NewVoteService(db *gorm.DB, engine *TransitionEngine, c *cache.Cache) *VoteService {
	return &VoteService{db: db, engine: engine, cache: c}
}

// ToggleResult reports the state of the (entry, voter) pair after a
// toggle, with the entry's new ledger count for convenience.
type ToggleResult struct {
	Voted       bool   `json:"voted"`
	VoteCount   int64  `json:"vote_count"`
	EntryID     string `json:"entry_id"`
	ChallengeID string `json:"challenge_id"`
}

// Toggle flips the voter's vote on an entry. Preconditions are checked in
// order, each with its own failure: the entry must exist and be approved,
// its challenge must be in the voting phase, and the voter must not own
// the entry.
func (s *VoteService) Toggle(entryID, voterID string) (*ToggleResult, error) {
	var entry models.Entry
	if err := s.db.First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	if !entry.IsApproved {
		// Unapproved entries are invisible to voters.
		return nil, ErrEntryNotFound
	}

	var ch models.Challenge
	if err := s.db.First(&ch, "id = ?", entry.ChallengeID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}
	if _, err := s.engine.Advance(&ch); err != nil {
		return nil, err
	}
	if ch.Phase != models.PhaseVoting {
		return nil, ErrVotingClosed
	}

	if entry.ParticipantID == voterID {
		return nil, ErrSelfVoteForbidden
	}

	voted := true
	res := s.db.Where("entry_id = ? AND voter_id = ?", entryID, voterID).Delete(&models.Vote{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to toggle vote: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		voted = false
	} else {
		vote := &models.Vote{EntryID: entryID, VoterID: voterID}
		if err := s.db.Create(vote).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("failed to toggle vote: %w", err)
			}
			// A concurrent identical toggle inserted first. The pair
			// exists, which is exactly the state this call reports.
		}
	}

	direction := "off"
	if voted {
		direction = "on"
	}
	metrics.VotesToggled.WithLabelValues(direction).Inc()
	s.cache.Delete(context.Background(), leaderboardCacheKey(entry.ChallengeID))

	count, err := s.CountFor(entryID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{
		Voted:       voted,
		VoteCount:   count,
		EntryID:     entryID,
		ChallengeID: entry.ChallengeID,
	}, nil
}

// CountFor returns the number of ledger rows for an entry.
func (s *VoteService) CountFor(entryID string) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Vote{}).Where("entry_id = ?", entryID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

// HasVoted reports whether the pair exists in the ledger.
func (s *VoteService) HasVoted(entryID, voterID string) (bool, error) {
	var n int64
	err := s.db.Model(&models.Vote{}).
		Where("entry_id = ? AND voter_id = ?", entryID, voterID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return n > 0, nil
}

// VotedEntryIDs returns the ids of the challenge's entries the voter has
// currently voted for. Used by the challenge detail view.
func (s *VoteService) VotedEntryIDs(challengeID, voterID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.Vote{}).
		Joins("JOIN entries ON entries.id = votes.entry_id").
		Where("entries.challenge_id = ? AND votes.voter_id = ?", challengeID, voterID).
		Pluck("votes.entry_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voted entries: %w", err)
	}
	return ids, nil
}
