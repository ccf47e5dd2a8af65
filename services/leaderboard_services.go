package services

import (
	"context"
	"fmt"

	"api/cache"
	"api/models"

	"gorm.io/gorm"
)

// DefaultLeaderboardLimit bounds a leaderboard read when the caller does
// not say how many rows it wants. cachedLimit is the snapshot depth kept
// in redis; requests deeper than that bypass the cache.
const (
	DefaultLeaderboardLimit = 20
	cachedLimit             = 100
)

// LeaderboardService derives the ranked view from the entry store and the
// vote ledger. Nothing here is stored: every ranking is recomputed from
// the ledger (or served from a snapshot that every ledger write path
// invalidates).
type LeaderboardService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewLeaderboardService(db *gorm.DB, c *cache.Cache) *LeaderboardService {
	return &LeaderboardService{db: db, cache: c}
}

// LeaderboardRow is one ranked line. Ranks are dense: 1..n, contiguous,
// no duplicates even across vote-count ties. Ties are broken by earliest
// submission, then by entry id so repeated reads always agree.
type LeaderboardRow struct {
	Rank      int          `json:"rank"`
	Entry     models.Entry `json:"entry"`
	VoteCount int64        `json:"vote_count"`
}

func leaderboardCacheKey(challengeID string) string {
	return "leaderboard:" + challengeID
}

// Rank returns the top entries of a challenge ordered by vote count
// descending. Only approved entries appear.
func (s *LeaderboardService) Rank(challengeID string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	if limit <= cachedLimit {
		var cached []LeaderboardRow
		if s.cache.GetJSON(context.Background(), leaderboardCacheKey(challengeID), &cached) {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	rows, err := s.compute(challengeID, cachedLimit)
	if err != nil {
		return nil, err
	}

	if limit <= cachedLimit {
		s.cache.SetJSON(context.Background(), leaderboardCacheKey(challengeID), rows)
	} else {
		// Deeper than the snapshot; recompute at the requested depth.
		if rows, err = s.compute(challengeID, limit); err != nil {
			return nil, err
		}
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *LeaderboardService) compute(challengeID string, limit int) ([]LeaderboardRow, error) {
	type scanRow struct {
		models.Entry
		VoteCount int64 `gorm:"column:vote_count"`
	}

	var scanned []scanRow
	err := s.db.Model(&models.Entry{}).
		Select("entries.*, COUNT(votes.id) AS vote_count").
		Joins("LEFT JOIN votes ON votes.entry_id = entries.id").
		Where("entries.challenge_id = ? AND entries.is_approved = ?", challengeID, true).
		Group("entries.id").
		Order("vote_count DESC, entries.created_at ASC, entries.id ASC").
		Limit(limit).
		Scan(&scanned).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute leaderboard: %w", err)
	}

	rows := make([]LeaderboardRow, len(scanned))
	for i, r := range scanned {
		rows[i] = LeaderboardRow{Rank: i + 1, Entry: r.Entry, VoteCount: r.VoteCount}
	}
	return rows, nil
}
