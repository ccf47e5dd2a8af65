package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote is one voter's endorsement of one entry. The unique index on
// (entry_id, voter_id) makes the ledger the source of truth for vote
// counts; counts are always derived from it, never stored.
type Vote struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	EntryID   string    `gorm:"type:uuid;not null;column:entry_id;uniqueIndex:idx_votes_entry_voter" json:"entry_id"`
	VoterID   string    `gorm:"type:uuid;not null;column:voter_id;uniqueIndex:idx_votes_entry_voter" json:"voter_id"`
	CreatedAt time.Time `json:"created_at"`
	Entry     *Entry    `gorm:"foreignKey:EntryID" json:"-"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
