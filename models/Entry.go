package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry represents one participant's single submission to a challenge.
// The unique index on (challenge_id, participant_id) is what enforces the
// one-entry-per-participant rule under concurrent submissions.
type Entry struct {
	ID            string     `gorm:"type:uuid;primary_key" json:"id"`
	ChallengeID   string     `gorm:"type:uuid;not null;column:challenge_id;uniqueIndex:idx_entries_challenge_participant" json:"challenge_id"`
	ParticipantID string     `gorm:"type:uuid;not null;column:participant_id;uniqueIndex:idx_entries_challenge_participant" json:"participant_id"`
	ImageRef      string     `gorm:"type:varchar(255);not null;column:image_ref" json:"image_ref"`
	Title         string     `gorm:"type:varchar(100)" json:"title"`
	Caption       string     `gorm:"type:text" json:"caption"`
	Location      string     `gorm:"type:varchar(100)" json:"location"`
	Camera        string     `gorm:"type:varchar(100)" json:"camera"`
	IsApproved    bool       `gorm:"not null;default:false;column:is_approved" json:"is_approved"`
	IsWinner      bool       `gorm:"not null;default:false;column:is_winner" json:"is_winner"`
	WinnerPlace   *int       `gorm:"column:winner_place" json:"winner_place"`
	IsFeatured    bool       `gorm:"not null;default:false;column:is_featured" json:"is_featured"`
	CreatedAt     time.Time  `json:"created_at"`
	Challenge     *Challenge `gorm:"foreignKey:ChallengeID" json:"-"`
	Votes         []*Vote    `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
