package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengePhase is a challenge's position in its lifecycle. Phases only
// ever move forward, in declaration order.
type ChallengePhase string

const (
	PhaseUpcoming  ChallengePhase = "upcoming"
	PhaseActive    ChallengePhase = "active"
	PhaseVoting    ChallengePhase = "voting"
	PhaseCompleted ChallengePhase = "completed"
)

// Next returns the immediate successor phase. ok is false once the
// challenge is completed.
func (p ChallengePhase) Next() (next ChallengePhase, ok bool) {
	switch p {
	case PhaseUpcoming:
		return PhaseActive, true
	case PhaseActive:
		return PhaseVoting, true
	case PhaseVoting:
		return PhaseCompleted, true
	}
	return "", false
}

// Challenge represents a time-boxed community photo contest. The phase
// column is written only by the transition engine; metadata edits never
// touch it.
type Challenge struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	Theme       string         `gorm:"type:varchar(100);not null" json:"theme"`
	Description string         `gorm:"type:text" json:"description"`
	Rules       string         `gorm:"type:text" json:"rules"`
	StartDate   time.Time      `gorm:"not null;column:start_date" json:"start_date"`
	EndDate     time.Time      `gorm:"not null;column:end_date" json:"end_date"`
	VotingEnd   time.Time      `gorm:"not null;column:voting_end" json:"voting_end"`
	Phase       ChallengePhase `gorm:"type:varchar(20);not null;default:'upcoming'" json:"phase"`
	Featured    bool           `gorm:"not null;default:false" json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	Entries     []*Entry       `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

func (ch *Challenge) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	return nil
}

// PhaseAt returns the phase consistent with t and the stored boundaries.
func (ch *Challenge) PhaseAt(t time.Time) ChallengePhase {
	switch {
	case t.Before(ch.StartDate):
		return PhaseUpcoming
	case t.Before(ch.EndDate):
		return PhaseActive
	case t.Before(ch.VotingEnd):
		return PhaseVoting
	}
	return PhaseCompleted
}
