package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionIDMaxLen matches the session_id column width; longer ids are
// rejected as invalid input before they can hit the store.
const SessionIDMaxLen = 64

// Vote is append-only. The composite unique index on (poll_id, session_id)
// is the authoritative one-vote-per-session guarantee; application-level
// duplicate checks are only a latency optimization.
type Vote struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PollID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_poll_session" json:"poll_id"`
	Poll      Poll      `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"-"`
	SessionID string    `gorm:"size:64;not null;uniqueIndex:idx_vote_poll_session" json:"session_id"`
	Choice    string    `gorm:"size:100;not null" json:"choice"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
