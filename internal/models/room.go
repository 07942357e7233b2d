package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CodeLength = 6

// CodeAlphabet is the character set room codes are drawn from.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

type Room struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string     `gorm:"size:6;not null;uniqueIndex" json:"code"`
	Name      string     `gorm:"size:100" json:"name,omitempty"`
	Polls     []Poll     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"polls,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsExpired reports whether the room is past its lifetime at the given
// instant. A room with no expiration set is treated as already expired.
func (r *Room) IsExpired(now time.Time) bool {
	return r.ExpiresAt == nil || !r.ExpiresAt.After(now)
}

// ValidCode reports whether s is a well-formed room code. Callers
// normalize input to uppercase before this check.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}
