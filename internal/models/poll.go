package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PollType string

const (
	PollTypeBinary PollType = "binary"
	PollTypeRange  PollType = "range"
	PollTypeChoice PollType = "choice"
)

const (
	DefaultYesLabel = "Yes"
	DefaultNoLabel  = "No"

	MinChoiceItems = 2
	MaxChoiceItems = 5

	// MaxRangeKeys caps how many values a numeric range may span.
	// ChoiceKeys materializes one key per integer in [min, max] on
	// every vote and results request, so the width must stay small.
	MaxRangeKeys = 100
)

type Poll struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    string    `gorm:"type:uuid;not null;index" json:"room_id"`
	Room      Room      `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	Question  string    `gorm:"size:500;not null" json:"question"`
	Type      PollType  `gorm:"size:10;not null" json:"type"`
	Options   Options   `gorm:"type:json" json:"options"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Options is a tagged union keyed by the poll's Type: exactly one variant
// is set. Stored as a JSON column.
type Options struct {
	Binary *BinaryOptions `json:"binary,omitempty"`
	Range  *RangeOptions  `json:"range,omitempty"`
	Choice *ChoiceOptions `json:"choice,omitempty"`
}

type BinaryOptions struct {
	YesLabel string `json:"yes_label"`
	NoLabel  string `json:"no_label"`
}

type RangeOptions struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type ChoiceOptions struct {
	Items []ChoiceItem `json:"items"`
}

// ChoiceItem keeps key order explicit; a plain map would lose the order
// the creator supplied the options in.
type ChoiceItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (o Options) Value() (driver.Value, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *Options) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = Options{}
		return nil
	default:
		return fmt.Errorf("unsupported options column type %T", value)
	}
}

// Validate checks that the options variant matching typ is present and
// well-formed, and that no other variant is set.
func (o Options) Validate(typ PollType) error {
	switch typ {
	case PollTypeBinary:
		if o.Range != nil || o.Choice != nil {
			return errors.New("binary poll must not carry range or choice options")
		}
	case PollTypeRange:
		if o.Range == nil {
			return errors.New("range poll requires min and max bounds")
		}
		if o.Binary != nil || o.Choice != nil {
			return errors.New("range poll must not carry binary or choice options")
		}
		if o.Range.Min >= o.Range.Max {
			return fmt.Errorf("range bounds invalid: min %d must be less than max %d", o.Range.Min, o.Range.Max)
		}
		// uint64 subtraction cannot overflow for min < max.
		if span := uint64(o.Range.Max) - uint64(o.Range.Min); span+1 > MaxRangeKeys {
			return fmt.Errorf("range covers %d values, maximum is %d", span+1, MaxRangeKeys)
		}
	case PollTypeChoice:
		if o.Choice == nil {
			return errors.New("choice poll requires an item list")
		}
		if o.Binary != nil || o.Range != nil {
			return errors.New("choice poll must not carry binary or range options")
		}
		n := len(o.Choice.Items)
		if n < MinChoiceItems || n > MaxChoiceItems {
			return fmt.Errorf("choice poll requires %d-%d items, got %d", MinChoiceItems, MaxChoiceItems, n)
		}
		seen := make(map[string]bool, n)
		for _, item := range o.Choice.Items {
			if item.Key == "" {
				return errors.New("choice item key must not be empty")
			}
			if seen[item.Key] {
				return fmt.Errorf("duplicate choice key %q", item.Key)
			}
			seen[item.Key] = true
		}
	default:
		return fmt.Errorf("unknown poll type %q", typ)
	}
	return nil
}

// ChoiceKeys derives the ordered legal choice set for the poll. The
// derivation is pure: both vote validation and result bucketing use it,
// so options with zero votes still appear in results.
func (p *Poll) ChoiceKeys() []string {
	switch p.Type {
	case PollTypeBinary:
		return []string{"yes", "no"}
	case PollTypeRange:
		if p.Options.Range == nil {
			return nil
		}
		keys := make([]string, 0, p.Options.Range.Max-p.Options.Range.Min+1)
		for i := p.Options.Range.Min; i <= p.Options.Range.Max; i++ {
			keys = append(keys, strconv.Itoa(i))
		}
		return keys
	case PollTypeChoice:
		if p.Options.Choice == nil {
			return nil
		}
		keys := make([]string, 0, len(p.Options.Choice.Items))
		for _, item := range p.Options.Choice.Items {
			keys = append(keys, item.Key)
		}
		return keys
	}
	return nil
}

// ChoiceLabel resolves the display label for a legal choice key. Range
// keys label themselves.
func (p *Poll) ChoiceLabel(key string) string {
	switch p.Type {
	case PollTypeBinary:
		yes, no := DefaultYesLabel, DefaultNoLabel
		if p.Options.Binary != nil {
			if p.Options.Binary.YesLabel != "" {
				yes = p.Options.Binary.YesLabel
			}
			if p.Options.Binary.NoLabel != "" {
				no = p.Options.Binary.NoLabel
			}
		}
		if key == "yes" {
			return yes
		}
		return no
	case PollTypeChoice:
		if p.Options.Choice != nil {
			for _, item := range p.Options.Choice.Items {
				if item.Key == key {
					return item.Label
				}
			}
		}
	}
	return key
}

// ValidID reports whether s is a well-formed poll or vote identifier
// (36-character UUID text form). Checked before any storage access.
func ValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
