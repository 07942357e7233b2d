package services

import (
	"math"

	"pollroom-backend/internal/models"

	"gorm.io/gorm"
)

type ResultService struct {
	db    *gorm.DB
	polls *PollService
}

func NewResultService(db *gorm.DB, polls *PollService) *ResultService {
	return &ResultService{db: db, polls: polls}
}

type ChoiceResult struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type PollResults struct {
	PollID     string                  `json:"poll_id"`
	Question   string                  `json:"question"`
	Type       models.PollType         `json:"type"`
	TotalVotes int                     `json:"total_votes"`
	Choices    []string                `json:"choices"`
	Results    map[string]ChoiceResult `json:"results"`
}

// Results aggregates the poll's votes. Pure read: safe to call
// repeatedly and concurrently, and cheap enough to re-run on every
// live-update notification. Counts are initialized from the derived
// legal choice set so options with zero votes still appear; votes with
// an unrecognized choice (legacy data) are ignored rather than failing
// the whole read.
func (s *ResultService) Results(pollID string) (*PollResults, error) {
	poll, err := s.polls.ResolvePoll(pollID)
	if err != nil {
		return nil, err
	}

	var votes []models.Vote
	if err := s.db.Where("poll_id = ?", poll.ID).Find(&votes).Error; err != nil {
		return nil, rejectStorage(err)
	}

	keys := poll.ChoiceKeys()
	counts := make(map[string]int, len(keys))
	for _, k := range keys {
		counts[k] = 0
	}

	total := 0
	for _, v := range votes {
		if _, ok := counts[v.Choice]; !ok {
			continue
		}
		counts[v.Choice]++
		total++
	}

	results := make(map[string]ChoiceResult, len(keys))
	for _, k := range keys {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(counts[k]) / float64(total) * 100))
		}
		results[k] = ChoiceResult{
			Label:      poll.ChoiceLabel(k),
			Count:      counts[k],
			Percentage: pct,
		}
	}

	return &PollResults{
		PollID:     poll.ID,
		Question:   poll.Question,
		Type:       poll.Type,
		TotalVotes: total,
		Choices:    keys,
		Results:    results,
	}, nil
}
