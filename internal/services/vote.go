package services

import (
	"context"
	"errors"
	"fmt"

	"pollroom-backend/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	RoleCreator     = "creator"
	RoleParticipant = "participant"
)

// SessionStore records advisory session metadata. Implementations are
// best-effort: a failed upsert is logged, never surfaced to the voter.
type SessionStore interface {
	Upsert(ctx context.Context, sessionID, roomCode, role string) error
}

type VoteService struct {
	db       *gorm.DB
	polls    *PollService
	sessions SessionStore
}

func NewVoteService(db *gorm.DB, polls *PollService, sessions SessionStore) *VoteService {
	return &VoteService{db: db, polls: polls, sessions: sessions}
}

// Submit validates and records one vote. Checks run in order and
// short-circuit: identifier format (before any storage access), poll
// existence, room expiration, poll active flag, choice legality,
// duplicate session vote. The pre-insert duplicate check is a latency
// optimization only; the unique index on (poll_id, session_id) is the
// authoritative guard, so a constraint violation on insert also maps to
// a duplicate-vote rejection.
func (s *VoteService) Submit(ctx context.Context, pollID, sessionID, choice string) (*models.Vote, error) {
	if !models.ValidID(pollID) {
		return nil, reject(CodeInvalidIdentifier, "poll id must be a 36-character UUID")
	}
	if sessionID == "" {
		return nil, reject(CodeInvalidInput, "session id must not be empty")
	}
	if len(sessionID) > models.SessionIDMaxLen {
		return nil, reject(CodeInvalidInput, fmt.Sprintf("session id must be at most %d characters", models.SessionIDMaxLen))
	}
	if choice == "" {
		return nil, reject(CodeInvalidInput, "choice must not be empty")
	}

	poll, err := s.polls.ResolvePoll(pollID)
	if err != nil {
		return nil, err
	}
	if !poll.IsActive {
		return nil, reject(CodeInactive, "poll is closed to voting")
	}

	legal := poll.ChoiceKeys()
	if !containsKey(legal, choice) {
		return nil, rejectInvalidChoice(choice, legal)
	}

	var count int64
	if err := s.db.Model(&models.Vote{}).
		Where("poll_id = ? AND session_id = ?", poll.ID, sessionID).
		Count(&count).Error; err != nil {
		return nil, rejectStorage(err)
	}
	if count > 0 {
		return nil, reject(CodeDuplicateVote, "session has already voted on this poll")
	}

	vote := models.Vote{
		PollID:    poll.ID,
		SessionID: sessionID,
		Choice:    choice,
	}
	if err := s.db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, reject(CodeDuplicateVote, "session has already voted on this poll")
		}
		return nil, rejectStorage(err)
	}
	vote.Poll = *poll

	if s.sessions != nil {
		if err := s.sessions.Upsert(ctx, sessionID, poll.Room.Code, RoleParticipant); err != nil {
			log.Warnf("session registry upsert failed for %s: %v", sessionID, err)
		}
	}

	return &vote, nil
}

func containsKey(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}
