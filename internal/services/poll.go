package services

import (
	"errors"
	"time"

	"pollroom-backend/internal/models"

	"gorm.io/gorm"
)

type PollService struct {
	db    *gorm.DB
	rooms *RoomService
}

func NewPollService(db *gorm.DB, rooms *RoomService) *PollService {
	return &PollService{db: db, rooms: rooms}
}

func (s *PollService) CreatePoll(roomCode, question string, typ models.PollType, options models.Options) (*models.Poll, error) {
	if question == "" {
		return nil, reject(CodeInvalidInput, "question must not be empty")
	}
	if len(question) > 500 {
		return nil, reject(CodeInvalidInput, "question must be at most 500 characters")
	}
	if err := options.Validate(typ); err != nil {
		return nil, reject(CodeInvalidInput, err.Error())
	}
	if typ == models.PollTypeBinary && options.Binary == nil {
		options.Binary = &models.BinaryOptions{
			YesLabel: models.DefaultYesLabel,
			NoLabel:  models.DefaultNoLabel,
		}
	}

	room, err := s.rooms.GetRoomByCode(roomCode)
	if err != nil {
		return nil, err
	}

	poll := models.Poll{
		RoomID:   room.ID,
		Question: question,
		Type:     typ,
		Options:  options,
		IsActive: true,
	}
	if err := s.db.Create(&poll).Error; err != nil {
		return nil, rejectStorage(err)
	}
	poll.Room = *room
	return &poll, nil
}

// ResolvePoll is the shared precondition routine for the vote and the
// results paths: identifier format, existence, and the owning room's
// expiration are all checked here with a single time source so the two
// paths cannot diverge.
func (s *PollService) ResolvePoll(id string) (*models.Poll, error) {
	if !models.ValidID(id) {
		return nil, reject(CodeInvalidIdentifier, "poll id must be a 36-character UUID")
	}
	var poll models.Poll
	if err := s.db.Preload("Room").First(&poll, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(CodeNotFound, "poll not found")
		}
		return nil, rejectStorage(err)
	}
	if poll.Room.IsExpired(time.Now()) {
		return nil, reject(CodeExpired, "room has expired")
	}
	return &poll, nil
}

// ClosePoll deactivates the poll so no further votes are accepted.
// Recorded votes and results stay readable.
func (s *PollService) ClosePoll(id string) (*models.Poll, error) {
	poll, err := s.ResolvePoll(id)
	if err != nil {
		return nil, err
	}
	if poll.IsActive {
		if err := s.db.Model(poll).Update("is_active", false).Error; err != nil {
			return nil, rejectStorage(err)
		}
		poll.IsActive = false
	}
	return poll, nil
}
