package services

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"pollroom-backend/internal/models"

	"gorm.io/gorm"
)

// codeRetries bounds how many collision retries room creation makes
// before giving up.
const codeRetries = 5

type RoomService struct {
	db      *gorm.DB
	roomTTL time.Duration
}

func NewRoomService(db *gorm.DB, roomTTL time.Duration) *RoomService {
	return &RoomService{db: db, roomTTL: roomTTL}
}

func (s *RoomService) CreateRoom(name string) (*models.Room, error) {
	if len(name) > 100 {
		return nil, reject(CodeInvalidInput, "room name must be at most 100 characters")
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		expires := time.Now().Add(s.roomTTL)
		room := models.Room{
			Code:      generateCode(),
			Name:      name,
			ExpiresAt: &expires,
		}
		err := s.db.Create(&room).Error
		if err == nil {
			return &room, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, rejectStorage(err)
	}
	return nil, reject(CodeStorage, "room code generation exhausted, try again")
}

// GetRoomByCode normalizes and validates the code, then applies the
// expiration gate. Expired rooms are reported distinctly from missing
// ones so clients can tell "never existed" from "existed but closed".
func (s *RoomService) GetRoomByCode(code string) (*models.Room, error) {
	room, err := s.findRoom(code)
	if err != nil {
		return nil, err
	}
	if room.IsExpired(time.Now()) {
		return nil, reject(CodeExpired, "room has expired")
	}
	return room, nil
}

// DeleteRoom removes the room and cascades to its polls and votes.
// Expired rooms are still deletable.
func (s *RoomService) DeleteRoom(code string) error {
	room, err := s.findRoom(code)
	if err != nil {
		return err
	}
	if err := s.db.Select("Polls").Delete(room).Error; err != nil {
		return rejectStorage(err)
	}
	return nil
}

// ListActivePolls returns the room's polls that are open for voting,
// oldest first.
func (s *RoomService) ListActivePolls(code string) ([]models.Poll, error) {
	room, err := s.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}
	var polls []models.Poll
	if err := s.db.Where("room_id = ? AND is_active = ?", room.ID, true).
		Order("created_at ASC").
		Find(&polls).Error; err != nil {
		return nil, rejectStorage(err)
	}
	return polls, nil
}

func (s *RoomService) findRoom(code string) (*models.Room, error) {
	code = strings.ToUpper(code)
	if !models.ValidCode(code) {
		return nil, reject(CodeInvalidIdentifier, "room code must be 6 uppercase letters or digits")
	}
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(CodeNotFound, "room not found")
		}
		return nil, rejectStorage(err)
	}
	return &room, nil
}

func generateCode() string {
	b := make([]byte, models.CodeLength)
	for i := range b {
		b[i] = models.CodeAlphabet[rand.Intn(len(models.CodeAlphabet))]
	}
	return string(b)
}
