package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"pollroom-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named in-memory database so the connection pool shares one
	// instance; _fk enables foreign-key (cascade) enforcement.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Room{}, &models.Poll{}, &models.Vote{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

var testCodeSeq int

func createTestRoom(t *testing.T, db *gorm.DB, expiresAt *time.Time) *models.Room {
	t.Helper()
	testCodeSeq++
	room := models.Room{
		Code:      fmt.Sprintf("RM%04d", testCodeSeq),
		Name:      "test room",
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to create test room: %v", err)
	}
	return &room
}

func createTestPoll(t *testing.T, db *gorm.DB, room *models.Room, typ models.PollType, options models.Options) *models.Poll {
	t.Helper()
	poll := models.Poll{
		RoomID:   room.ID,
		Question: "Ready?",
		Type:     typ,
		Options:  options,
		IsActive: true,
	}
	if err := db.Create(&poll).Error; err != nil {
		t.Fatalf("failed to create test poll: %v", err)
	}
	return &poll
}

func futureExpiry() *time.Time {
	exp := time.Now().Add(24 * time.Hour)
	return &exp
}

func pastExpiry() *time.Time {
	exp := time.Now().Add(-time.Hour)
	return &exp
}

// fakeSessionStore records upserts in memory; set fail to exercise the
// best-effort contract.
type fakeSessionStore struct {
	upserts []fakeUpsert
	fail    bool
}

type fakeUpsert struct {
	SessionID string
	RoomCode  string
	Role      string
}

func (f *fakeSessionStore) Upsert(ctx context.Context, sessionID, roomCode, role string) error {
	if f.fail {
		return fmt.Errorf("session store unavailable")
	}
	f.upserts = append(f.upserts, fakeUpsert{SessionID: sessionID, RoomCode: roomCode, Role: role})
	return nil
}

func assertRejection(t *testing.T, err error, want RejectionCode) *Rejection {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s rejection, got nil error", want)
	}
	r, ok := err.(*Rejection)
	if !ok {
		t.Fatalf("expected *Rejection, got %T: %v", err, err)
	}
	if r.Code != want {
		t.Fatalf("rejection code = %s, want %s", r.Code, want)
	}
	return r
}
