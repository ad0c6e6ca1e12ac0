// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/boardtime/auth"
	"github.com/danielhkuo/boardtime/cliparse"
	"github.com/danielhkuo/boardtime/db"
	"github.com/danielhkuo/boardtime/events"
	"github.com/danielhkuo/boardtime/models"
	"github.com/danielhkuo/boardtime/store"
)

// TestMeetingPassword is the owner password of meetings made by CreateTestMeeting
const TestMeetingPassword = "meeting-pass"

// SetupTestDB creates a fresh, migrated SQLite database in a temp dir
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "boardtime_test.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(context.Background(), conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

// NewTestStore returns a store over a fresh test database
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Env:            cliparse.EnvLocal,
		Port:           3318,
		DatabaseURL:    "file:test.db",
		DatabaseType:   db.TypeSQLite,
		IPHashSalt:     "test-ip-salt",
		PasswordCost:   bcrypt.MinCost,
		Timezone:       "UTC",
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimit:      30,
	}
}

// Clock is a settable time source for deadline tests
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now.UTC()}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now.UTC()
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// RecordingPublisher keeps every published event. Set Err to make Publish fail.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func (p *RecordingPublisher) Types() []string {
	var types []string
	for _, e := range p.Events() {
		types = append(types, e.Type)
	}
	return types
}

// CreateTestMeeting inserts a meeting with one date option per date.
// The returned options are in the order given.
func CreateTestMeeting(t *testing.T, st *store.Store, deadline time.Time, dates ...time.Time) (models.Meeting, []models.DateOption) {
	t.Helper()
	return CreateTestMeetingTitled(t, st, gofakeit.Company()+" board meeting", deadline, dates...)
}

func CreateTestMeetingTitled(t *testing.T, st *store.Store, title string, deadline time.Time, dates ...time.Time) (models.Meeting, []models.DateOption) {
	t.Helper()
	ctx := context.Background()

	hash, err := auth.HashPassword(TestMeetingPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	m := models.Meeting{
		ID:           auth.NewMeetingID(),
		Title:        title,
		Description:  gofakeit.Sentence(8),
		PasswordHash: hash,
		Deadline:     deadline.UTC().Truncate(time.Second),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	opts := make([]models.DateOption, 0, len(dates))
	for _, d := range dates {
		id, _ := auth.GenerateID(12)
		opts = append(opts, models.DateOption{ID: id, MeetingID: m.ID, Date: d.UTC().Truncate(time.Second)})
	}

	err = st.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertMeeting(ctx, m); err != nil {
			return err
		}
		return tx.InsertDateOptions(ctx, opts)
	})
	if err != nil {
		t.Fatalf("Failed to create test meeting: %v", err)
	}

	return m, opts
}

// AddTestVote inserts a participant with the given selection directly, bypassing deadline checks
func AddTestVote(t *testing.T, st *store.Store, meetingID, nickname, password string, optionIDs ...string) models.Participant {
	t.Helper()
	ctx := context.Background()

	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	id, _ := auth.GenerateID(12)
	now := time.Now().UTC()
	p := models.Participant{
		ID:           id,
		MeetingID:    meetingID,
		Nickname:     nickname,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = st.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertParticipant(ctx, p); err != nil {
			return err
		}
		return tx.ReplaceSelections(ctx, p.ID, optionIDs)
	})
	if err != nil {
		t.Fatalf("Failed to add test vote: %v", err)
	}

	return p
}

// FakeNickname returns a random nickname that fits the 50 character limit
func FakeNickname() string {
	name := gofakeit.Username()
	if len(name) > 40 {
		name = name[:40]
	}
	return name
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the machine-readable code of a JSON error response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v (body %s)", err, w.Body.String())
	}
	if resp.Code != code {
		t.Errorf("Expected error code %q, got %q (%s)", code, resp.Code, resp.Error)
	}
}
