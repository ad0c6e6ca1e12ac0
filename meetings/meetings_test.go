// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package meetings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/boardtime/models"
	"github.com/danielhkuo/boardtime/store"
	"github.com/danielhkuo/boardtime/testutil"
)

var (
	now  = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	day1 = time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 4, 11, 14, 0, 0, 0, time.UTC)
	day3 = time.Date(2026, 4, 12, 14, 0, 0, 0, time.UTC)
)

type fixture struct {
	st    *store.Store
	svc   *Service
	clock *testutil.Clock
	pub   *testutil.RecordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := testutil.NewTestStore(t)
	clock := testutil.NewClock(now)
	pub := &testutil.RecordingPublisher{}
	return &fixture{
		st:    st,
		svc:   New(st, pub, WithClock(clock.Now), WithPasswordCost(bcrypt.MinCost)),
		clock: clock,
		pub:   pub,
	}
}

func (f *fixture) create(t *testing.T, dates ...time.Time) string {
	t.Helper()
	id, err := f.svc.Create(context.Background(), CreateInput{
		Title:       gofakeit.Company() + " sync",
		Password:    "owner",
		Deadline:    now.Add(7 * 24 * time.Hour),
		DateOptions: dates,
	})
	require.NoError(t, err)
	return id
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Create(ctx, CreateInput{
		Title:       "  BoardTime Kickoff  ",
		Description: "first meeting",
		Password:    "owner",
		Deadline:    now.Add(48*time.Hour + 500*time.Millisecond),
		DateOptions: []time.Time{day2, day1.In(time.FixedZone("KST", 9*3600))},
	})
	require.NoError(t, err)

	detail, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "BoardTime Kickoff", detail.Meeting.Title)
	assert.True(t, now.Add(48*time.Hour).Equal(detail.Meeting.Deadline), "deadline truncated to the second")
	assert.False(t, detail.IsExpired)
	require.Len(t, detail.DateOptions, 2)
	assert.True(t, detail.DateOptions[0].Date.Equal(day1))
	assert.True(t, detail.DateOptions[1].Date.Equal(day2))
	assert.Empty(t, detail.Participants)
	assert.Equal(t, []string{models.EventMeetingCreated}, f.pub.Types())
}

func TestCreate_DuplicateDatesStoredOnce(t *testing.T) {
	f := newFixture(t)
	ts := time.Date(2025, 10, 25, 14, 0, 0, 0, time.UTC)
	f.clock.Set(ts.Add(-24 * time.Hour))

	id, err := f.svc.Create(context.Background(), CreateInput{
		Title:       "dupes",
		Password:    "owner",
		Deadline:    ts,
		DateOptions: []time.Time{ts, ts},
	})
	require.NoError(t, err)

	opts, err := f.st.ListDateOptions(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	valid := CreateInput{
		Title:       "Board",
		Password:    "owner",
		Deadline:    now.Add(time.Hour),
		DateOptions: []time.Time{day1},
	}

	tests := []struct {
		name    string
		mutate  func(*CreateInput)
		wantErr error
	}{
		{"empty date options", func(in *CreateInput) { in.DateOptions = nil }, models.ErrEmptyDateOptions},
		{"only zero dates", func(in *CreateInput) { in.DateOptions = []time.Time{{}} }, models.ErrEmptyDateOptions},
		{"blank title", func(in *CreateInput) { in.Title = "   " }, models.ErrValidation},
		{"missing password", func(in *CreateInput) { in.Password = "" }, models.ErrValidation},
		{"missing deadline", func(in *CreateInput) { in.Deadline = time.Time{} }, models.ErrValidation},
		{"deadline in the past", func(in *CreateInput) { in.Deadline = now.Add(-time.Minute) }, models.ErrValidation},
		{"deadline equal to now", func(in *CreateInput) { in.Deadline = now }, models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.pub.Events())
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrMeetingNotFound)
}

func TestGet_IsExpiredFollowsClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1)

	detail, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, detail.IsExpired)

	f.clock.Set(detail.Meeting.Deadline)
	detail, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, detail.IsExpired, "exactly at the deadline voting is still open")

	f.clock.Advance(time.Second)
	detail, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, detail.IsExpired)
}

func TestGet_Selections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1, day2)

	detail, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	a := testutil.AddTestVote(t, f.st, id, "a", "pw", detail.DateOptions[0].ID)
	b := testutil.AddTestVote(t, f.st, id, "b", "pw", detail.DateOptions[0].ID, detail.DateOptions[1].ID)

	detail, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, detail.Selections[detail.DateOptions[0].ID])
	assert.Equal(t, []string{b.ID}, detail.Selections[detail.DateOptions[1].ID])
	require.Len(t, detail.Participants, 2)
	assert.Equal(t, "a", detail.Participants[0].Nickname)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1)

	assert.NoError(t, f.svc.Authenticate(ctx, id, "owner"))
	assert.ErrorIs(t, f.svc.Authenticate(ctx, id, "intruder"), models.ErrInvalidPassword)
	assert.ErrorIs(t, f.svc.Authenticate(ctx, id, ""), models.ErrValidation)
	assert.ErrorIs(t, f.svc.Authenticate(ctx, "missing", "owner"), models.ErrMeetingNotFound)
}

func TestUpdate_Fields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1)

	title := "Renamed"
	desc := "new agenda"
	detail, err := f.svc.Update(ctx, id, "owner", UpdateInput{Title: &title, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", detail.Meeting.Title)
	assert.Equal(t, "new agenda", detail.Meeting.Description)
	assert.Len(t, detail.DateOptions, 1, "nil DateOptions leaves dates alone")
	assert.Equal(t, []string{models.EventMeetingCreated, models.EventMeetingUpdated}, f.pub.Types())
}

func TestUpdate_PastDeadlineClosesVoting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1)

	past := now.Add(-time.Hour)
	detail, err := f.svc.Update(ctx, id, "owner", UpdateInput{Deadline: &past})
	require.NoError(t, err)
	assert.True(t, detail.IsExpired)
}

func TestUpdate_WrongPasswordChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1)
	before, err := f.svc.Get(ctx, id)
	require.NoError(t, err)

	title := "hijacked"
	_, err = f.svc.Update(ctx, id, "intruder", UpdateInput{Title: &title})
	assert.ErrorIs(t, err, models.ErrInvalidPassword)

	after, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Meeting.Title, after.Meeting.Title)
}

func TestUpdate_AuthenticatesBeforeValidating(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, day1)

	blank := ""
	_, err := f.svc.Update(context.Background(), id, "intruder", UpdateInput{Title: &blank})
	assert.ErrorIs(t, err, models.ErrInvalidPassword)
}

func TestUpdate_DateOptionsCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1, day2)

	detail, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	keptID := detail.DateOptions[0].ID // day1
	droppedID := detail.DateOptions[1].ID

	alice := testutil.AddTestVote(t, f.st, id, "alice", "pw", keptID, droppedID)
	bob := testutil.AddTestVote(t, f.st, id, "bob", "pw", droppedID)

	dates := []time.Time{day1, day3}
	detail, err = f.svc.Update(ctx, id, "owner", UpdateInput{DateOptions: &dates})
	require.NoError(t, err)

	require.Len(t, detail.DateOptions, 2)
	assert.Equal(t, keptID, detail.DateOptions[0].ID, "kept date keeps its id")
	assert.True(t, detail.DateOptions[1].Date.Equal(day3))
	assert.NotEqual(t, droppedID, detail.DateOptions[1].ID)

	aliceSel, err := f.st.ParticipantSelections(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keptID}, aliceSel)

	bobSel, err := f.st.ParticipantSelections(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobSel)
	assert.Len(t, detail.Participants, 2, "participants survive with an empty selection")
	assert.Equal(t, []string{alice.ID}, detail.Selections[keptID])
}

func TestUpdate_EmptyDateOptionsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, day1)

	title := "should not stick"
	empty := []time.Time{}
	_, err := f.svc.Update(ctx, id, "owner", UpdateInput{Title: &title, DateOptions: &empty})
	assert.ErrorIs(t, err, models.ErrEmptyDateOptions)

	detail, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "should not stick", detail.Meeting.Title, "update is all-or-nothing")
	assert.Len(t, detail.DateOptions, 1)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Update(context.Background(), "missing", "owner", UpdateInput{})
	assert.ErrorIs(t, err, models.ErrMeetingNotFound)
}

func TestSearchByTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Create(ctx, CreateInput{
		Title: "BoardTime Kickoff", Password: "owner", Deadline: now.Add(time.Hour), DateOptions: []time.Time{day1},
	})
	require.NoError(t, err)
	f.create(t, day1)

	got, err := f.svc.SearchByTitle(ctx, "Board")
	require.NoError(t, err)
	assert.Contains(t, got, models.MeetingSummary{ID: id, Title: "BoardTime Kickoff"})

	got, err = f.svc.SearchByTitle(ctx, "KICKOFF")
	require.NoError(t, err)
	assert.Contains(t, got, models.MeetingSummary{ID: id, Title: "BoardTime Kickoff"})

	got, err = f.svc.SearchByTitle(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got, 1, "exact id matches")

	got, err = f.svc.SearchByTitle(ctx, "zzz-no-such-meeting")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = f.svc.SearchByTitle(ctx, "  ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.pub.Err = errors.New("broker down")

	id := f.create(t, day1)
	assert.NotEmpty(t, id)
}

func TestNormalizeDates(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	in := []time.Time{
		day2,
		day1.In(kst),
		day1.Add(300 * time.Millisecond),
		{},
	}

	got := normalizeDates(in)
	require.Len(t, got, 2)
	assert.True(t, day1.Equal(got[0]))
	assert.True(t, day2.Equal(got[1]))
	assert.Equal(t, time.UTC, got[0].Location())
}
