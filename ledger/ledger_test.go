// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/boardtime/models"
	"github.com/danielhkuo/boardtime/store"
	"github.com/danielhkuo/boardtime/testutil"
)

var (
	deadline = time.Date(2026, 6, 30, 18, 0, 0, 0, time.UTC)
	day1     = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	day2     = time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)
	day3     = time.Date(2026, 7, 3, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	st     *store.Store
	ledger *Ledger
	clock  *testutil.Clock
	pub    *testutil.RecordingPublisher
	meet   models.Meeting
	opts   []models.DateOption
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := testutil.NewTestStore(t)
	clock := testutil.NewClock(deadline.Add(-24 * time.Hour))
	pub := &testutil.RecordingPublisher{}
	m, opts := testutil.CreateTestMeeting(t, st, deadline, day1, day2, day3)
	return &fixture{
		st:     st,
		ledger: New(st, pub, WithClock(clock.Now), WithPasswordCost(bcrypt.MinCost)),
		clock:  clock,
		pub:    pub,
		meet:   m,
		opts:   opts,
	}
}

func (f *fixture) selections(t *testing.T, participantID string) []string {
	t.Helper()
	ids, err := f.st.ParticipantSelections(context.Background(), participantID)
	require.NoError(t, err)
	return ids
}

func TestSubmitVote_NewParticipant(t *testing.T) {
	f := newFixture(t)

	rec, err := f.ledger.SubmitVote(context.Background(), f.meet.ID, "  alice  ", "pw", []string{f.opts[0].ID, f.opts[1].ID})
	require.NoError(t, err)

	assert.False(t, rec.Replaced)
	assert.Equal(t, "alice", rec.Nickname)
	assert.NotEmpty(t, rec.ParticipantID)
	assert.ElementsMatch(t, []string{f.opts[0].ID, f.opts[1].ID}, rec.DateOptionIDs)
	assert.ElementsMatch(t, rec.DateOptionIDs, f.selections(t, rec.ParticipantID))
	assert.Equal(t, []string{models.EventVoteSubmitted}, f.pub.Types())
}

func TestSubmitVote_RevoteReplacesSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.ledger.SubmitVote(ctx, f.meet.ID, "alice", "pw", []string{f.opts[0].ID, f.opts[1].ID})
	require.NoError(t, err)

	second, err := f.ledger.SubmitVote(ctx, f.meet.ID, "alice", "pw", []string{f.opts[2].ID})
	require.NoError(t, err)

	assert.True(t, second.Replaced)
	assert.Equal(t, first.ParticipantID, second.ParticipantID)
	assert.Equal(t, []string{f.opts[2].ID}, f.selections(t, first.ParticipantID))

	participants, err := f.st.ListParticipants(ctx, f.meet.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 1)
}

func TestSubmitVote_WrongPasswordLeavesSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.ledger.SubmitVote(ctx, f.meet.ID, "alice", "pw", []string{f.opts[0].ID})
	require.NoError(t, err)

	_, err = f.ledger.SubmitVote(ctx, f.meet.ID, "alice", "not-pw", []string{f.opts[1].ID})
	assert.ErrorIs(t, err, models.ErrPasswordMismatch)
	assert.Equal(t, []string{f.opts[0].ID}, f.selections(t, first.ParticipantID))
	assert.Len(t, f.pub.Events(), 1)
}

func TestSubmitVote_Deadline(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"before deadline", deadline.Add(-time.Minute), nil},
		{"exactly at deadline", deadline, nil},
		{"one second after", deadline.Add(time.Second), models.ErrMeetingExpired},
		{"long after", deadline.Add(30 * 24 * time.Hour), models.ErrMeetingExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.clock.Set(tt.now)

			_, err := f.ledger.SubmitVote(context.Background(), f.meet.ID, "alice", "pw", []string{f.opts[0].ID})
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSubmitVote_Validation(t *testing.T) {
	f := newFixture(t)
	_, otherOpts := testutil.CreateTestMeeting(t, f.st, deadline, day1)

	long := ""
	for i := 0; i < MaxNicknameLength+1; i++ {
		long += "가"
	}

	tests := []struct {
		name      string
		meetingID string
		nickname  string
		password  string
		optionIDs []string
		wantErr   error
	}{
		{"empty nickname", f.meet.ID, "   ", "pw", []string{f.opts[0].ID}, models.ErrValidation},
		{"nickname too long", f.meet.ID, long, "pw", []string{f.opts[0].ID}, models.ErrValidation},
		{"empty password", f.meet.ID, "alice", "", []string{f.opts[0].ID}, models.ErrValidation},
		{"no options", f.meet.ID, "alice", "pw", nil, models.ErrInvalidOption},
		{"only blank options", f.meet.ID, "alice", "pw", []string{" ", ""}, models.ErrInvalidOption},
		{"unknown option", f.meet.ID, "alice", "pw", []string{"nope"}, models.ErrInvalidOption},
		{"option from other meeting", f.meet.ID, "alice", "pw", []string{f.opts[0].ID, otherOpts[0].ID}, models.ErrInvalidOption},
		{"unknown meeting", "missing", "alice", "pw", []string{f.opts[0].ID}, models.ErrMeetingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.SubmitVote(context.Background(), tt.meetingID, tt.nickname, tt.password, tt.optionIDs)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	participants, err := f.st.ListParticipants(context.Background(), f.meet.ID)
	require.NoError(t, err)
	assert.Empty(t, participants, "rejected votes must not create participants")
}

func TestSubmitVote_DuplicateOptionIDs(t *testing.T) {
	f := newFixture(t)

	rec, err := f.ledger.SubmitVote(context.Background(), f.meet.ID, "alice", "pw",
		[]string{f.opts[1].ID, f.opts[1].ID, f.opts[0].ID})
	require.NoError(t, err)
	assert.Len(t, rec.DateOptionIDs, 2)
}

func TestSubmitVote_NicknameScopedToMeeting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, otherOpts := testutil.CreateTestMeeting(t, f.st, deadline, day1)

	_, err := f.ledger.SubmitVote(ctx, f.meet.ID, "alice", "pw-one", []string{f.opts[0].ID})
	require.NoError(t, err)

	// Different password is fine in a different meeting
	rec, err := f.ledger.SubmitVote(ctx, other.ID, "alice", "pw-two", []string{otherOpts[0].ID})
	require.NoError(t, err)
	assert.False(t, rec.Replaced)
}

func TestSubmitVote_PublishFailureDoesNotFailVote(t *testing.T) {
	f := newFixture(t)
	f.pub.Err = errors.New("broker down")

	rec, err := f.ledger.SubmitVote(context.Background(), f.meet.ID, "alice", "pw", []string{f.opts[0].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{f.opts[0].ID}, f.selections(t, rec.ParticipantID))
}

func TestSubmitVote_ConcurrentRevotesNeverMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sets := [][]string{
		{f.opts[0].ID},
		{f.opts[1].ID, f.opts[2].ID},
		{f.opts[0].ID, f.opts[2].ID},
		{f.opts[1].ID},
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(set []string) {
			defer wg.Done()
			if _, err := f.ledger.SubmitVote(ctx, f.meet.ID, "alice", "pw", set); err != nil {
				errs <- err
			}
		}(sets[i%len(sets)])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent submit failed: %v", err)
	}

	participants, err := f.st.ListParticipants(ctx, f.meet.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1, "one identity must yield one participant")

	final := f.selections(t, participants[0].ID)
	matched := false
	for _, set := range sets {
		if assert.ObjectsAreEqual(dedupe(set), final) {
			matched = true
		}
	}
	assert.True(t, matched, "final selection %v is not one of the submitted sets", final)
	assert.Equal(t, 0, f.ledger.locks.size(), "lock table should drain")
}

func TestSubmitVote_ConcurrentDistinctNicknames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.ledger.SubmitVote(ctx, f.meet.ID, fmt.Sprintf("voter-%d", i), "pw", []string{f.opts[i%3].ID})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	counts, err := f.st.CountVotes(ctx, f.meet.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, counts[f.opts[0].ID]+counts[f.opts[1].ID]+counts[f.opts[2].ID])
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"b", "a", " b ", "", "a"}))
	assert.Empty(t, dedupe(nil))
}

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "expired", rejectReason(models.ErrMeetingExpired))
	assert.Equal(t, "invalid_option", rejectReason(fmt.Errorf("%w: x", models.ErrInvalidOption)))
	assert.Equal(t, "invalid_request", rejectReason(fmt.Errorf("%w: x", models.ErrValidation)))
	assert.Equal(t, "internal", rejectReason(errors.New("disk on fire")))
}
