// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"testing"
	"time"

	"github.com/danielhkuo/boardtime/ledger"
	"github.com/danielhkuo/boardtime/meetings"
	"github.com/danielhkuo/boardtime/store"
	"github.com/danielhkuo/boardtime/tally"
	"github.com/danielhkuo/boardtime/testutil"
)

// testEnv wires the three handlers over one test database and a fake clock
type testEnv struct {
	store    *store.Store
	clock    *testutil.Clock
	pub      *testutil.RecordingPublisher
	meetings *MeetingHandler
	votes    *VoteHandler
	results  *ResultsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := testutil.NewTestStore(t)
	clock := testutil.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	pub := &testutil.RecordingPublisher{}
	cfg := testutil.GetTestConfig()

	svc := meetings.New(st, pub, meetings.WithClock(clock.Now), meetings.WithPasswordCost(cfg.PasswordCost))
	l := ledger.New(st, pub, ledger.WithClock(clock.Now), ledger.WithPasswordCost(cfg.PasswordCost))
	eng := tally.New(st)

	return &testEnv{
		store:    st,
		clock:    clock,
		pub:      pub,
		meetings: NewMeetingHandler(svc, cfg),
		votes:    NewVoteHandler(l, eng),
		results:  NewResultsHandler(eng),
	}
}

// seedMeeting creates a meeting closing a day after the fake clock with two date options
func (e *testEnv) seedMeeting(t *testing.T) (string, []string) {
	t.Helper()
	now := e.clock.Now()
	m, opts := testutil.CreateTestMeeting(t, e.store, now.Add(24*time.Hour),
		now.Add(72*time.Hour), now.Add(96*time.Hour))
	return m.ID, []string{opts[0].ID, opts[1].ID}
}
