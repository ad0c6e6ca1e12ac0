// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/boardtime/auth"
	"github.com/danielhkuo/boardtime/events"
	"github.com/danielhkuo/boardtime/metrics"
	"github.com/danielhkuo/boardtime/models"
	"github.com/danielhkuo/boardtime/store"
	"github.com/danielhkuo/boardtime/telemetry"
)

const MaxNicknameLength = 50

// Ledger records participant votes. Each (meeting, nickname) pair holds at most
// one selection set, replaced wholesale on resubmission.
type Ledger struct {
	store        *store.Store
	publisher    events.Publisher
	now          func() time.Time
	passwordCost int
	locks        *keyLock
}

type Option func(*Ledger)

// WithClock overrides time.Now for deadline checks
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithPasswordCost sets the bcrypt cost for new participant passwords
func WithPasswordCost(cost int) Option {
	return func(l *Ledger) { l.passwordCost = cost }
}

func New(st *store.Store, pub events.Publisher, opts ...Option) *Ledger {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	l := &Ledger{
		store:     st,
		publisher: pub,
		now:       time.Now,
		locks:     newKeyLock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SubmitVote creates or replaces the selection set for (meetingID, nickname).
// An existing participant must present the password chosen on their first vote.
func (l *Ledger) SubmitVote(ctx context.Context, meetingID, nickname, password string, optionIDs []string) (models.VoteRecord, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ledger.SubmitVote",
		trace.WithAttributes(attribute.String("meeting.id", meetingID)))
	defer span.End()

	rec, err := l.submitVote(ctx, meetingID, nickname, password, optionIDs)
	if err != nil {
		metrics.VotesRejected.WithLabelValues(rejectReason(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.VoteRecord{}, err
	}

	kind := "new"
	if rec.Replaced {
		kind = "replaced"
	}
	metrics.VotesSubmitted.WithLabelValues(kind).Inc()
	span.SetAttributes(attribute.Bool("vote.replaced", rec.Replaced))

	l.publish(ctx, events.Event{
		Type:          models.EventVoteSubmitted,
		MeetingID:     rec.MeetingID,
		ParticipantID: rec.ParticipantID,
		DateOptionIDs: rec.DateOptionIDs,
		OccurredAt:    rec.SubmittedAt,
	})

	return rec, nil
}

func (l *Ledger) submitVote(ctx context.Context, meetingID, nickname, password string, optionIDs []string) (models.VoteRecord, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: nickname is required", models.ErrValidation)
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return models.VoteRecord{}, fmt.Errorf("%w: nickname must be at most %d characters", models.ErrValidation, MaxNicknameLength)
	}
	if password == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: password is required", models.ErrValidation)
	}

	ids := dedupe(optionIDs)
	if len(ids) == 0 {
		return models.VoteRecord{}, fmt.Errorf("%w: no date option selected", models.ErrInvalidOption)
	}

	unlock := l.locks.Lock(meetingID + "\x00" + nickname)
	defer unlock()

	rec, err := l.apply(ctx, meetingID, nickname, password, ids)
	if errors.Is(err, store.ErrDuplicate) {
		// Another process inserted the same nickname first; the retry takes the update path
		slog.Info("participant insert raced, retrying", "meeting_id", meetingID)
		rec, err = l.apply(ctx, meetingID, nickname, password, ids)
	}
	return rec, err
}

// apply runs one all-or-nothing attempt
func (l *Ledger) apply(ctx context.Context, meetingID, nickname, password string, ids []string) (models.VoteRecord, error) {
	var rec models.VoteRecord

	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		meeting, err := tx.GetMeeting(ctx, meetingID)
		if err != nil {
			return err
		}

		now := l.now().UTC()
		if meeting.IsExpired(now) {
			return models.ErrMeetingExpired
		}

		for _, id := range ids {
			ok, err := tx.OptionBelongs(ctx, meetingID, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", models.ErrInvalidOption, id)
			}
		}

		p, found, err := tx.FindParticipant(ctx, meetingID, nickname)
		if err != nil {
			return err
		}

		if found {
			if err := auth.CheckPassword(p.PasswordHash, password); err != nil {
				if errors.Is(err, auth.ErrWrongPassword) {
					return models.ErrPasswordMismatch
				}
				return err
			}
			if err := tx.TouchParticipant(ctx, p.ID, now); err != nil {
				return err
			}
		} else {
			hash, err := auth.HashPassword(password, l.passwordCost)
			if err != nil {
				return err
			}
			id, err := auth.GenerateID(12)
			if err != nil {
				return err
			}
			p = models.Participant{
				ID:           id,
				MeetingID:    meetingID,
				Nickname:     nickname,
				PasswordHash: hash,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.InsertParticipant(ctx, p); err != nil {
				return err
			}
		}

		if err := tx.ReplaceSelections(ctx, p.ID, ids); err != nil {
			return err
		}

		rec = models.VoteRecord{
			ParticipantID: p.ID,
			MeetingID:     meetingID,
			Nickname:      nickname,
			DateOptionIDs: ids,
			Replaced:      found,
			SubmittedAt:   now,
		}
		return nil
	})
	if err != nil {
		return models.VoteRecord{}, err
	}

	return rec, nil
}

func (l *Ledger) publish(ctx context.Context, e events.Event) {
	if err := l.publisher.Publish(ctx, e); err != nil {
		metrics.EventPublishFailures.WithLabelValues(e.Type).Inc()
		slog.Warn("failed to publish event", "type", e.Type, "meeting_id", e.MeetingID, "error", err)
	}
}

// dedupe drops blanks and repeats and returns the ids sorted
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, models.ErrMeetingNotFound):
		return "not_found"
	case errors.Is(err, models.ErrMeetingExpired):
		return "expired"
	case errors.Is(err, models.ErrPasswordMismatch):
		return "password_mismatch"
	case errors.Is(err, models.ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, models.ErrValidation):
		return "invalid_request"
	default:
		return "internal"
	}
}
