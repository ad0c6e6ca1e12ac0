// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package meetings

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
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/boardtime/auth"
	"github.com/danielhkuo/boardtime/events"
	"github.com/danielhkuo/boardtime/metrics"
	"github.com/danielhkuo/boardtime/models"
	"github.com/danielhkuo/boardtime/store"
	"github.com/danielhkuo/boardtime/telemetry"
)

const (
	MaxTitleLength    = 200
	SearchResultLimit = 50
)

type CreateInput struct {
	Title       string
	Description string
	Password    string
	Deadline    time.Time
	DateOptions []time.Time
}

// UpdateInput fields left nil are unchanged. A non-nil DateOptions replaces
// the whole set: dates already present keep their id and votes, dropped
// dates are deleted along with the selections pointing at them.
type UpdateInput struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	DateOptions *[]time.Time
}

type Service struct {
	store        *store.Store
	publisher    events.Publisher
	now          func() time.Time
	passwordCost int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPasswordCost(cost int) Option {
	return func(s *Service) { s.passwordCost = cost }
}

func New(st *store.Store, pub events.Publisher, opts ...Option) *Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	s := &Service{
		store:     st,
		publisher: pub,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new meeting and returns its id
func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "meetings.Create")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return "", err
	}
	if in.Password == "" {
		return "", fmt.Errorf("%w: password is required", models.ErrValidation)
	}
	if in.Deadline.IsZero() {
		return "", fmt.Errorf("%w: deadline is required", models.ErrValidation)
	}

	now := s.now().UTC()
	deadline := normalize(in.Deadline)
	if !deadline.After(now) {
		return "", fmt.Errorf("%w: deadline must be in the future", models.ErrValidation)
	}

	dates := normalizeDates(in.DateOptions)
	if len(dates) == 0 {
		return "", models.ErrEmptyDateOptions
	}

	hash, err := auth.HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return "", err
	}

	m := models.Meeting{
		ID:           auth.NewMeetingID(),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		PasswordHash: hash,
		Deadline:     deadline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	opts, err := newOptions(m.ID, dates)
	if err != nil {
		return "", err
	}

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertMeeting(ctx, m); err != nil {
			return err
		}
		return tx.InsertDateOptions(ctx, opts)
	})
	if err != nil {
		return "", err
	}

	span.SetAttributes(attribute.String("meeting.id", m.ID), attribute.Int("meeting.date_options", len(opts)))
	metrics.MeetingsCreated.Inc()
	slog.Info("meeting created", "meeting_id", m.ID, "date_options", len(opts))

	s.publish(ctx, events.Event{Type: models.EventMeetingCreated, MeetingID: m.ID, OccurredAt: now})

	return m.ID, nil
}

// Get returns a meeting with its options, participants and selections.
// IsExpired is computed against the clock on every call.
func (s *Service) Get(ctx context.Context, id string) (models.MeetingDetail, error) {
	m, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return models.MeetingDetail{}, err
	}

	opts, err := s.store.ListDateOptions(ctx, id)
	if err != nil {
		return models.MeetingDetail{}, err
	}
	participants, err := s.store.ListParticipants(ctx, id)
	if err != nil {
		return models.MeetingDetail{}, err
	}
	selections, err := s.store.ListSelections(ctx, id)
	if err != nil {
		return models.MeetingDetail{}, err
	}

	return models.MeetingDetail{
		Meeting:      m,
		DateOptions:  opts,
		Participants: participants,
		Selections:   selections,
		IsExpired:    m.IsExpired(s.now().UTC()),
	}, nil
}

// Authenticate checks the meeting owner's password
func (s *Service) Authenticate(ctx context.Context, id, password string) error {
	m, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return err
	}
	return checkOwner(m, password)
}

// Update applies owner edits in one transaction and returns the updated meeting
func (s *Service) Update(ctx context.Context, id, password string, in UpdateInput) (models.MeetingDetail, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "meetings.Update",
		trace.WithAttributes(attribute.String("meeting.id", id)))
	defer span.End()

	now := s.now().UTC()
	var added, removed int

	err := s.store.WithTx(ctx, func(tx *store.Tx) error {
		m, err := tx.GetMeeting(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(m, password); err != nil {
			return err
		}

		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if err := validateTitle(title); err != nil {
				return err
			}
			m.Title = title
		}
		if in.Description != nil {
			m.Description = strings.TrimSpace(*in.Description)
		}
		if in.Deadline != nil {
			if in.Deadline.IsZero() {
				return fmt.Errorf("%w: deadline is required", models.ErrValidation)
			}
			// A past deadline is allowed: it closes voting early
			m.Deadline = normalize(*in.Deadline)
		}
		m.UpdatedAt = now

		if err := tx.UpdateMeeting(ctx, m); err != nil {
			return err
		}

		if in.DateOptions != nil {
			added, removed, err = replaceDates(ctx, tx, id, *in.DateOptions)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.MeetingDetail{}, err
	}

	metrics.MeetingsUpdated.Inc()
	slog.Info("meeting updated", "meeting_id", id, "options_added", added, "options_removed", removed)
	s.publish(ctx, events.Event{Type: models.EventMeetingUpdated, MeetingID: id, OccurredAt: now})

	return s.Get(ctx, id)
}

// SearchByTitle matches a case-insensitive title substring or an exact meeting id
func (s *Service) SearchByTitle(ctx context.Context, query string) ([]models.MeetingSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", models.ErrValidation)
	}

	found, err := s.store.SearchMeetings(ctx, query, SearchResultLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.MeetingSummary, 0, len(found))
	for _, m := range found {
		summaries = append(summaries, models.MeetingSummary{ID: m.ID, Title: m.Title})
	}
	return summaries, nil
}

// replaceDates diffs the stored options against dates by timestamp
func replaceDates(ctx context.Context, tx *store.Tx, meetingID string, dates []time.Time) (added, removed int, err error) {
	wanted := normalizeDates(dates)
	if len(wanted) == 0 {
		return 0, 0, models.ErrEmptyDateOptions
	}

	current, err := tx.ListDateOptions(ctx, meetingID)
	if err != nil {
		return 0, 0, err
	}

	keep := make(map[int64]bool, len(wanted))
	for _, d := range wanted {
		keep[d.Unix()] = true
	}

	existing := make(map[int64]bool, len(current))
	var drop []string
	for _, o := range current {
		existing[o.Date.Unix()] = true
		if !keep[o.Date.Unix()] {
			drop = append(drop, o.ID)
		}
	}

	var fresh []time.Time
	for _, d := range wanted {
		if !existing[d.Unix()] {
			fresh = append(fresh, d)
		}
	}

	if err := tx.DeleteDateOptions(ctx, drop); err != nil {
		return 0, 0, err
	}

	opts, err := newOptions(meetingID, fresh)
	if err != nil {
		return 0, 0, err
	}
	if err := tx.InsertDateOptions(ctx, opts); err != nil {
		return 0, 0, err
	}

	return len(opts), len(drop), nil
}

func newOptions(meetingID string, dates []time.Time) ([]models.DateOption, error) {
	opts := make([]models.DateOption, 0, len(dates))
	for _, d := range dates {
		id, err := auth.GenerateID(12)
		if err != nil {
			return nil, err
		}
		opts = append(opts, models.DateOption{ID: id, MeetingID: meetingID, Date: d})
	}
	return opts, nil
}

func checkOwner(m models.Meeting, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", models.ErrValidation)
	}
	if err := auth.CheckPassword(m.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			return models.ErrInvalidPassword
		}
		return err
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", models.ErrValidation, MaxTitleLength)
	}
	return nil
}

// normalize stores timestamps in UTC at second precision
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// normalizeDates drops zero values and duplicates and sorts ascending
func normalizeDates(dates []time.Time) []time.Time {
	seen := make(map[int64]bool, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		d = normalize(d)
		if seen[d.Unix()] {
			continue
		}
		seen[d.Unix()] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		metrics.EventPublishFailures.WithLabelValues(e.Type).Inc()
		slog.Warn("failed to publish event", "type", e.Type, "meeting_id", e.MeetingID, "error", err)
	}
}
