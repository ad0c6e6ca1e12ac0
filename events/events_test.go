// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: "meeting.created"}))
}

func TestEvent_JSON(t *testing.T) {
	e := Event{
		Type:       "vote.submitted",
		MeetingID:  "m1",
		OccurredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "vote.submitted", got["type"])
	assert.Equal(t, "m1", got["meetingId"])
	assert.Equal(t, "2026-03-01T09:00:00Z", got["occurredAt"])
	assert.NotContains(t, got, "participantId")
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "boardtime.events", func(error) {})
	require.NotNil(t, p.writer)
	assert.Equal(t, "boardtime.events", p.writer.Topic)
	assert.True(t, p.writer.Async)
	assert.NotNil(t, p.writer.Completion)
	assert.NoError(t, p.Close())
}
