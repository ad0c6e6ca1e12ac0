// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is a domain event emitted after a write commits
type Event struct {
	Type          string    `json:"type"`
	MeetingID     string    `json:"meetingId"`
	ParticipantID string    `json:"participantId,omitempty"`
	DateOptionIDs []string  `json:"dateOptionIds,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// KafkaPublisher writes events keyed by meeting id, so one meeting's events stay ordered
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns an asynchronous publisher. Delivery errors surface
// through the writer's completion callback rather than Publish.
func NewKafkaPublisher(brokers []string, topic string, onError func(error)) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	if onError != nil {
		w.Completion = func(_ []kafka.Message, err error) {
			if err != nil {
				onError(err)
			}
		}
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.MeetingID),
		Value: payload,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// Close flushes pending messages
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
