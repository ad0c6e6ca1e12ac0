// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events publishes domain events after writes commit.

	meeting.created   Create succeeded
	meeting.updated   Update succeeded
	vote.submitted    SubmitVote succeeded (new or replaced)

KafkaPublisher sends JSON messages keyed by meeting id through an async
kafka-go writer. NopPublisher is used when KAFKA_BROKERS is empty.
Publishing never fails the request that caused it; callers log the error.
*/
package events
