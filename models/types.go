package models

import "time"

// Event types published after a successful write
const (
	EventMeetingCreated = "meeting.created"
	EventMeetingUpdated = "meeting.updated"
	EventVoteSubmitted  = "vote.submitted"
)

// Request types

type CreateMeetingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Password    string   `json:"password"`
	Deadline    string   `json:"deadline"`
	DateOptions []string `json:"dateOptions"`
}

// Nil fields are left unchanged. A nil DateOptions keeps the current set.
type UpdateMeetingRequest struct {
	Password    string   `json:"password"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Deadline    *string  `json:"deadline,omitempty"`
	DateOptions []string `json:"dateOptions,omitempty"`
}

type AuthRequest struct {
	Password string `json:"password"`
}

type SubmitVoteRequest struct {
	Nickname      string   `json:"nickname"`
	Password      string   `json:"password"`
	DateOptionIDs []string `json:"dateOptionIds"`
}

// Response types

type CreateMeetingResponse struct {
	MeetingID string `json:"meetingId"`
}

type AuthResponse struct {
	MeetingID string `json:"meetingId"`
	Message   string `json:"message"`
}

type SubmitVoteResponse struct {
	ParticipantID string   `json:"participantId"`
	DateOptionIDs []string `json:"dateOptionIds"`
	Message       string   `json:"message"`
}

// MeetingResponse is the shape returned by GET and PUT /api/meetings/{id}
type MeetingResponse struct {
	ID           string            `json:"_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Deadline     time.Time         `json:"deadline"`
	IsExpired    bool              `json:"isExpired"`
	DateOptions  []DateOptionView  `json:"dateOptions"`
	Participants []ParticipantView `json:"participants"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type DateOptionView struct {
	ID    string    `json:"_id"`
	Date  time.Time `json:"date"`
	Votes []string  `json:"votes"` // participant ids
}

type ParticipantView struct {
	ID       string `json:"_id"`
	Nickname string `json:"nickname"`
}

type MeetingSummary struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// Domain types

type Meeting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Deadline     time.Time `json:"deadline"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsExpired reports whether voting is closed at now. A vote landing exactly
// on the deadline is still accepted.
func (m Meeting) IsExpired(now time.Time) bool {
	return now.After(m.Deadline)
}

type DateOption struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meeting_id"`
	Date      time.Time `json:"date"`
}

type Participant struct {
	ID           string    `json:"id"`
	MeetingID    string    `json:"meeting_id"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MeetingDetail is a meeting with everything the meeting page renders.
// Selections maps date option id -> participant ids in participant order.
type MeetingDetail struct {
	Meeting      Meeting
	DateOptions  []DateOption
	Participants []Participant
	Selections   map[string][]string
	IsExpired    bool
}

// VoteRecord is a participant's current selection after SubmitVote
type VoteRecord struct {
	ParticipantID string    `json:"participantId"`
	MeetingID     string    `json:"meetingId"`
	Nickname      string    `json:"nickname"`
	DateOptionIDs []string  `json:"dateOptionIds"`
	Replaced      bool      `json:"replaced"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Tally types

type OptionCount struct {
	OptionID string
	Date     time.Time
	Count    int
}

type Voter struct {
	ParticipantID string `json:"participantId"`
	Nickname      string `json:"nickname"`
}

type RankedOption struct {
	OptionID string    `json:"dateOptionId"`
	Date     time.Time `json:"date"`
	Votes    int       `json:"votes"`
	Rank     int       `json:"rank"` // 1-indexed, ties share a rank
}

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
