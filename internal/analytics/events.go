// Package analytics defines the query events published to Kafka while a
// run answers its query file.
package analytics

import "time"

// EventType classifies a query event.
type EventType string

const (
	EventAnswered EventType = "answered"
	EventFailed   EventType = "failed"
)

// QueryEvent describes one processed query line.
type QueryEvent struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Line      int       `json:"line"`
	Query     string    `json:"query"`
	QueryType string    `json:"query_type,omitempty"`
	Terms     []string  `json:"terms,omitempty"`
	Answer    string    `json:"answer,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	CacheHit  bool      `json:"cache_hit"`
	LatencyUs int64     `json:"latency_us"`
	Timestamp time.Time `json:"timestamp"`
}
