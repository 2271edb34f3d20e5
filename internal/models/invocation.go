package models

import "time"

// Invocation is a row of the invocations table.
type Invocation struct {
	ID        string    `json:"id"`         // ID is the invocation (event) identifier.
	CreatedAt time.Time `json:"created_at"` // CreatedAt is set by the database on insert.
}

// InvocationLog is the state kept in Redis about recent invocations.
type InvocationLog struct {
	Invocations        []string `json:"invocations"`        // Invocations holds the newest IDs first.
	LastInvocationID   string   `json:"lastInvocationId"`   // LastInvocationID is the ID of the latest invocation.
	LastInvocationTime string   `json:"lastInvocationTime"` // LastInvocationTime is an ISO-8601 UTC timestamp.
}
