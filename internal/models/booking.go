package models

import (
	"fmt"
	"time"
)

// Status is the booking lifecycle state. A booking is created WAITING and
// is decided at most once, to APPROVED or REJECTED, by the item's owner.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// State is the listing filter applied relative to "now" at query time.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StateFuture   State = "FUTURE"
	StatePast     State = "PAST"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState validates a caller-supplied state filter. The error message
// is part of the external contract.
func ParseState(raw string) (State, error) {
	s := State(raw)
	switch s {
	case StateAll, StateCurrent, StateFuture, StatePast, StateWaiting, StateRejected:
		return s, nil
	}
	return "", fmt.Errorf("Unknown state: UNSUPPORTED_STATUS")
}

type Booking struct {
	ID         int64     `json:"id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ItemID     int64     `json:"-"`
	ItemName   string    `json:"-"`
	BookerID   int64     `json:"-"`
	BookerName string    `json:"-"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
