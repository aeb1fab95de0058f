package models

import "time"

// ItemRequest is a wish for an item that does not exist yet. Items created
// in answer to a request carry its id in Item.RequestID.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requesterId"`
	Created     time.Time `json:"created"`
}
