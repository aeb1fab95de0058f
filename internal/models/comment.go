package models

import "time"

// Comment is a renter's note on an item after a completed approved
// booking. Comments are immutable and never deleted.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Created    time.Time
}

func (c Comment) View() CommentView {
	return CommentView{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.Created,
	}
}
