package entity

import (
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

type Comment struct {
	ID           int64
	PostID       int64
	Score        int64
	Text         string
	CreationDate time.Time
	// Populated when the author was removed and is no longer referenced by id.
	UserDisplayName *string
	UserID          *int64
}

func (c *Comment) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		intField("@Id", c.ID),
		intField("@PostId", c.PostID),
		intField("@Score", c.Score),
		textField("@Text", c.Text),
		dateField("@CreationDate", c.CreationDate),
		optTextField("@UserDisplayName", c.UserDisplayName),
		optIntField("@UserId", c.UserID),
	}
}

func decodeComment(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	c := &Comment{
		ID:              d.int64("@Id"),
		PostID:          d.int64("@PostId"),
		Score:           d.int64("@Score"),
		Text:            d.str("@Text"),
		CreationDate:    d.date("@CreationDate"),
		UserDisplayName: d.optStr("@UserDisplayName"),
		UserID:          d.optInt64("@UserId"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
