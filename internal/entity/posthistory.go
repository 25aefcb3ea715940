package entity

import (
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

// PostHistory event types gain new values regularly, so the type id is kept
// as a plain integer instead of a closed enum.
type PostHistory struct {
	ID                int64
	PostHistoryTypeID int64
	PostID            int64
	// Edits recorded by a single action share one RevisionGUID.
	RevisionGUID    string
	CreationDate    time.Time
	UserID          *int64
	UserDisplayName *string
	Comment         *string
	Text            *string
}

func (p *PostHistory) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		intField("@Id", p.ID),
		intField("@PostHistoryTypeId", p.PostHistoryTypeID),
		intField("@PostId", p.PostID),
		textField("@RevisionGUID", p.RevisionGUID),
		dateField("@CreationDate", p.CreationDate),
		optIntField("@UserId", p.UserID),
		optTextField("@UserDisplayName", p.UserDisplayName),
		optTextField("@Comment", p.Comment),
		optTextField("@Text", p.Text),
	}
}

func decodePostHistory(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	p := &PostHistory{
		ID:                d.int64("@Id"),
		PostHistoryTypeID: d.int64("@PostHistoryTypeId"),
		PostID:            d.int64("@PostId"),
		RevisionGUID:      d.str("@RevisionGUID"),
		CreationDate:      d.date("@CreationDate"),
		UserID:            d.optInt64("@UserId"),
		UserDisplayName:   d.optStr("@UserDisplayName"),
		Comment:           d.optStr("@Comment"),
		Text:              d.optStr("@Text"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return p, nil
}
