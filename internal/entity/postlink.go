package entity

import (
	"fmt"
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

type LinkType int64

const (
	LinkLinked    LinkType = 1
	LinkDuplicate LinkType = 3
)

func (t LinkType) Valid() bool {
	return t == LinkLinked || t == LinkDuplicate
}

type PostLink struct {
	ID            int64
	CreationDate  time.Time
	PostID        int64
	RelatedPostID int64
	LinkTypeID    LinkType
}

func (p *PostLink) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		intField("@Id", p.ID),
		dateField("@CreationDate", p.CreationDate),
		intField("@PostId", p.PostID),
		intField("@RelatedPostId", p.RelatedPostID),
		intField("@LinkTypeId", int64(p.LinkTypeID)),
	}
}

func decodePostLink(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	p := &PostLink{
		ID:            d.int64("@Id"),
		CreationDate:  d.date("@CreationDate"),
		PostID:        d.int64("@PostId"),
		RelatedPostID: d.int64("@RelatedPostId"),
		LinkTypeID:    LinkType(d.int64("@LinkTypeId")),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	if !p.LinkTypeID.Valid() {
		return nil, fmt.Errorf("attribute @LinkTypeId: unknown link type %d", p.LinkTypeID)
	}
	return p, nil
}
