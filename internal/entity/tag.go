package entity

import (
	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

type Tag struct {
	ID      int64
	TagName string
	Count   int64
	// Set once an excerpt or wiki post exists for the tag.
	ExcerptPostID *int64
	WikiPostID    *int64
}

func (t *Tag) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		intField("@Id", t.ID),
		textField("@TagName", t.TagName),
		intField("@Count", t.Count),
		optIntField("@ExcerptPostId", t.ExcerptPostID),
		optIntField("@WikiPostId", t.WikiPostID),
	}
}

func decodeTag(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	t := &Tag{
		ID:            d.int64("@Id"),
		TagName:       d.str("@TagName"),
		Count:         d.int64("@Count"),
		ExcerptPostID: d.optInt64("@ExcerptPostId"),
		WikiPostID:    d.optInt64("@WikiPostId"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
