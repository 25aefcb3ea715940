package entity

import (
	"fmt"
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

// BadgeClass is the badge tier. Stored as its integer discriminant.
type BadgeClass int64

const (
	BadgeGold   BadgeClass = 1
	BadgeSilver BadgeClass = 2
	BadgeBronze BadgeClass = 3
)

func (c BadgeClass) Valid() bool {
	return c >= BadgeGold && c <= BadgeBronze
}

type Badge struct {
	ID       int64
	UserID   int64
	Name     string
	Date     time.Time
	Class    BadgeClass
	TagBased bool // true if awarded for a tag
}

func (b *Badge) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		intField("@Id", b.ID),
		intField("@UserId", b.UserID),
		textField("@Name", b.Name),
		dateField("@Date", b.Date),
		intField("@Class", int64(b.Class)),
		boolField("@TagBased", b.TagBased),
	}
}

func decodeBadge(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	b := &Badge{
		ID:       d.int64("@Id"),
		UserID:   d.int64("@UserId"),
		Name:     d.str("@Name"),
		Date:     d.date("@Date"),
		Class:    BadgeClass(d.int64("@Class")),
		TagBased: d.boolean("@TagBased"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	if !b.Class.Valid() {
		return nil, fmt.Errorf("attribute @Class: unknown badge class %d", b.Class)
	}
	return b, nil
}
