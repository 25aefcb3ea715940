package entity

import (
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

type User struct {
	ID              int64
	Reputation      int64
	CreationDate    time.Time
	DisplayName     string
	EmailHash       *string
	ProfileImageURL *string
	LastAccessDate  time.Time
	WebsiteURL      *string
	Location        *string
	Age             *int64
	AboutMe         *string
	Views           int64
	UpVotes         int64
	DownVotes       int64
	AccountID       *int64
}

func (u *User) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		intField("@Id", u.ID),
		intField("@Reputation", u.Reputation),
		dateField("@CreationDate", u.CreationDate),
		textField("@DisplayName", u.DisplayName),
		optTextField("@EmailHash", u.EmailHash),
		optTextField("@ProfileImageUrl", u.ProfileImageURL),
		dateField("@LastAccessDate", u.LastAccessDate),
		optTextField("@WebsiteUrl", u.WebsiteURL),
		optTextField("@Location", u.Location),
		optIntField("@Age", u.Age),
		optTextField("@AboutMe", u.AboutMe),
		intField("@Views", u.Views),
		intField("@UpVotes", u.UpVotes),
		intField("@DownVotes", u.DownVotes),
		optIntField("@AccountId", u.AccountID),
	}
}

func decodeUser(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	u := &User{
		ID:              d.int64("@Id"),
		Reputation:      d.int64("@Reputation"),
		CreationDate:    d.date("@CreationDate"),
		DisplayName:     d.str("@DisplayName"),
		EmailHash:       d.optStr("@EmailHash"),
		ProfileImageURL: d.optStr("@ProfileImageUrl"),
		LastAccessDate:  d.date("@LastAccessDate"),
		WebsiteURL:      d.optStr("@WebsiteUrl"),
		Location:        d.optStr("@Location"),
		Age:             d.optInt64("@Age"),
		AboutMe:         d.optStr("@AboutMe"),
		Views:           d.int64("@Views"),
		UpVotes:         d.int64("@UpVotes"),
		DownVotes:       d.int64("@DownVotes"),
		AccountID:       d.optInt64("@AccountId"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return u, nil
}
