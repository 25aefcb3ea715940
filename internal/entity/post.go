package entity

import (
	"fmt"
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

type PostType int64

const (
	PostQuestion            PostType = 1
	PostAnswer              PostType = 2
	PostWiki                PostType = 3
	PostTagWikiExcerpt      PostType = 4
	PostTagWiki             PostType = 5
	PostModeratorNomination PostType = 6
	PostWikiPlaceholder     PostType = 7
	PostPrivilegeWiki       PostType = 8
)

func (t PostType) Valid() bool {
	return t >= PostQuestion && t <= PostPrivilegeWiki
}

type Post struct {
	ID         int64
	PostTypeID PostType
	// Only present on answers.
	ParentID *int64
	// Only present on questions.
	AcceptedAnswerID *int64
	CreationDate     time.Time
	DeletionDate     *time.Time
	Score            int64
	ViewCount        *int64
	Body             string
	OwnerUserID      *int64
	// Populated when the owner was removed or posted anonymously.
	OwnerDisplayName      *string
	LastEditorUserID      *int64
	LastEditorDisplayName *string
	LastEditDate          *time.Time
	LastActivityDate      time.Time
	Title                 *string
	Tags                  *string
	AnswerCount           *int64
	CommentCount          int64
	FavoriteCount         *int64
	ClosedDate            *time.Time
	CommunityOwnedDate    *time.Time
}

func (p *Post) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		intField("@Id", p.ID),
		intField("@PostTypeId", int64(p.PostTypeID)),
		optIntField("@ParentId", p.ParentID),
		optIntField("@AcceptedAnswerId", p.AcceptedAnswerID),
		dateField("@CreationDate", p.CreationDate),
		optDateField("@DeletionDate", p.DeletionDate),
		intField("@Score", p.Score),
		optIntField("@ViewCount", p.ViewCount),
		textField("@Body", p.Body),
		optIntField("@OwnerUserId", p.OwnerUserID),
		optTextField("@OwnerDisplayName", p.OwnerDisplayName),
		optIntField("@LastEditorUserId", p.LastEditorUserID),
		optTextField("@LastEditorDisplayName", p.LastEditorDisplayName),
		optDateField("@LastEditDate", p.LastEditDate),
		dateField("@LastActivityDate", p.LastActivityDate),
		optTextField("@Title", p.Title),
		optTextField("@Tags", p.Tags),
		optIntField("@AnswerCount", p.AnswerCount),
		intField("@CommentCount", p.CommentCount),
		optIntField("@FavoriteCount", p.FavoriteCount),
		optDateField("@ClosedDate", p.ClosedDate),
		optDateField("@CommunityOwnedDate", p.CommunityOwnedDate),
	}
}

func decodePost(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	p := &Post{
		ID:                    d.int64("@Id"),
		PostTypeID:            PostType(d.int64("@PostTypeId")),
		ParentID:              d.optInt64("@ParentId"),
		AcceptedAnswerID:      d.optInt64("@AcceptedAnswerId"),
		CreationDate:          d.date("@CreationDate"),
		DeletionDate:          d.optDate("@DeletionDate"),
		Score:                 d.int64("@Score"),
		ViewCount:             d.optInt64("@ViewCount"),
		Body:                  d.str("@Body"),
		OwnerUserID:           d.optInt64("@OwnerUserId"),
		OwnerDisplayName:      d.optStr("@OwnerDisplayName"),
		LastEditorUserID:      d.optInt64("@LastEditorUserId"),
		LastEditorDisplayName: d.optStr("@LastEditorDisplayName"),
		LastEditDate:          d.optDate("@LastEditDate"),
		LastActivityDate:      d.date("@LastActivityDate"),
		Title:                 d.optStr("@Title"),
		Tags:                  d.optStr("@Tags"),
		AnswerCount:           d.optInt64("@AnswerCount"),
		CommentCount:          d.int64("@CommentCount"),
		FavoriteCount:         d.optInt64("@FavoriteCount"),
		ClosedDate:            d.optDate("@ClosedDate"),
		CommunityOwnedDate:    d.optDate("@CommunityOwnedDate"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	if !p.PostTypeID.Valid() {
		return nil, fmt.Errorf("attribute @PostTypeId: unknown post type %d", p.PostTypeID)
	}
	return p, nil
}
