package entity

import (
	"fmt"
	"time"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

type VoteType int64

const (
	VoteAcceptedByOriginator VoteType = 1
	VoteUpMod                VoteType = 2
	VoteDownMod              VoteType = 3
	VoteOffensive            VoteType = 4
	VoteFavorite             VoteType = 5
	VoteClose                VoteType = 6
	VoteReopen               VoteType = 7
	VoteBountyStart          VoteType = 8
	VoteBountyClose          VoteType = 9
	VoteDeletion             VoteType = 10
	VoteUndeletion           VoteType = 11
	VoteSpam                 VoteType = 12
	VoteInformModerator      VoteType = 13
	VoteModeratorReview      VoteType = 15
	VoteApproveEditSugg      VoteType = 16
)

func (t VoteType) Valid() bool {
	return (t >= VoteAcceptedByOriginator && t <= VoteInformModerator) ||
		t == VoteModeratorReview || t == VoteApproveEditSugg
}

type Vote struct {
	// Kept as raw text; the id column is still declared INTEGER PRIMARY KEY
	// by the codec's id convention, and SQLite's affinity stores it as one.
	ID         string
	PostID     int64
	VoteTypeID VoteType
	// Only present for favorite votes.
	UserID *int64
	// Only present for bounty-close votes.
	BountyAmount *string
	CreationDate time.Time
}

func (v *Vote) Fields() []sqlcodec.Field {
	return []sqlcodec.Field{
		textField("@Id", v.ID),
		intField("@PostId", v.PostID),
		intField("@VoteTypeId", int64(v.VoteTypeID)),
		dateField("@CreationDate", v.CreationDate),
		optIntField("@UserId", v.UserID),
		optTextField("@BountyAmount", v.BountyAmount),
	}
}

func decodeVote(row xmlstream.Row) (sqlcodec.Record, error) {
	d := newRowDecoder(row)
	v := &Vote{
		ID:           d.str("@Id"),
		PostID:       d.int64("@PostId"),
		VoteTypeID:   VoteType(d.int64("@VoteTypeId")),
		CreationDate: d.date("@CreationDate"),
		UserID:       d.optInt64("@UserId"),
		BountyAmount: d.optStr("@BountyAmount"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	if !v.VoteTypeID.Valid() {
		return nil, fmt.Errorf("attribute @VoteTypeId: unknown vote type %d", v.VoteTypeID)
	}
	return v, nil
}
