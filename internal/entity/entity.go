// Package entity declares the record kinds found in a Stack Exchange site
// export and decodes them from raw attribute rows. Field declaration order in
// each type is load-bearing: it fixes the column order of the generated
// tables and the positional binding of every insert.
//
// Field inventory follows the published schema (https://meta.stackexchange.com/a/2678).
package entity

import (
	"fmt"

	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

// Kind ties one entity kind to its dump file and decoder. The Percent value
// is the cumulative parse progress once this kind has loaded; posts dominate
// dump size, hence the uneven steps.
type Kind struct {
	Name    string
	File    string
	Percent int
	Decode  func(xmlstream.Row) (sqlcodec.Record, error)
}

// Kinds returns the entity kinds in their fixed load order.
func Kinds() []Kind {
	return []Kind{
		{Name: "Badge", File: "Badges.xml", Percent: 10, Decode: decodeBadge},
		{Name: "Comment", File: "Comments.xml", Percent: 20, Decode: decodeComment},
		{Name: "PostHistory", File: "PostHistory.xml", Percent: 30, Decode: decodePostHistory},
		{Name: "PostLink", File: "PostLinks.xml", Percent: 40, Decode: decodePostLink},
		{Name: "Post", File: "Posts.xml", Percent: 70, Decode: decodePost},
		{Name: "Tag", File: "Tags.xml", Percent: 80, Decode: decodeTag},
		{Name: "User", File: "Users.xml", Percent: 90, Decode: decodeUser},
		{Name: "Vote", File: "Votes.xml", Percent: 100, Decode: decodeVote},
	}
}

// KindForFile looks a kind up by its dump file name ("Posts.xml").
func KindForFile(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.File == name {
			return k, true
		}
	}
	return Kind{}, false
}

// TableName is the physical table for one kind of one site, e.g. "acme_Post".
func TableName(site, kind string) string {
	return fmt.Sprintf("%s_%s", site, kind)
}
