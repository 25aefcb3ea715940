package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecorbel/sedump/internal/entity"
	"github.com/ecorbel/sedump/internal/platform/sqlite"
	"github.com/ecorbel/sedump/internal/store"
)

var dumpFiles = map[string]string{
	"Badges.xml": `<badges>
  <row Id="1" UserId="2" Name="Autobiographer" Date="2010-07-20T19:26:27.327" Class="3" TagBased="False" />
</badges>`,
	"Comments.xml": `<comments>
  <row Id="1" PostId="1" Score="4" Text="nice" CreationDate="2010-07-20T19:45:42.193" UserId="2" />
</comments>`,
	"PostHistory.xml": `<posthistory>
  <row Id="1" PostHistoryTypeId="2" PostId="1" RevisionGUID="f2a7e4fa-8945-4a44-ba91-3f4e84768333" CreationDate="2010-07-19T19:12:12.510" UserId="2" Text="body" />
</posthistory>`,
	"PostLinks.xml": `<postlinks>
  <row Id="19" CreationDate="2010-04-26T02:59:48.130" PostId="109" RelatedPostId="32412" LinkTypeId="1" />
</postlinks>`,
	"Posts.xml": `<posts>
  <row Id="1" PostTypeId="1" CreationDate="2010-07-19T19:12:12.510" Score="27" ViewCount="5907" Body="question" OwnerUserId="8" LastActivityDate="2010-09-15T21:08:26.077" Title="t" Tags="&lt;forecasting&gt;" AnswerCount="5" CommentCount="1" />
</posts>`,
	"Tags.xml": `<tags>
  <row Id="1" TagName="forecasting" Count="79" />
</tags>`,
	"Users.xml": `<users>
  <row Id="2" Reputation="101" CreationDate="2010-07-19T14:01:36.697" DisplayName="Geoff" LastAccessDate="2010-08-01T00:00:00.000" Views="25" UpVotes="3" DownVotes="0" />
</users>`,
	"Votes.xml": `<votes>
  <row Id="1" PostId="1" VoteTypeId="2" CreationDate="2010-07-19T00:00:00.000" />
</votes>`,
}

func writeDump(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "acme.stackexchange.com")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range dumpFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestWriter(t *testing.T) *store.Writer {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return store.NewWriter(db.DB)
}

func TestParseStage(t *testing.T) {
	dir := writeDump(t)
	w := newTestWriter(t)
	ctx := context.Background()

	var names []string
	var percents []int
	stage := ParseStage(w)
	err := stage(ctx, "acme", dir, func(entity string, percent int) {
		names = append(names, entity)
		percents = append(percents, percent)
	})
	if err != nil {
		t.Fatalf("parse stage: %v", err)
	}

	wantNames := []string{"Badge", "Comment", "PostHistory", "PostLink", "Post", "Tag", "User", "Vote"}
	wantPercents := []int{10, 20, 30, 40, 70, 80, 90, 100}
	if len(names) != len(wantNames) {
		t.Fatalf("progress names = %v", names)
	}
	for i := range wantNames {
		if names[i] != wantNames[i] || percents[i] != wantPercents[i] {
			t.Errorf("progress %d = %s/%d, want %s/%d",
				i, names[i], percents[i], wantNames[i], wantPercents[i])
		}
	}

	for _, kind := range entity.Kinds() {
		exists, err := w.TableExists(ctx, entity.TableName("acme", kind.Name))
		if err != nil {
			t.Fatal(err)
		}
		if !exists {
			t.Errorf("table for %s missing", kind.Name)
		}
	}
}

func TestParseStage_Idempotent(t *testing.T) {
	dir := writeDump(t)
	w := newTestWriter(t)
	ctx := context.Background()

	stage := ParseStage(w)
	if err := stage(ctx, "acme", dir, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// With every table present the files are never reopened; delete them to
	// prove the second run is satisfied by the tables alone.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := stage(ctx, "acme", dir, nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestParseStage_MissingFileFails(t *testing.T) {
	dir := writeDump(t)
	w := newTestWriter(t)

	if err := os.Remove(filepath.Join(dir, "Posts.xml")); err != nil {
		t.Fatal(err)
	}
	err := ParseStage(w)(context.Background(), "acme", dir, nil)
	if err == nil || !strings.Contains(err.Error(), "Posts.xml") {
		t.Errorf("err = %v, want missing Posts.xml", err)
	}
}

func TestParseStage_Cancelled(t *testing.T) {
	dir := writeDump(t)
	w := newTestWriter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ParseStage(w)(ctx, "acme", dir, nil); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := writeDump(t)
	w := newTestWriter(t)
	ctx := context.Background()

	kind, ok := entity.KindForFile("Badges.xml")
	if !ok {
		t.Fatal("no kind for Badges.xml")
	}
	n, err := LoadFile(ctx, w, "acme_Badge", filepath.Join(dir, "Badges.xml"), kind)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if n != 1 {
		t.Errorf("loaded %d rows, want 1", n)
	}

	cols, rows, err := w.ReadTable(ctx, "acme_Badge")
	if err != nil {
		t.Fatal(err)
	}
	if cols[0] != "id" || len(rows) != 1 || rows[0][0].Int64() != 1 {
		t.Errorf("cols = %v rows = %v", cols, rows)
	}
}
