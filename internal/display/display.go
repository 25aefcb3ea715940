// Package display renders pipeline snapshots as terminal progress bars. It
// only reads snapshots; the pipeline never waits on it.
package display

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"github.com/ecorbel/sedump/internal/pipeline"
)

// Source is the snapshot side of a pipeline runner.
type Source interface {
	Snapshot() []pipeline.Snapshot
}

// Run polls src until ctx is cancelled, drawing one bar per job. All bars
// track 0-100; byte counts are folded into a percentage.
func Run(ctx context.Context, out io.Writer, src Source, interval time.Duration) {
	snaps := src.Snapshot()
	if len(snaps) == 0 {
		return
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetNumTrackersExpected(len(snaps))
	pw.SetTrackerLength(40)
	pw.SetUpdateFrequency(interval)
	go pw.Render()
	defer pw.Stop()

	trackers := make([]*progress.Tracker, len(snaps))
	for i, s := range snaps {
		trackers[i] = &progress.Tracker{Message: s.Name + ": waiting", Total: 100}
		pw.AppendTracker(trackers[i])
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			apply(trackers, src.Snapshot())
			// One last frame so terminal states are visible.
			time.Sleep(interval)
			return
		case <-ticker.C:
			apply(trackers, src.Snapshot())
		}
	}
}

func apply(trackers []*progress.Tracker, snaps []pipeline.Snapshot) {
	for i, s := range snaps {
		if i >= len(trackers) {
			return
		}
		t := trackers[i]
		if t.IsDone() {
			continue
		}
		switch s.State.Kind {
		case pipeline.StateWait:
			t.UpdateMessage(s.Name + ": waiting")
		case pipeline.StateDownloading:
			pct := int64(0)
			if s.State.Total > 0 {
				pct = s.State.Done * 100 / s.State.Total
			}
			t.UpdateMessage(s.Name + ": downloading")
			t.SetValue(pct)
		case pipeline.StateUnzipping:
			t.UpdateMessage(s.Name + ": unzipping")
			t.SetValue(int64(s.State.Percent))
		case pipeline.StateParsing:
			t.UpdateMessage(fmt.Sprintf("%s: parsing %s", s.Name, s.State.Entity))
			t.SetValue(int64(s.State.Percent))
		case pipeline.StateDone:
			t.UpdateMessage(s.Name + ": done")
			t.SetValue(100)
			t.MarkAsDone()
		case pipeline.StateError:
			t.UpdateMessage(s.Name + ": " + s.State.Err)
			t.MarkAsErrored()
		}
	}
}
