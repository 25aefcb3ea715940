// Package pipeline runs one download/extract/parse sequence per source,
// several sources at a time.
package pipeline

import (
	"path/filepath"
	"strings"
	"sync"
)

type StateKind int

const (
	StateWait StateKind = iota
	StateDownloading
	StateUnzipping
	StateParsing
	StateDone
	StateError
)

// State is a job's current position in its pipeline. Done/Total are bytes
// and only meaningful while downloading; Percent drives the unzip and parse
// phases; Entity names the file currently parsing.
type State struct {
	Kind    StateKind
	Done    int64
	Total   int64
	Percent int
	Entity  string
	Err     string
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s.Kind == StateDone || s.Kind == StateError
}

// Job is the unit of work for one source. Only the stage currently running
// the job writes its state; everyone else reads snapshots.
type Job struct {
	Name        string
	URL         string
	ArchivePath string
	ExtractDir  string
	Site        string

	mu    sync.Mutex
	state State
}

// NewJob builds a job for an archive at archivePath. url may be empty for a
// pre-downloaded archive. The extraction directory is the archive path minus
// its extension, and the site name is that directory's base name.
func NewJob(name, url, archivePath string) *Job {
	dir := strings.TrimSuffix(archivePath, filepath.Ext(archivePath))
	return &Job{
		Name:        name,
		URL:         url,
		ArchivePath: archivePath,
		ExtractDir:  dir,
		Site:        filepath.Base(dir),
		state:       State{Kind: StateWait},
	}
}

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) setState(s State) {
	j.mu.Lock()
	// Done and Error are terminal; a late progress callback must not revive
	// the job.
	if !j.state.Terminal() {
		j.state = s
	}
	j.mu.Unlock()
}

// Snapshot is one job's name and state at a point in time.
type Snapshot struct {
	Name  string
	State State
}
