package replay

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/lungecoach/internal/engine"
)

// Stats tracks replay progress across a directory of recordings.
type Stats struct {
	RecordingsTotal    int
	RecordingsReplayed int
	RecordingsSkipped  int
	RecordingsErrored  int

	FramesSent  int
	RepsCounted int
}

// Replayer walks a directory of .jsonl recordings and replays each one,
// either locally (dry-run) or into a fresh server session.
type Replayer struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	tuning engine.Tuning
	log    *slog.Logger
	stats  Stats
}

// New creates a new Replayer. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, tuning engine.Tuning, log *slog.Logger) *Replayer {
	return &Replayer{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		tuning: tuning,
		log:    log,
	}
}

// Run executes the replay pipeline over every recording in the directory.
func (r *Replayer) Run() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, "*.jsonl"))
	if err != nil {
		return &r.stats, fmt.Errorf("listing recordings: %w", err)
	}

	for _, path := range files {
		r.stats.RecordingsTotal++

		relPath, _ := filepath.Rel(r.dir, path)
		info, err := os.Stat(path)
		if err != nil {
			r.log.Warn("stat failed", "file", path, "error", err)
			r.stats.RecordingsErrored++
			continue
		}

		hash, err := HashFile(path)
		if err != nil {
			r.log.Warn("hash failed", "file", path, "error", err)
			r.stats.RecordingsErrored++
			continue
		}

		replayed, err := r.state.IsReplayed(relPath, info.Size(), hash)
		if err != nil {
			r.log.Warn("state check failed", "file", path, "error", err)
			r.stats.RecordingsErrored++
			continue
		}
		if replayed {
			r.stats.RecordingsSkipped++
			continue
		}

		frames, err := LoadRecording(path)
		if err != nil {
			r.log.Warn("load failed", "file", path, "error", err)
			r.stats.RecordingsErrored++
			continue
		}
		if len(frames) == 0 {
			r.stats.RecordingsSkipped++
			// Mark empty recordings so we don't re-check them
			_ = r.state.MarkReplayed(relPath, info.Size(), hash, "")
			continue
		}

		if r.dryRun {
			summary, err := Run(frames, r.tuning, r.log)
			if err != nil {
				return &r.stats, fmt.Errorf("replaying %s locally: %w", relPath, err)
			}
			r.log.Info("dry-run: replayed locally",
				"file", relPath,
				"frames", summary.Frames,
				"reps", len(summary.Reps),
			)
			r.stats.FramesSent += summary.Frames
			r.stats.RepsCounted += len(summary.Reps)
			r.stats.RecordingsReplayed++
			continue
		}

		if err := r.replayRemote(relPath, path, info.Size(), hash, frames); err != nil {
			return &r.stats, err
		}
	}

	return &r.stats, nil
}

// replayRemote streams one recording into a fresh server session.
func (r *Replayer) replayRemote(relPath, path string, size int64, hash string, frames []Frame) error {
	sessionID, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("starting session for %s: %w", relPath, err)
	}

	var reps int
	for _, f := range frames {
		ev, err := r.client.SendFrame(sessionID, f)
		if err != nil {
			return fmt.Errorf("sending frame for %s: %w", relPath, err)
		}
		r.stats.FramesSent++
		reps = ev.RepCount
	}

	row, err := r.client.FinishSession(sessionID)
	if err != nil {
		return fmt.Errorf("finishing session for %s: %w", relPath, err)
	}

	if err := r.state.MarkReplayed(relPath, size, hash, sessionID.String()); err != nil {
		r.log.Warn("failed to mark replayed", "file", relPath, "error", err)
	}
	r.stats.RepsCounted += reps
	r.stats.RecordingsReplayed++

	r.log.Info("replayed recording",
		"file", relPath,
		"session", sessionID,
		"frames", len(frames),
		"reps", row.RepCount,
	)
	return nil
}
