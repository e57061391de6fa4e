package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/nixlicense/internal/model"
	"github.com/ubuntu/decorate"
)

// Recorder collects the rows of a report run and saves them as one run.
// It satisfies the report writer interface so it can be attached as a
// sink next to the CSV writer.
type Recorder struct {
	db  *HistoryDB
	run Run

	pkgs []model.Pkg
}

// NewRecorder creates a Recorder for a run reading input and writing output.
// The run gets a fresh UUID and the current time as its start.
func NewRecorder(db *HistoryDB, input, output string) *Recorder {
	return &Recorder{
		db: db,
		run: Run{
			UUID:      uuid.NewString(),
			Input:     input,
			Output:    output,
			StartedAt: time.Now().UTC(),
		},
	}
}

// WriteHeader discards previously collected rows.
func (r *Recorder) WriteHeader() error {
	r.pkgs = r.pkgs[:0]
	return nil
}

// WriteRecord collects pkg.
func (r *Recorder) WriteRecord(pkg model.Pkg) error {
	r.pkgs = append(r.pkgs, pkg)
	return nil
}

// Flush is a no-op; rows are stored by Save.
func (r *Recorder) Flush() error {
	return nil
}

// UUID returns the identifier of the run being recorded.
func (r *Recorder) UUID() string {
	return r.run.UUID
}

// Save stores the collected rows together with the run counters.
func (r *Recorder) Save(ctx context.Context, lines, invalidLines, dropped int) (_ *Run, err error) {
	defer decorate.OnError(&err, "failed to record run %s", r.run.UUID)

	run := r.run
	run.Lines = lines
	run.InvalidLines = invalidLines
	run.Dropped = dropped

	if err = r.db.SaveRun(ctx, &run, r.pkgs); err != nil {
		return nil, err
	}
	return &run, nil
}
