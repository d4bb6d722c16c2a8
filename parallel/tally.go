package parallel

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Tally counts the outcome of the jobs of one batch. It is safe for
// concurrent use.
type Tally struct {
	processed atomic.Uint64
	failed    atomic.Uint64
}

func (t *Tally) Done() {
	t.processed.Add(1)
}

// Fail counts a failed job and logs err on logger.
func (t *Tally) Fail(logger *slog.Logger, msg string, err error) {
	t.failed.Add(1)
	logger.Error(msg, "error", err)
}

func (t *Tally) Counts() (processed, failed uint64) {
	return t.processed.Load(), t.failed.Load()
}

// Report logs the final stats and returns an error when any job failed.
func (t *Tally) Report() error {
	processed, failed := t.Counts()
	slog.Info("stats", "processed", processed, "errors", failed,
		"total", processed+failed)

	if failed > 0 {
		return fmt.Errorf("error processing %d files", failed)
	}
	return nil
}
