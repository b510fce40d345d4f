package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"rlsboot/internal/paths"
)

// Printer is the logging surface the core packages accept. *log.Logger
// satisfies it.
type Printer interface {
	Printf(format string, v ...any)
}

// New opens <project>/.rlsboot/logs/<timestamp>.log for one invocation. The
// returned closer should be closed when logging is no longer needed.
func New(p paths.ProjectPaths) (*log.Logger, io.Closer, error) {
	if err := p.EnsureMetaDirs(); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	file, err := os.OpenFile(filepath.Join(p.LogsDir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, "rlsboot ", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	return logger, file, nil
}

// Discard returns a logger that drops everything. Commands fall back to it
// when the project directory is not writable.
func Discard() (*log.Logger, io.Closer) {
	return log.New(io.Discard, "", 0), io.NopCloser(nil)
}

// Attempt tags every line written through next with a fresh attempt ID, so
// the lines of one bootstrap run can be told apart in a shared log file.
func Attempt(next Printer) (Printer, string) {
	id := uuid.NewString()
	return WithAttempt(next, id), id
}

// WithAttempt prefixes every line written through next with "[id] ".
func WithAttempt(next Printer, id string) Printer {
	return attemptPrinter{id: id, next: next}
}

type attemptPrinter struct {
	id   string
	next Printer
}

func (p attemptPrinter) Printf(format string, v ...any) {
	p.next.Printf("[%s] "+format, append([]any{p.id}, v...)...)
}
