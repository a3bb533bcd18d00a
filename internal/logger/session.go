package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog"
)

// SessionLogger tees structured logs to the console and to a per-run log file
// under logs/<name>_<interval>_<date>.log. The file is framed by session
// header and footer blocks so consecutive runs on one day stay readable.
type SessionLogger struct {
	name     string
	interval string
	path     string
	file     *os.File
	mu       sync.Mutex
	log      zerolog.Logger
}

// NewSessionLogger opens (or appends to) the session log file in dir
func NewSessionLogger(dir, name, interval string, cfg Config, console io.Writer) (*SessionLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s_%s.log", sanitize(name), interval, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	s := &SessionLogger{
		name:     name,
		interval: interval,
		path:     path,
		file:     file,
	}

	writers := []io.Writer{s.lockedFile()}
	if console != nil {
		writers = append(writers, consoleWriter(cfg, console))
	}
	s.log = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("session", name).
		Logger()

	s.writeBlock("ALLOCATOR SESSION STARTED",
		fmt.Sprintf("Strategy: %s | Interval: %s", name, interval),
		fmt.Sprintf("Started: %s", time.Now().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Log File: %s", filename),
	)

	return s, nil
}

// Logger returns the structured logger of the session
func (s *SessionLogger) Logger() zerolog.Logger {
	return s.log
}

// LogAllocation writes a framed allocation entry to the session file and a
// structured event to both outputs
func (s *SessionLogger) LogAllocation(bar time.Time, outcome string, allocation types.Allocation, reason string) {
	lines := []string{
		fmt.Sprintf("Bar: %s | Outcome: %s", bar.Format("2006-01-02"), outcome),
	}
	if allocation.IsEmpty() {
		lines = append(lines, "No trade: keep previous positions")
	}
	for _, symbol := range allocation.Symbols() {
		lines = append(lines, fmt.Sprintf("%-8s %6.2f%%", symbol, allocation[symbol]*100))
	}
	lines = append(lines, "Reason: "+reason)
	s.writeBlock("ALLOCATION", lines...)

	event := s.log.Info().Time("bar", bar).Str("outcome", outcome)
	for _, symbol := range allocation.Symbols() {
		event = event.Float64(symbol, allocation[symbol])
	}
	event.Msg(reason)
}

// Close writes the session footer and closes the log file
func (s *SessionLogger) Close() error {
	if s.file == nil {
		return nil
	}
	s.writeBlock("ALLOCATOR SESSION ENDED",
		fmt.Sprintf("Ended: %s", time.Now().Format("2006-01-02 15:04:05")),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.file.Close()
	s.file = nil
	return err
}

// GetLogPath returns the current log file path
func (s *SessionLogger) GetLogPath() string {
	return s.path
}

func (s *SessionLogger) writeBlock(title string, lines ...string) {
	rule := strings.Repeat("=", 80)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n%s\n%s\n", rule, title, rule)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(rule)
	b.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		_, _ = s.file.WriteString(b.String())
	}
}

func (s *SessionLogger) lockedFile() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.file == nil {
			return len(p), nil
		}
		return s.file.Write(p)
	})
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// sanitize keeps file names portable
func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "-", " ", "_", "[", "", "]", "", "(", "", ")", "")
	return replacer.Replace(name)
}

