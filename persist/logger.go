package persist

import (
	"log"
	"os"
	"time"
)

// Logger wraps the standard library's log.Logger, writing to a file and
// bracketing its contents with STARTUP and SHUTDOWN lines so that a reader
// can tell which lines belong to which run of the program.
type Logger struct {
	*log.Logger
	f *os.File
}

// NewLogger opens (creating if necessary) the file at path for appending and
// returns a Logger that writes to it, having already written a STARTUP
// line.
func NewLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}
	l := &Logger{
		Logger: log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds),
		f:      f,
	}
	l.Println("STARTUP: logging has started at", time.Now().Format(time.RFC3339))
	return l, nil
}

// Close writes a SHUTDOWN line and closes the underlying file.
func (l *Logger) Close() error {
	l.Println("SHUTDOWN: logging has terminated at", time.Now().Format(time.RFC3339))
	return l.f.Close()
}
