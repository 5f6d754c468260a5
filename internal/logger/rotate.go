package logger

import (
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const dayLayout = "2006-01-02"

// DailyFile is an append-only log file that is rotated whenever the local
// calendar day changes. Rotated files are renamed with a timestamp suffix and
// pruned once more than MaxBackups exist.
type DailyFile struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	day string
	now func() time.Time
}

// NewDailyFile opens (lazily) the log file at path.
func NewDailyFile(path string, maxBackups int) *DailyFile {
	return &DailyFile{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: maxBackups,
			LocalTime:  true,
		},
		now: time.Now,
	}
}

// Write implements io.Writer.
func (f *DailyFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	today := f.now().Format(dayLayout)
	switch {
	case f.day == "":
		f.day = today
		// A file left over from a previous day's run starts a new one.
		if info, err := os.Stat(f.out.Filename); err == nil && info.ModTime().Format(dayLayout) != today {
			if err := f.out.Rotate(); err != nil {
				return 0, err
			}
		}
	case f.day != today:
		f.day = today
		if err := f.out.Rotate(); err != nil {
			return 0, err
		}
	}

	return f.out.Write(p)
}

// Close closes the underlying file.
func (f *DailyFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Close()
}
