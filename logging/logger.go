package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logrus instance.
var Logger = logrus.New()
var once sync.Once

// CustomFormatter writes one line per entry:
// Date, Time, Event Source, Event Type, Event ID, Message and caller location.
type CustomFormatter struct {
	SystemName string
	Location   *time.Location
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	localTime := entry.Time.In(loc)

	fmt.Fprintf(b, "Date: %s, Time: %s, ", localTime.Format("2006-01-02"), localTime.Format("15:04:05"))
	fmt.Fprintf(b, "Event Source: %s, ", f.SystemName)
	fmt.Fprintf(b, "Event Type: %s, ", strings.ToUpper(entry.Level.String()))
	fmt.Fprintf(b, "Event ID: %s, ", uuid.New().String())
	fmt.Fprintf(b, "Message: %s", entry.Message)

	for k, v := range entry.Data {
		fmt.Fprintf(b, ", %s=%v", k, v)
	}

	if entry.HasCaller() {
		fmt.Fprintf(b, ", Location: %s:%d in %s", filepath.Base(entry.Caller.File), entry.Caller.Line, entry.Caller.Function)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

type Options struct {
	SystemName string
	File       string
	Level      string
	Stdout     bool
}

// InitLogger configures the global logger once. The log file is rotated by
// lumberjack; its directory is created if missing.
func InitLogger(opts Options) {
	once.Do(func() {
		var writers []io.Writer

		if opts.File != "" {
			if dir := filepath.Dir(opts.File); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					logrus.Fatalf("Event ID: LOG_DIR_CREATE_FAILED, Description: Failed to create log directory: %v", err)
				}
			}
			writers = append(writers, &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
		if opts.Stdout || len(writers) == 0 {
			writers = append(writers, os.Stdout)
		}
		Logger.SetOutput(io.MultiWriter(writers...))

		Logger.SetFormatter(&CustomFormatter{SystemName: opts.SystemName})

		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)
		Logger.SetReportCaller(true)

		Logger.Infof("Event ID: LOGGER_INITIALIZED, Description: Logger initialized for %s, output to: %s", opts.SystemName, opts.File)
	})
}
