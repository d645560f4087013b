// Package log is the diagnostic side channel of the save store.
//
// Messages go to Stdout and, after Init, to daily files:
//
//	${Dir}/log/YYYY-MM-DD.txt    everything logged with Logf
//	${Dir}/errors/YYYY-MM-DD.txt Errorf messages with callstack
//	${Dir}/ops/YYYY-MM-DD.txt    one siser frame per store operation
//
// Nothing here is authoritative: callers get errors from return values.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Bl4ck-orig/GenericBinarySaveSystem/siser"

	"github.com/toon-format/toon-go"
)

var (
	// if true, Verbosef() will log messages
	Verbose bool

	// where Logf() echoes messages. Set to io.Discard to silence the console
	Stdout io.Writer = os.Stdout

	logFile    *DailyFile
	errorsFile *DailyFile
	opsFile    *DailyFile
)

// DailyFile appends to ${Dir}/YYYY-MM-DD.txt (UTC day).
// A nil *DailyFile discards everything.
type DailyFile struct {
	Dir string

	mu  sync.Mutex
	day string
	f   *os.File
}

func (w *DailyFile) Write(d []byte) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	day := time.Now().UTC().Format("2006-01-02")
	if w.f != nil && w.day != day {
		w.f.Close()
		w.f = nil
	}
	if w.f == nil {
		if err := os.MkdirAll(w.Dir, 0755); err != nil {
			return err
		}
		path := filepath.Join(w.Dir, day+".txt")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		w.f = f
		w.day = day
	}
	_, err := w.f.Write(d)
	return err
}

// Close syncs and closes the current file. Write re-opens it
func (w *DailyFile) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Sync()
	if err2 := w.f.Close(); err == nil {
		err = err2
	}
	w.f = nil
	return err
}

type Config struct {
	// each kind of log has its own sub-directory
	Dir string
}

// Init enables logging to files in config.Dir.
// Without it, logging only goes to Stdout.
// Must be called before the store is used.
func Init(config *Config) {
	logFile = &DailyFile{Dir: filepath.Join(config.Dir, "log")}
	errorsFile = &DailyFile{Dir: filepath.Join(config.Dir, "errors")}
	opsFile = &DailyFile{Dir: filepath.Join(config.Dir, "ops")}
}

// Close closes the files opened since Init and goes back to Stdout only
func Close() {
	for _, w := range []**DailyFile{&logFile, &errorsFile, &opsFile} {
		(*w).Close()
		*w = nil
	}
}

func Logf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	fmt.Fprint(Stdout, s)
	logFile.Write([]byte(s))
}

func Verbosef(format string, args ...any) {
	if Verbose {
		Logf(format, args...)
	}
}

// callstack returns "file:line" of callers, one per line.
// skip 0 is the caller of callstack
func callstack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if frame.File != "" {
			sb.WriteString(frame.File + ":" + strconv.Itoa(frame.Line) + "\n")
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// Errorf logs a message followed by the callstack of the caller.
// It also goes to the errors file
func Errorf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	s = s + "\n" + callstack(1)
	Logf("%s", s)
	errorsFile.Write([]byte(s))
}

// Op describes a finished store operation
type Op struct {
	// "save", "load", "delete"
	Kind   string
	Record string
	// size of record file in bytes, 0 if not known
	Size     int
	Attempts int
	Dur      time.Duration
	// empty if the operation succeeded
	Err string
}

// EncodeOp serializes op as a siser frame named after op.Kind
// with toon-encoded fields
func EncodeOp(op *Op, t time.Time) []byte {
	m := map[string]any{
		"record":   op.Record,
		"attempts": op.Attempts,
		"durmicro": op.Dur.Microseconds(),
	}
	if op.Size > 0 {
		m["size"] = op.Size
	}
	if op.Err != "" {
		m["err"] = op.Err
	}
	d, err := toon.Marshal(m)
	if err != nil {
		// only simple values above so this shouldn't happen
		d = []byte(err.Error())
	}
	return siser.MarshalLine(op.Kind, t, d, nil)
}

// LogOp writes op to the ops file. A no-op if Init() wasn't called
func LogOp(op *Op) {
	if opsFile == nil {
		return
	}
	opsFile.Write(EncodeOp(op, time.Now().UTC()))
}
