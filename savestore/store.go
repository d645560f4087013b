package savestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Bl4ck-orig/GenericBinarySaveSystem/atomicfile"
	"github.com/Bl4ck-orig/GenericBinarySaveSystem/codec"
	"github.com/Bl4ck-orig/GenericBinarySaveSystem/log"
	"github.com/Bl4ck-orig/GenericBinarySaveSystem/u"
	"github.com/davecgh/go-spew/spew"
)

// Store keeps values of type T as records in Dir.
// Set the exported fields and call Open() before using it.
type Store[T any] struct {
	Dir string
	// extension of record files, defaults to DefaultExt
	Ext string
	// defaults to codec.JSON[T]{}
	Codec codec.Codec[T]
	// how many times to try to acquire a busy record, defaults to DefaultMaxAttempts
	MaxAttempts int
	// 0 means spin without sleeping
	RetryDelay time.Duration
	// what LoadAll does when a record fails to load
	Policy LoadAllPolicy
	// permissions of record files, defaults to atomicfile.DefaultPerm
	Perm os.FileMode
	// if set, failures are logged with it instead of package log
	Logf func(format string, args ...any)

	names Names
	guard *Guard
}

// Open validates s, fills in defaults and creates the directory
func Open[T any](s *Store[T]) error {
	if s.Dir == "" {
		return fmt.Errorf("storage directory is not set. For current directory, use '.'")
	}
	if s.Ext == "" {
		s.Ext = DefaultExt
	}
	if strings.ContainsAny(s.Ext, "/\\\x00") {
		return fmt.Errorf("invalid extension '%s'", s.Ext)
	}
	if s.Codec == nil {
		s.Codec = codec.JSON[T]{}
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = DefaultMaxAttempts
	}
	if s.Perm == 0 {
		s.Perm = atomicfile.DefaultPerm
	}

	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for '%s': %w", s.Dir, err)
	}
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	s.names = Names{Dir: dir, Ext: s.Ext}
	s.guard = &Guard{MaxAttempts: s.MaxAttempts, RetryDelay: s.RetryDelay}
	log.Verbosef("savestore: opened '%s', ext: '%s', codec: %T\n", dir, s.Ext, s.Codec)
	return nil
}

// New is a shortcut for creating and opening a store with a given codec
func New[T any](dir string, c codec.Codec[T]) (*Store[T], error) {
	s := &Store[T]{
		Dir:   dir,
		Codec: c,
	}
	if err := Open(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store[T]) mustBeOpen() {
	if s.guard == nil {
		panic("savestore: Store used before Open()")
	}
}

// Path returns the path of the file for record name
func (s *Store[T]) Path(name string) string {
	s.mustBeOpen()
	return s.names.ToPath(name)
}

func (s *Store[T]) fail(op string, name string, kind error, err error, attempts int) error {
	e := &Error{
		Op:       op,
		Name:     name,
		Kind:     kind,
		Err:      err,
		Attempts: attempts,
	}
	switch {
	case s.Logf != nil:
		s.Logf("savestore: %s\n", e)
	case kind == ErrIO || kind == ErrEncodeFailed || kind == ErrCorruptRecord:
		log.Errorf("savestore: %s", e)
	default:
		log.Logf("savestore: %s\n", e)
	}
	log.LogOp(&log.Op{Kind: op, Record: name, Attempts: attempts, Err: kind.Error()})
	return e
}

func (s *Store[T]) checkName(op string, name string) error {
	s.mustBeOpen()
	if err := s.validName(name); err != nil {
		return s.fail(op, name, ErrInvalidName, err, 0)
	}
	return nil
}

// most file systems limit a file name to 255 bytes
const maxFileNameLen = 255

func (s *Store[T]) validName(name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if n := len(name) + len(s.Ext); n > maxFileNameLen {
		return fmt.Errorf("name is %d bytes, file name would be %d bytes, max is %d", len(name), n, maxFileNameLen)
	}
	return nil
}

func notExist(path string) error {
	return &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func valueToStr(v any) string {
	return spew.Sprintf("%+v", v)
}

// Save serializes v and writes it as record name, replacing existing record
func (s *Store[T]) Save(name string, v T) error {
	const op = "save"
	if err := s.checkName(op, name); err != nil {
		return err
	}
	if log.Verbose {
		log.Verbosef("savestore: saving '%s': %s\n", name, valueToStr(v))
	}
	timeStart := time.Now()
	attempts, ok := s.guard.TryAcquire(name)
	if !ok {
		return s.fail(op, name, ErrAcquireTimeout, nil, attempts)
	}
	defer s.guard.Release(name)

	d, err := s.Codec.Encode(v)
	if err != nil {
		return s.fail(op, name, ErrEncodeFailed, err, attempts)
	}
	path := s.names.ToPath(name)
	err = atomicfile.WriteFile(path, d, s.Perm)
	if err != nil {
		return s.fail(op, name, ErrIO, err, attempts)
	}
	log.LogOp(&log.Op{Kind: op, Record: name, Size: len(d), Attempts: attempts, Dur: time.Since(timeStart)})
	return nil
}

// Load reads and decodes record name.
// Checking that the record exists happens before taking the guard.
func (s *Store[T]) Load(name string) (T, error) {
	const op = "load"
	var zero T
	if err := s.checkName(op, name); err != nil {
		return zero, err
	}
	path := s.names.ToPath(name)
	if !u.FileExists(path) {
		return zero, s.fail(op, name, ErrNotFound, notExist(path), 0)
	}

	timeStart := time.Now()
	attempts, ok := s.guard.TryAcquire(name)
	if !ok {
		return zero, s.fail(op, name, ErrAcquireTimeout, nil, attempts)
	}
	defer s.guard.Release(name)

	d, err := os.ReadFile(path)
	if err != nil {
		// deleted between the check and acquiring the guard
		if errors.Is(err, fs.ErrNotExist) {
			return zero, s.fail(op, name, ErrNotFound, err, attempts)
		}
		return zero, s.fail(op, name, ErrIO, err, attempts)
	}
	v, err := s.Codec.Decode(d)
	if err != nil {
		return zero, s.fail(op, name, ErrCorruptRecord, err, attempts)
	}
	if log.Verbose {
		log.Verbosef("savestore: loaded '%s': %s\n", name, valueToStr(v))
	}
	log.LogOp(&log.Op{Kind: op, Record: name, Size: len(d), Attempts: attempts, Dur: time.Since(timeStart)})
	return v, nil
}

// Delete removes record name
func (s *Store[T]) Delete(name string) error {
	const op = "delete"
	if err := s.checkName(op, name); err != nil {
		return err
	}
	timeStart := time.Now()
	attempts, ok := s.guard.TryAcquire(name)
	if !ok {
		return s.fail(op, name, ErrAcquireTimeout, nil, attempts)
	}
	defer s.guard.Release(name)

	path := s.names.ToPath(name)
	// don't remove a directory that happens to be named like a record
	if !u.FileExists(path) {
		return s.fail(op, name, ErrNotFound, notExist(path), attempts)
	}
	err := os.Remove(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.fail(op, name, ErrNotFound, err, attempts)
		}
		return s.fail(op, name, ErrIO, err, attempts)
	}
	log.Verbosef("savestore: deleted '%s'\n", name)
	log.LogOp(&log.Op{Kind: op, Record: name, Attempts: attempts, Dur: time.Since(timeStart)})
	return nil
}

// Exists returns true if record name is present. Doesn't take the guard.
// Invalid names don't exist.
func (s *Store[T]) Exists(name string) bool {
	s.mustBeOpen()
	if s.validName(name) != nil {
		return false
	}
	return u.FileExists(s.names.ToPath(name))
}
