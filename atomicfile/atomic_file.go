package atomicfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	tmpPrefix = "."
	tmpInfix  = ".tmp-"
	// how much of the destination name goes into the temp name.
	// Keeps temp names short even when the destination name is close
	// to the file system limit
	tmpNameMaxLen = 32

	// DefaultPerm is the mode of files created by New and WriteFile
	DefaultPerm os.FileMode = 0644
)

var (
	// ErrCancelled is returned by calls subsequent to RemoveIfNotClosed()
	ErrCancelled = errors.New("cancelled")

	_ io.WriteCloser = &File{}
)

// File writes to a temporary file and renames it to the destination
// path on a successful Close()
type File struct {
	dstPath string
	dir     string
	perm    os.FileMode
	tmpFile *os.File
	// first error we encountered, sticky
	err error

	tmpPath string
}

// IsTempName returns true if fileName looks like a temporary file
// created by this package. It only looks at the base name.
func IsTempName(fileName string) bool {
	name := filepath.Base(fileName)
	return strings.HasPrefix(name, tmpPrefix) && strings.Contains(name, tmpInfix)
}

func tmpPattern(fName string) string {
	if len(fName) > tmpNameMaxLen {
		fName = fName[:tmpNameMaxLen]
	}
	return tmpPrefix + fName + tmpInfix + "*"
}

// New creates a File that will replace path with DefaultPerm
func New(path string) (*File, error) {
	return NewWithPerm(path, DefaultPerm)
}

// NewWithPerm creates a File that will replace path. The destination
// ends up with mode perm.
// The directory must exist: we fail early rather than after writing the data.
func NewWithPerm(path string, perm os.FileMode) (*File, error) {
	dir, fName := filepath.Split(path)
	if fName == "" {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp(dir, tmpPattern(fName))
	if err != nil {
		return nil, err
	}

	return &File{
		dstPath: path,
		dir:     dir,
		perm:    perm,
		tmpFile: tmpFile,
		tmpPath: tmpFile.Name(),
	}, nil
}

// WriteFile atomically replaces path with d
func WriteFile(path string, d []byte, perm os.FileMode) error {
	f, err := NewWithPerm(path, perm)
	if err != nil {
		return err
	}
	defer f.RemoveIfNotClosed()

	_, err = f.Write(d)
	if err != nil {
		return err
	}
	return f.Close()
}

func (f *File) handleError(err error) error {
	if err == nil {
		return nil
	}
	if f.err == nil {
		f.err = err
	}
	// deletes the temporary file
	_ = f.Close()
	return err
}

// Write writes data to the temporary file
func (f *File) Write(d []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmpFile.Write(d)
	return n, f.handleError(err)
}

// WriteString writes s to the temporary file
func (f *File) WriteString(s string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmpFile.WriteString(s)
	return n, f.handleError(err)
}

// Path returns the destination path
func (f *File) Path() string {
	return f.dstPath
}

func (f *File) alreadyClosed() bool {
	return f.tmpFile == nil
}

// RemoveIfNotClosed removes the temporary file if Close() wasn't called yet.
// The destination is not touched.
// Meant for defer, so that an early return or a panic doesn't leave
// a temporary file behind. After Close() it's a no-op.
func (f *File) RemoveIfNotClosed() {
	if f == nil || f.alreadyClosed() {
		return
	}
	f.err = ErrCancelled
	_ = f.Close()
}

// Close syncs and closes the temporary file and renames it to
// the destination. Calling it more than once returns the result
// of the first call.
func (f *File) Close() error {
	if f.alreadyClosed() {
		return f.err
	}
	tmpFile := f.tmpFile
	f.tmpFile = nil

	// https://www.joeshaw.org/dont-defer-close-on-writable-files/
	errSync := tmpFile.Sync()
	errClose := tmpFile.Close()

	didRename := false
	defer func() {
		if !didRename {
			_ = os.Remove(f.tmpPath)
		}
	}()

	if f.err != nil {
		return f.err
	}

	err := errSync
	if err == nil {
		err = errClose
	}
	if err == nil {
		// CreateTemp() uses 0600
		err = os.Chmod(f.tmpPath, f.perm)
	}
	if err == nil {
		// over-writes dstPath if it exists
		err = os.Rename(f.tmpPath, f.dstPath)
		didRename = err == nil
	}
	if didRename {
		// the rename is only durable once the directory is synced.
		// not all platforms support it so errors are ignored
		if fdir, _ := os.Open(f.dir); fdir != nil {
			_ = fdir.Sync()
			_ = fdir.Close()
		}
	}

	if f.err == nil {
		f.err = err
	}
	return f.err
}
