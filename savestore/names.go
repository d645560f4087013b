package savestore

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultExt is the extension of record files
const DefaultExt = ".dat"

// Names maps record names to file paths and back
type Names struct {
	Dir string
	Ext string
}

// ToPath returns path of the file for a record
func (n Names) ToPath(name string) string {
	return filepath.Join(n.Dir, name+n.Ext)
}

// ToName returns the record name for a file name (without directory).
// Only strips Ext if it's the suffix: "a.dat.bak.dat" => "a.dat.bak".
// Returns false if fileName isn't a record file.
func (n Names) ToName(fileName string) (string, bool) {
	name, ok := strings.CutSuffix(fileName, n.Ext)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// ValidName returns an error if name can't be used as a record name.
// Names map directly to file names so they can't contain path separators
// and can't start with '.' (reserved for temporary files).
func ValidName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("name '%s' starts with '.'", name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("name '%s' contains '/', '\\' or NUL", name)
	}
	if strings.ContainsAny(name, "\n\r") {
		return fmt.Errorf("name '%s' contains a newline", name)
	}
	return nil
}
