package savestore

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Bl4ck-orig/GenericBinarySaveSystem/atomicfile"
)

// LoadAllPolicy decides what LoadAll does with a record that fails to load
type LoadAllPolicy int

const (
	// SkipErrors logs the failure and leaves the record out of the result
	SkipErrors LoadAllPolicy = iota
	// StopOnError returns the first failure
	StopOnError
)

func (p LoadAllPolicy) String() string {
	switch p {
	case SkipErrors:
		return "SkipErrors"
	case StopOnError:
		return "StopOnError"
	}
	return fmt.Sprintf("LoadAllPolicy(%d)", int(p))
}

// Record is a loaded value along with its name
type Record[T any] struct {
	Name  string
	Value T
}

// Names returns sorted names of records that start with prefix.
// Empty prefix matches all records. Doesn't take the guard.
func (s *Store[T]) Names(prefix string) ([]string, error) {
	s.mustBeOpen()
	entries, err := os.ReadDir(s.names.Dir)
	if err != nil {
		return nil, s.fail("list", prefix, ErrIO, err, 0)
	}
	var res []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		fileName := e.Name()
		if atomicfile.IsTempName(fileName) {
			continue
		}
		name, ok := s.names.ToName(fileName)
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		if ValidName(name) != nil {
			continue
		}
		res = append(res, name)
	}
	// file name order isn't name order: "a-b.dat" < "a.dat"
	slices.Sort(res)
	return res, nil
}

// LoadAllRecords loads every record whose name starts with prefix, in name order.
// A record deleted after listing is silently left out, with either policy.
func (s *Store[T]) LoadAllRecords(prefix string, policy LoadAllPolicy) ([]Record[T], error) {
	names, err := s.Names(prefix)
	if err != nil {
		return nil, err
	}
	res := make([]Record[T], 0, len(names))
	for _, name := range names {
		v, err := s.Load(name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if policy == StopOnError {
				return nil, err
			}
			// Load() already logged it
			continue
		}
		res = append(res, Record[T]{Name: name, Value: v})
	}
	return res, nil
}

// LoadAllWith is LoadAll with explicit policy
func (s *Store[T]) LoadAllWith(prefix string, policy LoadAllPolicy) ([]T, error) {
	recs, err := s.LoadAllRecords(prefix, policy)
	if err != nil {
		return nil, err
	}
	res := make([]T, len(recs))
	for i, rec := range recs {
		res[i] = rec.Value
	}
	return res, nil
}

// LoadAll loads values of all records whose name starts with prefix,
// in name order. Failures are handled according to s.Policy.
func (s *Store[T]) LoadAll(prefix string) ([]T, error) {
	return s.LoadAllWith(prefix, s.Policy)
}

// DeleteAll deletes all records whose name starts with prefix.
// Returns number of deleted records. Stops on first failure.
func (s *Store[T]) DeleteAll(prefix string) (int, error) {
	names, err := s.Names(prefix)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, name := range names {
		err = s.Delete(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
