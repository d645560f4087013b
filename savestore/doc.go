// Package savestore persists values of a declared type as named records
// in a flat directory, one file per record.
//
// It's meant for lightweight state of an interactive application
// (settings, save slots, high scores) where a database is overkill.
//
// # Store Structure
//
// A record named "slot1" lives in "${Dir}/slot1.dat". The file content is
// whatever the store's Codec produces. Files are replaced atomically
// (write to a temporary file, rename over the old one) so a reader never
// sees a partially written record.
//
// # Basic Usage
//
//	s := &savestore.Store[Game]{
//	    Dir:   dataDir,
//	    Codec: codec.JSON[Game]{Indent: true},
//	}
//	err := savestore.Open(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = s.Save("slot1", game)
//	game, err = s.Load("slot1")
//	games, err := s.LoadAll("slot")
//	err = s.Delete("slot1")
//
// # Guard
//
// Save, Load and Delete run under a per-record guard. Acquiring it is a
// bounded busy-wait: a compare-and-swap retried up to MaxAttempts times
// (by default without sleeping). When the record stays busy the operation
// fails with ErrAcquireTimeout and has no effect. Operations on different
// records never wait for each other.
//
// # Errors
//
// Operations return *Error. Use errors.Is() with ErrAcquireTimeout,
// ErrNotFound, ErrCorruptRecord, ErrIO, ErrInvalidName or ErrEncodeFailed.
// Every failure is also logged.
//
// # Thread Safety
//
// A Store is safe for concurrent use after Open. Exists, Names and the
// directory listing done by LoadAll don't take the guard and may see
// a slightly stale directory.
package savestore
