// Package ownership answers "does the user physically own this book?" from
// filesystem evidence. The library tree follows a fixed convention:
//
//	<root>/<author name>/<title> (<external id>)/
//
// Scans are cached as immutable snapshots behind an atomic pointer, so
// readers never block on a rebuild and never observe a half-built set.
package ownership

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// AccessError means the library root could not be read. The previously
// cached snapshot stays valid.
type AccessError struct {
	Root string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("library root %s unreadable: %v", e.Root, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// title directories look like "The Great Gatsby (OL123W)"
var titleDirPattern = regexp.MustCompile(`^(.+) \(([^()]+)\)$`)

type entryKey struct {
	author string
	title  string
}

// Snapshot is one immutable result of a filesystem scan.
type Snapshot struct {
	entries map[entryKey]struct{}
	builtAt time.Time
	skipped int
}

// Contains reports whether the (author, title) pair was present on disk.
// Matching is case-insensitive and exact.
func (s *Snapshot) Contains(authorName, title string) bool {
	if s == nil {
		return false
	}
	_, ok := s.entries[entryKey{
		author: strings.ToLower(strings.TrimSpace(authorName)),
		title:  strings.ToLower(strings.TrimSpace(title)),
	}]
	return ok
}

// Len returns the number of owned (author, title) pairs found.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Skipped returns how many malformed directory names the scan ignored.
func (s *Snapshot) Skipped() int {
	if s == nil {
		return 0
	}
	return s.skipped
}

// BuiltAt returns when the scan completed.
func (s *Snapshot) BuiltAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.builtAt
}

// Index owns the cached snapshot and the rebuild policy.
type Index struct {
	root string
	ttl  time.Duration
	log  *slog.Logger

	snap      atomic.Pointer[Snapshot]
	rebuildMu sync.Mutex

	// now is swappable so TTL expiry is testable without real waiting
	now func() time.Time
}

func NewIndex(root string, ttl time.Duration, log *slog.Logger) *Index {
	if log == nil {
		log = slog.Default()
	}
	return &Index{
		root: root,
		ttl:  ttl,
		log:  log,
		now:  time.Now,
	}
}

// IsOwned checks the current snapshot. A never-built index owns nothing.
func (ix *Index) IsOwned(authorName, title string) bool {
	return ix.snap.Load().Contains(authorName, title)
}

// Current returns the cached snapshot without triggering a scan.
func (ix *Index) Current() *Snapshot {
	return ix.snap.Load()
}

// Refresh returns the cached snapshot unless it is older than the TTL or
// force is set, in which case it rebuilds first.
func (ix *Index) Refresh(force bool) (*Snapshot, error) {
	snap := ix.snap.Load()
	if !force && snap != nil && ix.now().Sub(snap.builtAt) < ix.ttl {
		return snap, nil
	}
	return ix.Rebuild()
}

// Rebuild scans the library tree and atomically swaps in the new snapshot.
// On error the previous snapshot is left untouched.
func (ix *Index) Rebuild() (*Snapshot, error) {
	ix.rebuildMu.Lock()
	defer ix.rebuildMu.Unlock()

	authorDirs, err := os.ReadDir(ix.root)
	if err != nil {
		return nil, &AccessError{Root: ix.root, Err: err}
	}

	entries := make(map[entryKey]struct{})
	skipped := 0

	for _, authorDir := range authorDirs {
		if !authorDir.IsDir() {
			continue
		}
		authorName := strings.ToLower(authorDir.Name())

		titleDirs, err := os.ReadDir(filepath.Join(ix.root, authorDir.Name()))
		if err != nil {
			// author dir vanished or unreadable mid-scan, never fatal
			skipped++
			continue
		}

		for _, titleDir := range titleDirs {
			if !titleDir.IsDir() {
				continue
			}
			m := titleDirPattern.FindStringSubmatch(titleDir.Name())
			if m == nil {
				skipped++
				continue
			}
			entries[entryKey{author: authorName, title: strings.ToLower(m[1])}] = struct{}{}
		}
	}

	snap := &Snapshot{
		entries: entries,
		builtAt: ix.now(),
		skipped: skipped,
	}
	ix.snap.Store(snap)

	ix.log.Info("ownership index rebuilt",
		"root", ix.root,
		"entries", len(entries),
		"skipped", skipped)

	return snap, nil
}
