// Package corpus stores counterexamples found by the self-check harness so
// later runs replay them before generating fresh cases.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"precis/internal/bignum"
)

// Current schema version - increment when Case format changes.
const schemaVersion uint16 = 1

// Case is one stored counterexample. Operands are kept in the word width the
// failure was found with.
type Case struct {
	Schema   uint16
	Property string
	Width    uint8 // 32 or 64
	Mode     uint8 // rounding.Mode
	Shift    uint64
	Ops64    []bignum.Integer   `msgpack:",omitempty"`
	Ops32    []bignum.Integer32 `msgpack:",omitempty"`
	Detail   string
	Found    time.Time
}

// Key returns the content hash naming c on disk. Detail and Found do not
// take part, so a case found twice is stored once.
func (c *Case) Key() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d", c.Property, c.Width, c.Mode, c.Shift)
	for _, x := range c.Ops64 {
		fmt.Fprintf(h, "\x00%x", x)
	}
	for _, x := range c.Ops32 {
		fmt.Fprintf(h, "\x00%x", x)
	}
	return hex.EncodeToString(h.Sum(nil)[:12])
}

// Store keeps cases as one msgpack file per case under dir/<property>/.
// Thread-safe for concurrent access.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns $XDG_CACHE_HOME/precis/corpus, falling back to
// ~/.cache when XDG_CACHE_HOME is unset.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "precis", "corpus"), nil
}

// Open returns a store rooted at dir, or at DefaultDir when dir is empty.
func Open(dir string) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) pathFor(property, key string) string {
	return filepath.Join(s.dir, property, key+".mp")
}

// Put writes c and returns its key. The file is written to a temporary name
// and renamed into place.
func (s *Store) Put(c *Case) (string, error) {
	if s == nil {
		return "", nil
	}
	if c.Property == "" || strings.ContainsAny(c.Property, `/\`) {
		return "", fmt.Errorf("corpus: invalid property name %q", c.Property)
	}
	c.Schema = schemaVersion
	key := c.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(c.Property, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return "", err
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("corpus: encode %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return "", err
	}
	renamed = true
	return key, nil
}

// Get reads the case stored under property and key. A case written with a
// different schema version reads as missing.
func (s *Store) Get(property, key string) (*Case, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.pathFor(property, key))
}

func (s *Store) read(p string) (*Case, bool, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var c Case
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, false, fmt.Errorf("corpus: decode %s: %w", p, err)
	}
	if c.Schema != schemaVersion {
		return nil, false, nil
	}
	return &c, true, nil
}

// List returns the stored cases for property in key order.
func (s *Store) List(property string) ([]*Case, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, property))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".mp") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var out []*Case
	for _, name := range names {
		c, ok, err := s.read(filepath.Join(s.dir, property, name))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Delete removes one stored case. A missing case is not an error.
func (s *Store) Delete(property, key string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.pathFor(property, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// DropAll removes every stored case.
func (s *Store) DropAll() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
