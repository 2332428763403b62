package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"idlc/internal/diag"
	"idlc/internal/project"
	"idlc/internal/source"
	"idlc/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores the diagnostics of finished compilations keyed by the
// digest of their inputs. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what one cache entry holds.
type DiskPayload struct {
	Schema      uint16
	Key         project.Digest
	Files       []string
	Diagnostics []diag.Diagnostic
}

type cacheKey = project.Digest

// OpenDiskCache opens (creating if needed) $XDG_CACHE_HOME/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "units", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return errors.Join(err, f.Close(), os.Remove(tmp))
	}
	if err := f.Close(); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	// атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload; ok is false when the entry is absent or from another schema.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion && out.Key == key, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}

// makeCacheKey covers everything that can change the diagnostics: the
// compiler version, the options and each input's path, role and content.
func makeCacheKey(opts Options, fset *source.FileSet, files []loadedFile) project.Digest {
	header := fmt.Sprintf("idlc %s|schema=%d|mode=%s|wae=%t|max=%d",
		version.Version, diskCacheSchemaVersion, opts.DefaultMode, opts.WarningsAsErrors, opts.MaxDiagnostics)
	parts := make([]project.Digest, 0, 2*len(files))
	for _, f := range files {
		role := "src:"
		if f.reference {
			role = "ref:"
		}
		parts = append(parts, project.Of([]byte(role+f.path)), fset.Get(f.id).Hash)
	}
	return project.Combine(project.Of([]byte(header)), parts...)
}

func (c *DiskCache) replay(key project.Digest, st *State) (bool, error) {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil {
		return false, fmt.Errorf("disk cache: %w", err)
	}
	if !ok {
		return false, nil
	}
	for _, d := range payload.Diagnostics {
		st.Bag.Add(d)
	}
	return true, nil
}

// store saves the result unless some diagnostics were dropped by the cap.
func (c *DiskCache) store(key project.Digest, st *State) error {
	if st.Bag.Dropped() > 0 {
		return nil
	}
	files := make([]string, 0, st.FileSet.Len())
	for _, f := range st.FileSet.Files() {
		files = append(files, f.Path)
	}
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Key:         key,
		Files:       files,
		Diagnostics: st.Bag.Items(),
	}
	if err := c.Put(key, payload); err != nil {
		return fmt.Errorf("disk cache: %w", err)
	}
	return nil
}
