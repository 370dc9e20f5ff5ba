package relhist

import (
	"strings"

	"go.etcd.io/bbolt"
)

// HistCache caches the historical names resolved for a file under a given
// HEAD commit. History reachable from a fixed commit never changes, so
// entries live in a bucket named by the HEAD hash and stay valid for as long
// as the branch head does; a moved head simply starts a fresh bucket.
type HistCache struct {
	db *bbolt.DB
}

// OpenHistCache opens the cache database at path, creating it if necessary.
func OpenHistCache(path string) (*HistCache, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}

	return &HistCache{db: db}, nil
}

// Close closes the underlying database.
func (c *HistCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	return c.db.Close()
}

// Get returns the cached historical names for relpath under the given head
// commit, and whether an entry was present at all.
func (c *HistCache) Get(head string, relpath string) ([]string, bool, error) {
	if c == nil || c.db == nil {
		return nil, false, ErrNilCache
	}

	var names []string
	found := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(head))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(relpath))
		if v == nil {
			return nil
		}

		found = true
		for _, line := range strings.Split(string(v), "\n") {
			if line == "" {
				continue
			}
			names = append(names, line)
		}

		return nil
	})

	return names, found, err
}

// Put stores the historical names for relpath under the given head commit.
func (c *HistCache) Put(head string, relpath string, names []string) error {
	if c == nil || c.db == nil {
		return ErrNilCache
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(head))
		if err != nil {
			return err
		}

		return b.Put([]byte(relpath), []byte(strings.Join(names, "\n")))
	})
}
