// Package cache stores the results of expensive computations on disk,
// keyed by a hash of their inputs.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
)

// DefaultDir is the cache directory used by the command line tool.
const DefaultDir = ".cache"

// A Cache is a directory of gob-encoded values. Failures to read or
// write it are never fatal: a missing or corrupt entry is a miss.
type Cache struct {
	Dir string
}

type Key struct {
	key string
}

// MakeKey hashes args into a key. Every argument must be encodable
// with gob.
func MakeKey(args ...any) Key {
	h := sha256.New()

	enc := gob.NewEncoder(h)
	for _, arg := range args {
		if err := enc.Encode(arg); err != nil {
			panic("error encoding cache key: " + err.Error())
		}
	}

	return Key{hex.EncodeToString(h.Sum(nil))}
}

func (k Key) String() string { return k.key }

func (c *Cache) path(k Key) string {
	return filepath.Join(c.Dir, k.key)
}

// Load decodes the value stored under k into out and reports whether
// it found one.
func (c *Cache) Load(k Key, out any) bool {
	f, err := os.Open(c.path(k))
	if err != nil {
		return false
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	if dec.Decode(out) != nil {
		return false
	}
	return true
}

// Save stores val under k.
func (c *Cache) Save(k Key, val any) {
	if err := os.MkdirAll(c.Dir, 0777); err != nil {
		log.Printf("error creating %s: %s", c.Dir, err)
		return
	}
	// Write to a temporary file so a concurrent Load never sees a
	// partial value.
	f, err := os.CreateTemp(c.Dir, k.key+".*")
	if err != nil {
		log.Printf("error saving to cache: %s", err)
		return
	}
	defer os.Remove(f.Name())
	enc := gob.NewEncoder(f)
	err = enc.Encode(val)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(f.Name(), c.path(k))
	}
	if err != nil {
		log.Printf("error saving to cache: %s", err)
	}
}
