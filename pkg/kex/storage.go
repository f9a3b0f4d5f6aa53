package kex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	bolt "go.etcd.io/bbolt"
)

// Store holds the relay's key/value pairs on the server side. Values are
// opaque strings, keys are namespaced by the pairing PIN.
type Store interface {
	Get(key string) (string, error)
	Set(key string, value string) error
}

type inMemoryStore struct {
	values sync.Map
}

func (s *inMemoryStore) Get(key string) (string, error) {
	if value, ok := s.values.Load(key); ok {
		return value.(string), nil
	}
	return "", ErrKeyNotFound
}

func (s *inMemoryStore) Set(key string, value string) error {
	s.values.Store(key, value)
	return nil
}

// NewInMemoryStore creates a new Store backed by memory
func NewInMemoryStore() Store {
	return &inMemoryStore{}
}

type boltStore struct {
	db *bolt.DB
}

func (s *boltStore) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte("kex"))
		payload := b.Get([]byte(key))
		if payload == nil {
			return ErrKeyNotFound
		}
		value = string(payload)
		return nil
	})
	return value, err
}

func (s *boltStore) Set(key string, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte("kex"))
		return b.Put([]byte(key), []byte(value))
	})
}

// NewBoltStore creates a new Store backed by a bolt database
func NewBoltStore(path string) Store {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		logrus.Panicf("failed to open bolt db: %v", err)
	}
	updateErr := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte("kex"))
		return err
	})
	if updateErr != nil {
		logrus.Panicf("failed to create bolt bucket: %v", updateErr)
	}
	return &boltStore{db: db}
}

type fileStore struct {
	fs       afero.Fs
	location string
}

func (s *fileStore) Get(key string) (string, error) {
	path, pathErr := s.path(key)
	if pathErr != nil {
		return "", pathErr
	}
	payload, readErr := afero.ReadFile(s.fs, path)
	if readErr != nil {
		if errors.Is(readErr, os.ErrNotExist) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read relay value: %w", readErr)
	}
	return string(payload), nil
}

func (s *fileStore) Set(key string, value string) error {
	path, pathErr := s.path(key)
	if pathErr != nil {
		return pathErr
	}
	if writeErr := afero.WriteFile(s.fs, path, []byte(value), 0600); writeErr != nil {
		return fmt.Errorf("failed to write relay value: %w", writeErr)
	}
	return nil
}

// path maps a relay key to a file inside the storage directory. Keys arrive
// straight off the network, so anything that could name a file outside the
// directory is rejected.
func (s *fileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid relay key %q: must not contain path separators or ..", key)
	}
	return filepath.Join(s.location, key), nil
}

// NewFileStore creates a new Store that keeps every value in a separate file
// under the given directory
func NewFileStore(location string, fs afero.Fs) Store {
	if mkdirErr := fs.MkdirAll(location, 0700); mkdirErr != nil {
		logrus.Panicf("failed to create relay storage directory: %v", mkdirErr)
	}
	return &fileStore{fs: fs, location: location}
}
