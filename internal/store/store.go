package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/mmcdole/zapper/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPrefs = []byte("prefs")
)

// Preference keys
const (
	keyLastIndex = "lastSelectedIndex"
	keyFavorites = "tv_favorites"
)

// PrefStore implements domain.PreferenceStore using BoltDB.
type PrefStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory copy of every value read or written
	cache map[string][]byte
}

// NewPrefStore opens (or creates) zapper.db inside dataDir. An empty dataDir
// keeps everything in memory.
func NewPrefStore(dataDir string) (*PrefStore, error) {
	if dataDir == "" {
		// Memory-only mode (no persistence)
		return &PrefStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "zapper.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPrefs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PrefStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *PrefStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *PrefStore) get(key string) ([]byte, bool) {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPrefs)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data, true
}

func (s *PrefStore) set(key string, data []byte) error {
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPrefs)
		return b.Put([]byte(key), data)
	})
}

// === Gallery selection ===

// SaveIndex stores i as a decimal string
func (s *PrefStore) SaveIndex(i int) error {
	return s.set(keyLastIndex, []byte(strconv.Itoa(i)))
}

// LoadIndex returns the stored index; false when absent or unparsable
func (s *PrefStore) LoadIndex() (int, bool) {
	data, ok := s.get(keyLastIndex)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, false
	}
	return i, true
}

// === Favorites ===

// SaveFavorites replaces the whole favorites set
func (s *PrefStore) SaveFavorites(favs []domain.Favorite) error {
	if favs == nil {
		favs = []domain.Favorite{}
	}
	data, err := json.Marshal(favs)
	if err != nil {
		return err
	}
	return s.set(keyFavorites, data)
}

// LoadFavorites returns the stored set. Missing or corrupt data reads as empty.
func (s *PrefStore) LoadFavorites() []domain.Favorite {
	data, ok := s.get(keyFavorites)
	if !ok {
		return []domain.Favorite{}
	}
	var favs []domain.Favorite
	if err := json.Unmarshal(data, &favs); err != nil || favs == nil {
		return []domain.Favorite{}
	}
	return favs
}

// === Invalidation ===

// Clear removes every stored preference
func (s *PrefStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPrefs)
		if b == nil {
			return nil
		}
		var keys [][]byte
		b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		})
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
