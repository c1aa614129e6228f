// Package localstore persists the local student list.
//
// A Store is read once when the list is created and overwritten after every
// mutation. Load never fails: missing or malformed data yields an empty list.
package localstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/student"
)

// DefaultKey is the storage key holding the JSON array of students.
const DefaultKey = "students"

// Store is the durable mirror of the local student list.
type Store interface {
	Load() []student.Student
	Save(list []student.Student) error
}

// IDMarker is implemented by stores that also remember the highest id ever
// assigned, so removed ids are not handed out again after a restart. The
// mark is kept apart from the list so the list format is unchanged.
type IDMarker interface {
	LoadHighID() int64
	SaveHighID(id int64) error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Options select and configure a backend.
type Options struct {
	Backend   Backend
	Path      string // file backend
	RedisAddr string // redis backend
	Key       string // redis backend; defaults to DefaultKey
	Logger    logrus.FieldLogger
}

// Open builds the Store described by opts.
func Open(opts Options) (Store, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	switch Backend(strings.ToLower(strings.TrimSpace(string(opts.Backend)))) {
	case BackendFile, "":
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFileStore(opts.Path, log), nil
	case BackendRedis:
		return NewRedisStore(opts.RedisAddr, opts.Key, log)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}

// decode parses a stored payload. Records missing required local fields are
// dropped so a hand-edited file cannot smuggle them into the list.
func decode(data []byte, log logrus.FieldLogger) []student.Student {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var list []student.Student
	if err := json.Unmarshal(data, &list); err != nil {
		log.WithError(err).Warn("stored students are malformed; starting empty")
		return nil
	}
	seen := make(map[int64]struct{}, len(list))
	kept := list[:0]
	for _, s := range list {
		if _, dup := seen[s.ID]; dup {
			log.WithField("student_id", s.ID).Warn("dropping duplicate stored student")
			continue
		}
		if err := s.ValidateLocal(); err != nil {
			log.WithField("student_id", s.ID).WithError(err).Warn("dropping invalid stored student")
			continue
		}
		seen[s.ID] = struct{}{}
		kept = append(kept, s)
	}
	return student.Clone(kept)
}

func encode(list []student.Student) ([]byte, error) {
	if list == nil {
		list = []student.Student{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal students: %w", err)
	}
	return data, nil
}

// MemoryStore keeps the encoded list in memory.
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	saves  int
	highID int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load() []student.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decode(m.data, logrus.StandardLogger())
}

// Save implements Store.
func (m *MemoryStore) Save(list []student.Student) error {
	data, err := encode(list)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.saves++
	return nil
}

// LoadHighID implements IDMarker.
func (m *MemoryStore) LoadHighID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highID
}

// SaveHighID implements IDMarker.
func (m *MemoryStore) SaveHighID(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highID = id
	return nil
}

// Saves reports how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Raw returns the last saved payload.
func (m *MemoryStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
