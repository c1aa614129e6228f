package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/student"
)

// FileStore keeps the list as a JSON array in a single file.
type FileStore struct {
	path string
	log  logrus.FieldLogger
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string, log logrus.FieldLogger) *FileStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FileStore{path: path, log: log.WithField("store", "file")}
}

// Load implements Store.
func (f *FileStore) Load() []student.Student {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.WithError(err).Warn("read students file; starting empty")
		}
		return nil
	}
	return decode(data, f.log)
}

// Save implements Store. The file is replaced atomically.
func (f *FileStore) Save(list []student.Student) error {
	data, err := encode(list)
	if err != nil {
		return err
	}
	if err := writeAtomic(f.path, data); err != nil {
		return fmt.Errorf("write students: %w", err)
	}
	return nil
}

func (f *FileStore) markPath() string {
	return f.path + ".highid"
}

// LoadHighID implements IDMarker. A missing or unreadable mark reads as 0.
func (f *FileStore) LoadHighID() int64 {
	data, err := os.ReadFile(f.markPath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.WithError(err).Warn("read id mark")
		}
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || id < 0 {
		f.log.WithField("mark", strings.TrimSpace(string(data))).Warn("ignoring malformed id mark")
		return 0
	}
	return id
}

// SaveHighID implements IDMarker.
func (f *FileStore) SaveHighID(id int64) error {
	if err := writeAtomic(f.markPath(), []byte(strconv.FormatInt(id, 10)+"\n")); err != nil {
		return fmt.Errorf("write id mark: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".students-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
