package storage // import "github.com/Xunop/book-manager/internal/storage"

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/log"
)

var ErrInvalidName = errors.New("invalid file name")

// LocalStorage is a flat directory of files addressed by base name.
type LocalStorage struct {
	// Path to the storage directory
	Path string
}

type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// NewLocalStorage creates the directory if it does not exist.
func NewLocalStorage(path string) (*LocalStorage, error) {
	if path == "" {
		return nil, errors.New("storage path is empty")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create storage directory %s", path)
	}
	return &LocalStorage{Path: path}, nil
}

// Resolve returns the full path of name. Names with path separators or
// parent references are rejected.
func (s *LocalStorage) Resolve(name string) (string, error) {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return filepath.Join(s.Path, name), nil
}

// Save replaces name with data. The content goes to a temp file first and is
// renamed over the target, so readers never see a partial file.
func (s *LocalStorage) Save(name string, data []byte) error {
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Path, "."+name+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to sync temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to rename %s", tmpPath)
	}

	log.Debug("Stored file", zap.String("path", path), zap.String("hash", checksum(data)))
	return nil
}

// Create writes a new file and fails with fs.ErrExist if name is taken.
func (s *LocalStorage) Create(name string, data []byte) error {
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.Wrapf(err, "failed to close %s", path)
	}

	log.Debug("Created file", zap.String("path", path), zap.String("hash", checksum(data)))
	return nil
}

// Load returns the content of name. A missing file yields an error matching fs.ErrNotExist.
func (s *LocalStorage) Load(name string) ([]byte, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// List returns the regular files whose extension is one of exts, sorted by name.
func (s *LocalStorage) List(exts ...string) ([]*FileInfo, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*FileInfo{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read directory %s", s.Path)
	}

	list := make([]*FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !hasExt(entry.Name(), exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed since ReadDir
			continue
		}
		list = append(list, &FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(s.Path, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func hasExt(name string, exts []string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
