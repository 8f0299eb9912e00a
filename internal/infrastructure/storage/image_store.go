package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/domain/port"
)

// FileImageStore хранит присланные фото в каталоге на диске
type FileImageStore struct {
	dir string
	ext string
}

// NewFileImageStore создаёт хранилище в каталоге dir. Каталог создаётся при первой записи.
func NewFileImageStore(dir, ext string) *FileImageStore {
	return &FileImageStore{dir: dir, ext: ext}
}

// Dir возвращает каталог хранилища
func (s *FileImageStore) Dir() string {
	return s.dir
}

// Save записывает фото. Повторная запись с тем же messageID перезаписывает файл.
func (s *FileImageStore) Save(ctx context.Context, messageID string, data []byte) (path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrPersistence, err)
	}
	if messageID == "" || strings.ContainsAny(messageID, `/\`) || messageID == "." || messageID == ".." {
		return "", fmt.Errorf("%w: invalid message id %q", entity.ErrPersistence, messageID)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty content", entity.ErrPersistence)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir: %w", entity.ErrPersistence, err)
	}

	path = filepath.Join(s.dir, messageID+s.ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %w", entity.ErrPersistence, err)
	}
	// Файл закрывается при любом исходе; ошибка закрытия тоже считается ошибкой записи.
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			path, err = "", fmt.Errorf("%w: close file: %w", entity.ErrPersistence, cerr)
		}
	}()

	n, err := f.Write(data)
	if err != nil {
		return "", fmt.Errorf("%w: write file: %w", entity.ErrPersistence, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: nothing written to %s", entity.ErrPersistence, path)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: file %s does not exist after write", entity.ErrPersistence, path)
		}
		return "", fmt.Errorf("%w: stat file: %w", entity.ErrPersistence, err)
	}

	return path, nil
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*FileImageStore)(nil)
