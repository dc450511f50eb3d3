package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

// FileStore хранит снимок бронирований в одном JSON файле
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load читает снимок, nil если файла ещё нет
func (s *FileStore) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bookings file %s: %w", s.path, err)
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse bookings file %s: %w", s.path, err)
	}
	if err := validateSnapshot(&snapshot); err != nil {
		return nil, fmt.Errorf("bookings file %s: %w", s.path, err)
	}

	return &snapshot, nil
}

// Save атомарно перезаписывает файл
func (s *FileStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bookings: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// validateSnapshot проверяет записи, пришедшие из внешнего JSON
func validateSnapshot(snapshot *model.Snapshot) error {
	for i, b := range snapshot.Bookings {
		if b.ID == "" {
			return fmt.Errorf("bookings[%d]: id is required", i)
		}
		if b.ResourceID == "" {
			return fmt.Errorf("bookings[%d]: resource_id is required", i)
		}
		switch b.Status {
		case model.BookingStatusConfirmed, model.BookingStatusCancelled:
		default:
			return fmt.Errorf("bookings[%d]: unknown status %q", i, b.Status)
		}
	}
	return nil
}
