package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("снимок не найден")

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create сохраняет снимок вместе с элементами в одной транзакции.
func (r *SnapshotRepository) Create(ctx context.Context, s *Snapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// List возвращает последние снимки без элементов и разметки.
func (r *SnapshotRepository) List(ctx context.Context, limit, offset int) ([]Snapshot, error) {
	var snapshots []Snapshot
	err := r.db.WithContext(ctx).
		Omit("Content").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *SnapshotRepository) GetByID(ctx context.Context, id uint) (*Snapshot, error) {
	var s Snapshot
	err := r.db.WithContext(ctx).
		Preload("Elements", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
