package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"file-vault/backend/library/objectid"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps users and files in a SQL database.
type GormStore struct {
	db *gorm.DB
}

func OpenGormStore(dialector gorm.Dialector) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &File{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate database schema: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) InsertFile(ctx context.Context, f *File) (string, error) {
	f.ID = objectid.New()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return "", fmt.Errorf("insert file: %w", err)
	}
	return f.ID, nil
}

func (s *GormStore) GetFile(ctx context.Context, id string, ownerID string) (*File, error) {
	query := s.db.WithContext(ctx).Where("id = ?", id)
	if ownerID != "" {
		query = query.Where("user_id = ?", ownerID)
	}
	var f File
	if err := query.Take(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}
	return &f, nil
}

func (s *GormStore) ListFilesByParent(ctx context.Context, ownerID string, parentID ParentID, page int, pageSize int) ([]*File, error) {
	offset, limit, ok := pageBounds(page, pageSize)
	files := make([]*File, 0, limit)
	if !ok {
		return files, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND parent_id = ?", ownerID, string(parentID)).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", parentID, err)
	}
	return files, nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

func (s *GormStore) InsertUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = objectid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
