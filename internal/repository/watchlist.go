package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/moovie-watchlist/internal/model"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListByUser 获取用户片单（含电影信息）
func (r *WatchlistRepository) ListByUser(userID uuid.UUID) ([]*model.WatchlistItem, error) {
	var items []*model.WatchlistItem
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByID 根据 ID 查找条目
func (r *WatchlistRepository) FindByID(id uuid.UUID) (*model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := r.db.First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByUserAndMovie 查询用户是否已添加该电影
func (r *WatchlistRepository) FindByUserAndMovie(userID, movieID uuid.UUID) (*model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 添加条目。唯一索引冲突返回 ErrDuplicate，电影已被删除返回 ErrReferenced。
func (r *WatchlistRepository) Create(item *model.WatchlistItem) error {
	return translate(r.db.Create(item).Error)
}

// Update 部分更新
func (r *WatchlistRepository) Update(id uuid.UUID, fields map[string]interface{}) (*model.WatchlistItem, error) {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&model.WatchlistItem{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	item, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// Delete 删除条目
func (r *WatchlistRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&model.WatchlistItem{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
