package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/moovie-watchlist/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// withCreator 预加载创建者的公开字段
func withCreator(db *gorm.DB) *gorm.DB {
	return db.Preload("Creator", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "email")
	})
}

// List 获取全部电影，最新创建的在前
func (r *MovieRepository) List() ([]*model.Movie, error) {
	var movies []*model.Movie
	err := withCreator(r.db).Order("created_at DESC").Find(&movies).Error
	return movies, err
}

// FindByID 根据 ID 查找电影（含创建者）
func (r *MovieRepository) FindByID(id uuid.UUID) (*model.Movie, error) {
	var movie model.Movie
	err := withCreator(r.db).First(&movie, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// FindByTitleAndYear 按标题和年份查找，用于创建前去重
func (r *MovieRepository) FindByTitleAndYear(title string, year int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("title = ? AND release_year = ?", title, year).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// Create 创建电影并回填创建者
func (r *MovieRepository) Create(movie *model.Movie) error {
	if err := r.db.Create(movie).Error; err != nil {
		return translate(err)
	}
	created, err := r.FindByID(movie.ID)
	if err != nil {
		return err
	}
	if created != nil {
		*movie = *created
	}
	return nil
}

// Update 部分更新，fields 中的 nil 值写入 NULL。行已不存在时返回 ErrNotFound。
func (r *MovieRepository) Update(id uuid.UUID, fields map[string]interface{}) (*model.Movie, error) {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&model.Movie{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	movie, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrNotFound
	}
	return movie, nil
}

// Delete 删除电影。仍被片单引用时返回 ErrReferenced。
func (r *MovieRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&model.Movie{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
