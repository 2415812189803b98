package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Movie 电影模型
type Movie struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"not null;index:idx_movie_title_year"`
	Overview    *string        `json:"overview"`
	ReleaseYear int            `json:"releaseYear" gorm:"not null;index:idx_movie_title_year"`
	Genres      pq.StringArray `json:"genres" gorm:"type:text[];not null;default:'{}'"`
	Runtime     *int           `json:"runtime"` // 分钟
	PosterURL   *string        `json:"posterUrl"`
	CreatedBy   uuid.UUID      `json:"createdBy" gorm:"type:uuid;not null;index"`
	Creator     *Creator       `json:"creator,omitempty" gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BeforeCreate 生成主键，genres 为空时写入空数组而不是 NULL
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Genres == nil {
		m.Genres = pq.StringArray{}
	}
	return nil
}

// IsOwnedBy 判断电影是否由指定用户创建
func (m *Movie) IsOwnedBy(userID uuid.UUID) bool {
	return m.CreatedBy == userID
}
