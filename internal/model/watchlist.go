package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchlistStatus 观看状态，没有转移顺序限制
type WatchlistStatus string

const (
	StatusPlanned   WatchlistStatus = "PLANNED"
	StatusWatching  WatchlistStatus = "WATCHING"
	StatusCompleted WatchlistStatus = "COMPLETED"
	StatusDropped   WatchlistStatus = "DROPPED"
)

// WatchlistItem 片单条目，同一用户同一电影只能有一条
type WatchlistItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_movie"`
	MovieID   uuid.UUID       `json:"movieId" gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_movie;index"`
	Status    WatchlistStatus `json:"status" gorm:"type:varchar(16);not null;default:'PLANNED'"`
	Rating    *int            `json:"rating"`
	Notes     *string         `json:"notes" gorm:"type:varchar(500)"`
	CreatedAt time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time       `json:"updatedAt"`
	User      *User           `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie     *Movie          `json:"movie,omitempty" gorm:"constraint:OnDelete:RESTRICT"` // 关联查询时填充
}

// BeforeCreate 生成主键并补全默认状态
func (w *WatchlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Status == "" {
		w.Status = StatusPlanned
	}
	return nil
}

// IsOwnedBy 判断条目是否属于指定用户
func (w *WatchlistItem) IsOwnedBy(userID uuid.UUID) bool {
	return w.UserID == userID
}
