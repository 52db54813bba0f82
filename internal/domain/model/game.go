package model

import (
	"time"

	"gorm.io/gorm"
)

// Priceは購入時点でOrderにスナップショットされる。
// ここの価格を後から変えても確定済み注文には影響しない。
type Game struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	IsForSale   bool           `gorm:"not null;default:false" json:"is_for_sale"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
