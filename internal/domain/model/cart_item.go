package model

import "time"

// カートの明細。未販売のOrderItem枠1つへの予約であり、所有権の移転ではない。
type CartItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID      int64     `gorm:"not null;index" json:"cart_id"`
	OrderItemID int64     `gorm:"not null;index" json:"order_item_id"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
