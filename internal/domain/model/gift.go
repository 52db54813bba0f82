package model

import "time"

// 販売済み・未ギフトのOrderItemをギフトした記録。
// 作成と同時にOrderItem.IsGiftedがtrueになる。
// 削除は監査目的のみで、IsGiftedは戻さない。
type Gift struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    int64     `gorm:"not null;index" json:"sender_id"`
	RecipientID int64     `gorm:"not null;index" json:"recipient_id"`
	OrderItemID int64     `gorm:"not null;index" json:"order_item_id"`
	GiftDate    time.Time `gorm:"not null" json:"gift_date"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
