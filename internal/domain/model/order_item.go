package model

import "time"

// アンロックキーの1枠（slot）。販売の最小単位。
//
// OrderID == nil は未販売（カート予約可）。non-nil はちょうど1つの注文に属する。
// Key は販売後に所有セラーだけが設定する。
// IsGifted は一度trueになったら戻らない（再販売・再ギフト禁止）。
type OrderItem struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID   int64 `gorm:"not null;index" json:"game_id"`
	SellerID int64 `gorm:"not null;index" json:"seller_id"`

	OrderID *int64  `gorm:"index" json:"order_id,omitempty"`
	Key     *string `gorm:"type:text" json:"key,omitempty"`

	IsGifted bool `gorm:"not null;default:false" json:"is_gifted"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// キーが入っているか（nil・空文字はまだ）
func (i OrderItem) HasKey() bool {
	return i.Key != nil && *i.Key != ""
}
