package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusOverdue   OrderStatus = "OVERDUE"
)

// TotalPriceは購入時点のゲーム価格の合計（スナップショット）。
// ステータスはIsCompleted/IsOverdueから導出（両方false = PENDING）。
// COMPLETED / OVERDUE は終端。以後このワークフローでは変化しない。
type Order struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	OrderDate   time.Time `gorm:"not null;index" json:"order_date"`
	TotalPrice  int64     `gorm:"not null" json:"total_price"`
	IsCompleted bool      `gorm:"not null;default:false;index" json:"is_completed"`
	IsOverdue   bool      `gorm:"not null;default:false;index" json:"is_overdue"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (o Order) Status() OrderStatus {
	switch {
	case o.IsCompleted:
		return OrderStatusCompleted
	case o.IsOverdue:
		return OrderStatusOverdue
	default:
		return OrderStatusPending
	}
}
