package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	//ギフト記録を削除した操作（IsGiftedは戻さない）。
	AuditActionDeleteGift AuditAction = "DELETE_GIFT"
	//ユーザー残高を加算した操作。
	AuditActionTopUpBalance AuditAction = "TOP_UP_BALANCE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceGift AuditResourceType = "gift"
	AuditResourceUser AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
