package model

import "time"

// 注文ステータス更新、送料更新など。
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//送料設定を更新した操作。
	AuditActionUpdateShippingCost AuditAction = "UPDATE_SHIPPING_COST"
	//商品の一括取込。
	AuditActionImportProducts AuditAction = "IMPORT_PRODUCTS"
	//ユーザーのロール変更・停止/再開。
	AuditActionUpdateUserRole   AuditAction = "UPDATE_USER_ROLE"
	AuditActionUpdateUserActive AuditAction = "UPDATE_USER_ACTIVE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceSetting AuditResourceType = "setting"
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceUser    AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//設定のように行IDが無いものは0。
	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
