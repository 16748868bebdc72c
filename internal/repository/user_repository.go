package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

// 保存・取得を約束
// Find系は見つからないとき (nil, nil)
type UserRepository interface {
	//新規ユーザー作成。email重複はErrDuplicate
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ロール変更・停止・最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
	//管理画面用。新しい順
	List(ctx context.Context) ([]model.User, error)
}
