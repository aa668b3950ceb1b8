// internal/service/ownership_resolver.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go_5_vocab_porter/internal/middleware"
	"go_5_vocab_porter/internal/model"
	"go_5_vocab_porter/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolution は受信レコード1件の書き込み先の決定結果です
type Resolution struct {
	TargetID string
	Remapped bool
}

// OwnershipResolver は受信レコードを「既存文書のその場上書き」と
// 「新しいidの払い出し」のどちらで取り込むかを決めます。
type OwnershipResolver struct {
	docs repository.DocumentRepository
}

func NewOwnershipResolver(docs repository.DocumentRepository) *OwnershipResolver {
	return &OwnershipResolver{docs: docs}
}

// Resolve は record.id の既存文書を調べます。
//   - 存在しない → そのidで新規作成 (remapなし)
//   - 存在し自テナント所有 → そのidを上書き (remapなし)
//   - 存在し他テナント所有 → 新しいidを払い出す (remapあり)。
//     他人のデータを上書きしないための重要な不変条件。
//
// ストアに到達できない場合はエラーを返し、呼び出し元がこのレコードだけを
// 失敗として記録してバッチを継続します。
func (r *OwnershipResolver) Resolve(ctx context.Context, db *gorm.DB, collection, recordID string, tenantID uuid.UUID) (Resolution, error) {
	existing, err := r.docs.FindByID(ctx, db, collection, recordID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return Resolution{TargetID: recordID}, nil
		}
		return Resolution{}, fmt.Errorf("resolving ownership of %s/%s: %w", collection, recordID, model.ErrStoreUnavailable)
	}

	if existing.TenantID == tenantID {
		return Resolution{TargetID: recordID}, nil
	}

	newID := uuid.NewString()
	middleware.GetLogger(ctx).Info("Ownership conflict, remapping record",
		"collection", collection,
		"record_id", recordID,
		"new_id", newID,
	)
	return Resolution{TargetID: newID, Remapped: true}, nil
}
