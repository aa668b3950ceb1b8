// internal/service/batch_committer.go
package service

import (
	"context"
	"encoding/json"

	"go_5_vocab_porter/internal/middleware"
	"go_5_vocab_porter/internal/model"
	"go_5_vocab_porter/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchCommitter は解決済みレコードをストアへ逐次適用します。
// バッチ内の並列化は行わない。参照修復の正しさは「単語のコミット成功後に
// 索引を追記し、それを後続の成績・セッションが参照できること」に依存するため、
// 各レコードの書き込み完了を待ってから次へ進みます。
type BatchCommitter struct {
	docs     repository.DocumentRepository
	resolver *OwnershipResolver
	rewriter *ReferenceRewriter
}

func NewBatchCommitter(docs repository.DocumentRepository) *BatchCommitter {
	return &BatchCommitter{
		docs:     docs,
		resolver: NewOwnershipResolver(docs),
		rewriter: NewReferenceRewriter(),
	}
}

// Commit は1バッチを適用し、件数と失敗明細を集計して返します。
// レコード単位の失敗はバッチを中断せず、resultのErrorsに記録されます。
// 返り値のerrorは索引構築の失敗とコンテキスト破棄のみで、その場合でも
// 送信済みの書き込みは取り消しません (同じidへの全文上書きなので再実行で収束する)。
func (c *BatchCommitter) Commit(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, scope model.Scope, records []model.Record) (*model.BatchResult, error) {
	logger := middleware.GetLogger(ctx)
	collection := scope.CollectionKey()

	idx, err := BuildNaturalKeyIndex(ctx, db, c.docs, tenantID)
	if err != nil {
		return nil, err
	}

	dedup := NewDeduplicator()
	result := &model.BatchResult{}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			logger.Warn("Import batch abandoned",
				"committed", result.Committed,
				"remaining", len(records)-result.Committed-result.Skipped-result.Failed,
			)
			return result, err
		}

		if !dedup.ShouldProcess(rec.NaturalKey()) {
			result.Skipped++
			continue
		}

		res, err := c.resolver.Resolve(ctx, db, collection, rec.RecordID(), tenantID)
		if err != nil {
			logger.Warn("Skipping record, ownership resolution failed",
				"collection", collection,
				"record_id", rec.RecordID(),
				"error", err,
			)
			result.AddError(rec.RecordID(), err.Error())
			continue
		}

		out, unresolved := c.rewriter.Rewrite(rec, tenantID, res.TargetID, res.Remapped, idx)
		result.UnresolvedRefs += unresolved

		data, err := json.Marshal(out)
		if err != nil {
			result.AddError(rec.RecordID(), "record could not be serialized: "+err.Error())
			continue
		}
		doc := &model.Document{
			Collection: collection,
			DocID:      out.RecordID(),
			TenantID:   tenantID,
			Data:       data,
		}
		if err := c.docs.Put(ctx, db, doc); err != nil {
			result.AddError(rec.RecordID(), model.ErrStoreUnavailable.Error())
			continue
		}
		result.Committed++

		// 同一バッチ内の後続レコードが今コミットした単語を自然キーで
		// 解決できるよう追記する
		if scope == model.ScopeWords {
			idx.Register(collection, out.NaturalKey(), out.RecordID())
		}
	}

	logger.Info("Batch commit finished",
		"collection", collection,
		"committed", result.Committed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"unresolved_refs", result.UnresolvedRefs,
	)
	return result, nil
}
