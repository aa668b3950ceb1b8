//go:generate mockery --name DocumentRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_vocab_porter/internal/middleware"
	"go_5_vocab_porter/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRepository は文書ストアへの最小限のアクセス面です。
// 存在確認・テナントスコープの一覧・全文上書きの3操作のみを提供します。
type DocumentRepository interface {
	// FindByID はテナントを問わず文書を検索します (所有者判定は呼び出し元で行う)
	FindByID(ctx context.Context, db *gorm.DB, collection, docID string) (*model.Document, error)
	FindByTenant(ctx context.Context, db *gorm.DB, collection string, tenantID uuid.UUID) ([]*model.Document, error)
	// Put は (collection, doc_id) をキーに全文を上書き保存します
	Put(ctx context.Context, tx *gorm.DB, doc *model.Document) error
}

type gormDocumentRepository struct{}

func NewGormDocumentRepository() DocumentRepository {
	return &gormDocumentRepository{}
}

func (r *gormDocumentRepository) FindByID(ctx context.Context, db *gorm.DB, collection, docID string) (*model.Document, error) {
	logger := middleware.GetLogger(ctx)
	var doc model.Document
	result := db.WithContext(ctx).Where("collection = ? AND doc_id = ?", collection, docID).First(&doc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding document by ID in DB",
			"error", result.Error,
			"collection", collection,
			"doc_id", docID,
		)
		return nil, fmt.Errorf("gormDocumentRepository.FindByID: %w", result.Error)
	}
	return &doc, nil
}

func (r *gormDocumentRepository) FindByTenant(ctx context.Context, db *gorm.DB, collection string, tenantID uuid.UUID) ([]*model.Document, error) {
	logger := middleware.GetLogger(ctx)
	var docs []*model.Document
	result := db.WithContext(ctx).
		Where("collection = ? AND tenant_id = ?", collection, tenantID).
		Order("created_at ASC").
		Find(&docs)
	if result.Error != nil {
		logger.Error("Error finding documents by tenant in DB",
			"error", result.Error,
			"collection", collection,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("gormDocumentRepository.FindByTenant: %w", result.Error)
	}
	return docs, nil
}

func (r *gormDocumentRepository) Put(ctx context.Context, tx *gorm.DB, doc *model.Document) error {
	logger := middleware.GetLogger(ctx)
	// インポートは決定的なidへの全文上書きなのでUPSERTにする。
	// 同じバンドルを再投入しても同じ終端状態に収束する。
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		UpdateAll: true,
	}).Create(doc)
	if result.Error != nil {
		logger.Error("Error putting document in DB",
			"error", result.Error,
			"collection", doc.Collection,
			"doc_id", doc.DocID,
			"tenant_id", doc.TenantID.String(),
		)
		return fmt.Errorf("gormDocumentRepository.Put: %w", result.Error)
	}
	return nil
}
