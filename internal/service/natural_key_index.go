// internal/service/natural_key_index.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go_5_vocab_porter/internal/middleware"
	"go_5_vocab_porter/internal/model"
	"go_5_vocab_porter/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NaturalKeyIndex はコレクションごとに「自然キー → 現テナントの文書id」を引く索引です。
// 構築時点のストア状態を反映します。バッチ途中の再構築は行わず、コミッタが
// コミット成功のたびに追記することで、同一バッチ内の後続レコードから
// 新規作成された単語を解決できるようにします。
type NaturalKeyIndex struct {
	byCollection map[string]map[string]string
}

func NewNaturalKeyIndex() *NaturalKeyIndex {
	return &NaturalKeyIndex{byCollection: make(map[string]map[string]string)}
}

// BuildNaturalKeyIndex はインポート先テナントが所有する単語をスコープ付きで
// 1回だけ問い合わせ、正規化した自然キーの索引を構築します。
func BuildNaturalKeyIndex(ctx context.Context, db *gorm.DB, docs repository.DocumentRepository, tenantID uuid.UUID) (*NaturalKeyIndex, error) {
	logger := middleware.GetLogger(ctx)
	idx := NewNaturalKeyIndex()

	rows, err := docs.FindByTenant(ctx, db, model.ScopeWords.CollectionKey(), tenantID)
	if err != nil {
		return nil, fmt.Errorf("building natural key index: %w", model.ErrStoreUnavailable)
	}
	for _, row := range rows {
		var w model.Word
		if err := json.Unmarshal(row.Data, &w); err != nil {
			// 壊れた文書は索引に載せない。修復対象の参照は未解決として報告される。
			logger.Warn("Skipping undecodable word document while indexing",
				"doc_id", row.DocID,
				"error", err,
			)
			continue
		}
		key := model.NormalizeNaturalKey(w.English)
		if key == "" {
			continue
		}
		idx.Register(model.ScopeWords.CollectionKey(), key, row.DocID)
	}
	return idx, nil
}

// Register は索引に1エントリを追記します
func (i *NaturalKeyIndex) Register(collection, key, docID string) {
	if key == "" || docID == "" {
		return
	}
	m, ok := i.byCollection[collection]
	if !ok {
		m = make(map[string]string)
		i.byCollection[collection] = m
	}
	m[key] = docID
}

// Lookup は参照先コレクションの索引からキーを引きます
func (i *NaturalKeyIndex) Lookup(collection, key string) (string, bool) {
	m, ok := i.byCollection[collection]
	if !ok {
		return "", false
	}
	id, ok := m[key]
	return id, ok
}
