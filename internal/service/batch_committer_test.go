// internal/service/batch_committer_test.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"go_5_vocab_porter/internal/model"
	"go_5_vocab_porter/internal/repository"
	"go_5_vocab_porter/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 ---
func setupTestDBCommitter(t *testing.T) *gorm.DB {
	t.Helper()
	// テストごとに独立したインメモリDBを使う
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")
	require.NoError(t, db.AutoMigrate(&model.Document{}))
	return db
}

func putDocument(t *testing.T, db *gorm.DB, docs repository.DocumentRepository, collection string, tenantID uuid.UUID, rec model.Record) {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, docs.Put(context.Background(), db, &model.Document{
		Collection: collection,
		DocID:      rec.RecordID(),
		TenantID:   tenantID,
		Data:       data,
	}))
}

func loadWord(t *testing.T, db *gorm.DB, docs repository.DocumentRepository, docID string) *model.Word {
	t.Helper()
	row, err := docs.FindByID(context.Background(), db, model.ScopeWords.CollectionKey(), docID)
	require.NoError(t, err)
	var w model.Word
	require.NoError(t, json.Unmarshal(row.Data, &w))
	return &w
}

// --- Test Commit ---
func Test_BatchCommitter_Commit_Words(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("正常系: 新規単語のコミットと所有者の付与", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		records := []model.Record{
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご"},
			&model.Word{ID: "w-2", English: "banana", Translation: "バナナ"},
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Committed)
		assert.Equal(t, 0, result.Skipped)
		assert.Equal(t, 0, result.Failed)
		assert.True(t, result.Succeeded())

		stored := loadWord(t, db, docs, "w-1")
		assert.Equal(t, tenantID.String(), stored.Owner)
	})

	t.Run("正常系: 同一バンドルの再投入は同じ終端状態に収束する", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		records := []model.Record{
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご"},
		}

		first, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)
		require.NoError(t, err)
		second, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)
		require.NoError(t, err)

		assert.Equal(t, 1, first.Committed)
		assert.Equal(t, 1, second.Committed)

		var count int64
		require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("正常系: バッチ内の自然キー重複は最初の1件だけ処理される", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		records := []model.Record{
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご"},
			&model.Word{ID: "w-9", English: " APPLE ", Translation: "別のりんご"}, // 正規化すると同一
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Committed)
		assert.Equal(t, 1, result.Skipped)

		stored := loadWord(t, db, docs, "w-1")
		assert.Equal(t, "りんご", stored.Translation)
	})

	t.Run("正常系: 他テナント所有のidは上書きせず新idで取り込む", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		otherTenant := uuid.New()
		putDocument(t, db, docs, model.ScopeWords.CollectionKey(), otherTenant,
			&model.Word{ID: "w-1", English: "cherry", Translation: "さくらんぼ", Owner: otherTenant.String()})

		records := []model.Record{
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご"},
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Committed)

		// 他人の文書は無傷
		foreign := loadWord(t, db, docs, "w-1")
		assert.Equal(t, "cherry", foreign.English)
		assert.Equal(t, otherTenant.String(), foreign.Owner)

		// 自分の単語は別idで保存されている
		rows, err := docs.FindByTenant(ctx, db, model.ScopeWords.CollectionKey(), tenantID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.NotEqual(t, "w-1", rows[0].DocID)
	})

	t.Run("正常系: 衝突バンドルの再投入でも単語は増殖しない", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		// w-1 は別テナントの所有 → 毎回remapが発生する
		otherTenant := uuid.New()
		putDocument(t, db, docs, model.ScopeWords.CollectionKey(), otherTenant,
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご", Owner: otherTenant.String()})

		records := []model.Record{
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご"},
		}

		first, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)
		require.NoError(t, err)
		require.Equal(t, 1, first.Committed)

		second, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)
		require.NoError(t, err)
		require.Equal(t, 1, second.Committed)

		// 2回目は1回目に払い出されたidへの全文上書きになる
		rows, err := docs.FindByTenant(ctx, db, model.ScopeWords.CollectionKey(), tenantID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("正常系: remap先は既に所有している同じ自然キーの単語になる", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		otherTenant := uuid.New()
		putDocument(t, db, docs, model.ScopeWords.CollectionKey(), otherTenant,
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご", Owner: otherTenant.String()})
		// このテナントは同じ単語を w-mine として既に持っている
		putDocument(t, db, docs, model.ScopeWords.CollectionKey(), tenantID,
			&model.Word{ID: "w-mine", English: "apple", Translation: "古い訳", Owner: tenantID.String()})

		records := []model.Record{
			&model.Word{ID: "w-1", English: "apple", Translation: "新しい訳"},
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Committed)

		// 新idは払い出されず、既存の w-mine が上書きされる
		rows, err := docs.FindByTenant(ctx, db, model.ScopeWords.CollectionKey(), tenantID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "w-mine", rows[0].DocID)

		stored := loadWord(t, db, docs, "w-mine")
		assert.Equal(t, "新しい訳", stored.Translation)
	})

	t.Run("正常系: 自テナント所有のidはその場で上書きされる", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		putDocument(t, db, docs, model.ScopeWords.CollectionKey(), tenantID,
			&model.Word{ID: "w-1", English: "apple", Translation: "古い訳", Owner: tenantID.String()})

		records := []model.Record{
			&model.Word{ID: "w-1", English: "apple", Translation: "りんご"},
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopeWords, records)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Committed)

		stored := loadWord(t, db, docs, "w-1")
		assert.Equal(t, "りんご", stored.Translation)

		var count int64
		require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func Test_BatchCommitter_Commit_Performance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("正常系: 成績レコードは既存単語のidに付け替えられる", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		// このテナントは "apple" を w-local というidで既に持っている
		putDocument(t, db, docs, model.ScopeWords.CollectionKey(), tenantID,
			&model.Word{ID: "w-local", English: "apple", Owner: tenantID.String()})

		records := []model.Record{
			&model.PerformanceRecord{
				ID:      "p-export",
				WordID:  "p-export",
				English: "Apple",
				Metrics: model.PerformanceMetrics{CorrectCount: 7, WrongCount: 2},
			},
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopePerformance, records)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Committed)
		assert.Equal(t, 0, result.UnresolvedRefs)

		// エクスポート元のidではなく、このテナントの単語idで保存されている
		row, err := docs.FindByID(ctx, db, model.ScopePerformance.CollectionKey(), "w-local")
		require.NoError(t, err)
		var p model.PerformanceRecord
		require.NoError(t, json.Unmarshal(row.Data, &p))
		assert.Equal(t, "w-local", p.ID)
		assert.Equal(t, "w-local", p.WordID)
		assert.Equal(t, 7, p.Metrics.CorrectCount)
	})
}

func Test_BatchCommitter_Commit_WordsAndSessions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("正常系: remapされたセッションの単語参照が同一バッチの単語で修復される", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		// 別テナントが s-1 というidのセッションを既に持っている → remapが発生する
		otherTenant := uuid.New()
		putDocument(t, db, docs, model.ScopeHistory.CollectionKey(), otherTenant,
			&model.TestSession{ID: "s-1", Owner: otherTenant.String()})
		// このテナントは "apple" を w-local として所有している
		putDocument(t, db, docs, model.ScopeWords.CollectionKey(), tenantID,
			&model.Word{ID: "w-local", English: "apple", Owner: tenantID.String()})

		records := []model.Record{
			&model.TestSession{
				ID: "s-1",
				Answers: []model.SessionAnswer{
					{Word: model.WordRef{ID: "w-export", English: "apple"}, Correct: true},
				},
			},
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopeHistory, records)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Committed)
		assert.Equal(t, 0, result.UnresolvedRefs)

		rows, err := docs.FindByTenant(ctx, db, model.ScopeHistory.CollectionKey(), tenantID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.NotEqual(t, "s-1", rows[0].DocID)

		var s model.TestSession
		require.NoError(t, json.Unmarshal(rows[0].Data, &s))
		assert.Equal(t, "w-local", s.Answers[0].Word.ID)
	})

	t.Run("正常系: 引けない参照は残して未解決として報告される", func(t *testing.T) {
		db := setupTestDBCommitter(t)
		docs := repository.NewGormDocumentRepository()
		committer := NewBatchCommitter(docs)

		otherTenant := uuid.New()
		putDocument(t, db, docs, model.ScopeHistory.CollectionKey(), otherTenant,
			&model.TestSession{ID: "s-1", Owner: otherTenant.String()})

		records := []model.Record{
			&model.TestSession{
				ID:         "s-1",
				WrongWords: []model.WordRef{{ID: "w-export", English: "unknown-word"}},
			},
		}

		result, err := committer.Commit(ctx, db, tenantID, model.ScopeHistory, records)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Committed)
		assert.Equal(t, 1, result.UnresolvedRefs)
	})
}

func Test_BatchCommitter_Commit_ContextCancel(t *testing.T) {
	tenantID := uuid.New()
	mockDocs := new(mocks.DocumentRepository)
	committer := NewBatchCommitter(mockDocs)

	// 索引構築は成功させ、レコード処理前にコンテキストを破棄する
	mockDocs.On("FindByTenant", mock.Anything, mock.Anything, model.ScopeWords.CollectionKey(), tenantID).
		Return([]*model.Document{}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []model.Record{
		&model.Word{ID: "w-1", English: "apple"},
	}

	result, err := committer.Commit(ctx, nil, tenantID, model.ScopeWords, records)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	// 部分的な結果は返る
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Committed)
	mockDocs.AssertExpectations(t)
}

func Test_BatchCommitter_Commit_StoreFailure(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	mockDocs := new(mocks.DocumentRepository)
	committer := NewBatchCommitter(mockDocs)

	mockDocs.On("FindByTenant", mock.Anything, mock.Anything, model.ScopeWords.CollectionKey(), tenantID).
		Return([]*model.Document{}, nil).Once()
	mockDocs.On("FindByID", mock.Anything, mock.Anything, model.ScopeWords.CollectionKey(), "w-1").
		Return(nil, model.ErrNotFound).Once()
	mockDocs.On("FindByID", mock.Anything, mock.Anything, model.ScopeWords.CollectionKey(), "w-2").
		Return(nil, model.ErrNotFound).Once()
	// w-1 の書き込みだけ失敗させる
	mockDocs.On("Put", mock.Anything, mock.Anything, mock.MatchedBy(func(doc *model.Document) bool {
		return doc.DocID == "w-1"
	})).Return(errors.New("connection reset")).Once()
	mockDocs.On("Put", mock.Anything, mock.Anything, mock.MatchedBy(func(doc *model.Document) bool {
		return doc.DocID == "w-2"
	})).Return(nil).Once()

	records := []model.Record{
		&model.Word{ID: "w-1", English: "apple"},
		&model.Word{ID: "w-2", English: "banana"},
	}

	result, err := committer.Commit(ctx, nil, tenantID, model.ScopeWords, records)

	// レコード単位の失敗はバッチを中断しない
	require.NoError(t, err)
	assert.Equal(t, 1, result.Committed)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Succeeded())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "w-1", result.Errors[0].RecordID)
	mockDocs.AssertExpectations(t)
}
