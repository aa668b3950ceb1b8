// internal/repository/document_repository_test.go
package repository

import (
	"context"
	"fmt"
	"testing"

	"go_5_vocab_porter/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 ---
func setupTestDBDocument(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")
	require.NoError(t, db.AutoMigrate(&model.Document{}))
	return db
}

func Test_gormDocumentRepository_Put(t *testing.T) {
	ctx := context.Background()
	repo := NewGormDocumentRepository()
	tenantID := uuid.New()

	t.Run("正常系: 新規作成", func(t *testing.T) {
		db := setupTestDBDocument(t)

		err := repo.Put(ctx, db, &model.Document{
			Collection: "words",
			DocID:      "w-1",
			TenantID:   tenantID,
			Data:       []byte(`{"id":"w-1","english":"apple"}`),
		})

		require.NoError(t, err)
		found, err := repo.FindByID(ctx, db, "words", "w-1")
		require.NoError(t, err)
		assert.Equal(t, tenantID, found.TenantID)
	})

	t.Run("正常系: 同じキーへのPutは全文上書きになる", func(t *testing.T) {
		db := setupTestDBDocument(t)

		require.NoError(t, repo.Put(ctx, db, &model.Document{
			Collection: "words",
			DocID:      "w-1",
			TenantID:   tenantID,
			Data:       []byte(`{"id":"w-1","english":"apple","translation":"古い訳"}`),
		}))
		require.NoError(t, repo.Put(ctx, db, &model.Document{
			Collection: "words",
			DocID:      "w-1",
			TenantID:   tenantID,
			Data:       []byte(`{"id":"w-1","english":"apple","translation":"りんご"}`),
		}))

		var count int64
		require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		found, err := repo.FindByID(ctx, db, "words", "w-1")
		require.NoError(t, err)
		assert.Contains(t, string(found.Data), "りんご")
		assert.NotContains(t, string(found.Data), "古い訳")
	})

	t.Run("正常系: 同じdoc_idでもコレクションが違えば別文書", func(t *testing.T) {
		db := setupTestDBDocument(t)

		require.NoError(t, repo.Put(ctx, db, &model.Document{
			Collection: "words",
			DocID:      "x-1",
			TenantID:   tenantID,
			Data:       []byte(`{"id":"x-1"}`),
		}))
		require.NoError(t, repo.Put(ctx, db, &model.Document{
			Collection: "wordPerformance",
			DocID:      "x-1",
			TenantID:   tenantID,
			Data:       []byte(`{"id":"x-1","wordId":"x-1"}`),
		}))

		var count int64
		require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})
}

func Test_gormDocumentRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewGormDocumentRepository()
	db := setupTestDBDocument(t)

	t.Run("異常系: 存在しない文書はErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, db, "words", "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func Test_gormDocumentRepository_FindByTenant(t *testing.T) {
	ctx := context.Background()
	repo := NewGormDocumentRepository()
	db := setupTestDBDocument(t)

	tenantA := uuid.New()
	tenantB := uuid.New()

	seed := []*model.Document{
		{Collection: "words", DocID: "a-1", TenantID: tenantA, Data: []byte(`{"id":"a-1"}`)},
		{Collection: "words", DocID: "a-2", TenantID: tenantA, Data: []byte(`{"id":"a-2"}`)},
		{Collection: "words", DocID: "b-1", TenantID: tenantB, Data: []byte(`{"id":"b-1"}`)},
		{Collection: "testHistory", DocID: "a-3", TenantID: tenantA, Data: []byte(`{"id":"a-3"}`)},
	}
	for _, doc := range seed {
		require.NoError(t, repo.Put(ctx, db, doc))
	}

	t.Run("正常系: コレクションとテナントの両方で絞り込まれる", func(t *testing.T) {
		docs, err := repo.FindByTenant(ctx, db, "words", tenantA)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		for _, doc := range docs {
			assert.Equal(t, tenantA, doc.TenantID)
			assert.Equal(t, "words", doc.Collection)
		}
	})

	t.Run("正常系: 該当なしは空スライス", func(t *testing.T) {
		docs, err := repo.FindByTenant(ctx, db, "statistics", tenantA)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}
