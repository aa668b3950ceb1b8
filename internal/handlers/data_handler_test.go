// internal/handlers/data_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_5_vocab_porter/internal/config"
	"go_5_vocab_porter/internal/handlers"
	"go_5_vocab_porter/internal/middleware"
	"go_5_vocab_porter/internal/model"
	"go_5_vocab_porter/internal/service/mocks"
)

func setupDataRouter(t *testing.T, mockService *mocks.PorterService) *chi.Mux {
	t.Helper()
	cfg := &config.Config{}
	cfg.Import.MaxBundleBytes = 1024 * 1024

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := handlers.NewDataHandler(mockService, cfg, logger)

	router := chi.NewRouter()
	router.Use(middleware.DevTenantContextMiddleware) // 開発用認証ミドルウェア
	router.Post("/api/v1/data/import/{scope}", handler.ImportData)
	router.Get("/api/v1/data/export/{scope}", handler.ExportData)
	return router
}

func TestDataHandler_ImportData(t *testing.T) {
	tenantID := uuid.New()
	bundle := []byte(`{"words":[{"id":"w-1","english":"apple"}],"exportType":"words_only"}`)

	tests := []struct {
		name           string
		scope          string
		tenantHeader   string
		body           []byte
		setupMock      func(m *mocks.PorterService)
		expectedStatus int
	}{
		{
			name:         "正常系: 単語バンドルのインポート",
			scope:        "words",
			tenantHeader: tenantID.String(),
			body:         bundle,
			setupMock: func(m *mocks.PorterService) {
				m.On("ImportBundle", mock.Anything, tenantID, model.ScopeWords, bundle).
					Return(&model.BatchResult{Committed: 1}, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: テナントヘッダー欠落",
			scope:          "words",
			tenantHeader:   "",
			body:           bundle,
			setupMock:      func(m *mocks.PorterService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: 不正なスコープ",
			scope:          "everything",
			tenantHeader:   tenantID.String(),
			body:           bundle,
			setupMock:      func(m *mocks.PorterService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:         "異常系: 壊れたバンドルは400",
			scope:        "words",
			tenantHeader: tenantID.String(),
			body:         []byte(`{"words": [`),
			setupMock: func(m *mocks.PorterService) {
				m.On("ImportBundle", mock.Anything, tenantID, model.ScopeWords, []byte(`{"words": [`)).
					Return(nil, fmt.Errorf("parsing: %w", model.ErrMalformedBundle)).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:         "異常系: スコープ不一致は422",
			scope:        "words",
			tenantHeader: tenantID.String(),
			body:         bundle,
			setupMock: func(m *mocks.PorterService) {
				m.On("ImportBundle", mock.Anything, tenantID, model.ScopeWords, bundle).
					Return(nil, fmt.Errorf("declared mismatch: %w", model.ErrScopeMismatch)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:         "異常系: ストア到達不能は503",
			scope:        "words",
			tenantHeader: tenantID.String(),
			body:         bundle,
			setupMock: func(m *mocks.PorterService) {
				m.On("ImportBundle", mock.Anything, tenantID, model.ScopeWords, bundle).
					Return(nil, fmt.Errorf("index: %w", model.ErrStoreUnavailable)).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.PorterService)
			tt.setupMock(mockService)
			router := setupDataRouter(t, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/data/import/"+tt.scope, bytes.NewReader(tt.body))
			if tt.tenantHeader != "" {
				req.Header.Set("X-Tenant-ID", tt.tenantHeader)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestDataHandler_ImportData_ReturnsBatchResult(t *testing.T) {
	tenantID := uuid.New()
	mockService := new(mocks.PorterService)
	router := setupDataRouter(t, mockService)

	bundle := []byte(`[{"id":"w-1","english":"apple"}]`)
	mockService.On("ImportBundle", mock.Anything, tenantID, model.ScopeWords, bundle).
		Return(&model.BatchResult{
			Committed:      3,
			Skipped:        1,
			Failed:         1,
			UnresolvedRefs: 2,
			Errors:         []model.RecordError{{RecordID: "w-x", Reason: "store unavailable"}},
		}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/import/words", bytes.NewReader(bundle))
	req.Header.Set("X-Tenant-ID", tenantID.String())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	// 部分的な失敗があってもHTTPとしては200で件数を返す
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.Committed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.UnresolvedRefs)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "w-x", result.Errors[0].RecordID)
	mockService.AssertExpectations(t)
}

func TestDataHandler_ExportData(t *testing.T) {
	tenantID := uuid.New()

	t.Run("正常系: バンドルがダウンロードとして返る", func(t *testing.T) {
		mockService := new(mocks.PorterService)
		router := setupDataRouter(t, mockService)

		payload := []byte(`{"words":[],"exportType":"words_only"}`)
		mockService.On("ExportBundle", mock.Anything, tenantID, model.ScopeWords).
			Return(payload, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/data/export/words", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "vocab_words_")
		assert.Equal(t, payload, rec.Body.Bytes())
		mockService.AssertExpectations(t)
	})

	t.Run("異常系: 不正なスコープは400", func(t *testing.T) {
		mockService := new(mocks.PorterService)
		router := setupDataRouter(t, mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/data/export/everything", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("異常系: ストア到達不能は503", func(t *testing.T) {
		mockService := new(mocks.PorterService)
		router := setupDataRouter(t, mockService)

		mockService.On("ExportBundle", mock.Anything, tenantID, model.ScopeWords).
			Return(nil, fmt.Errorf("exporting: %w", model.ErrStoreUnavailable)).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/data/export/words", nil)
		req.Header.Set("X-Tenant-ID", tenantID.String())
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		mockService.AssertExpectations(t)
	})
}
