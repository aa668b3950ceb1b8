// internal/handlers/data_handler.go
package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go_5_vocab_porter/internal/config"
	"go_5_vocab_porter/internal/middleware"
	"go_5_vocab_porter/internal/model"
	"go_5_vocab_porter/internal/service"
	"go_5_vocab_porter/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type DataHandler struct {
	service service.PorterService
	cfg     *config.Config
	logger  *slog.Logger
}

func NewDataHandler(s service.PorterService, cfg *config.Config, logger *slog.Logger) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service: s,
		cfg:     cfg,
		logger:  logger,
	}
}

// ImportData はバンドルを受け取り、認証済みテナントへ取り込むハンドラ。
// ファイル形式の検証 (JSONとしてパース可能か) はサービス側のコーデックが行い、
// ここではサイズ上限のみを課します。
func (h *DataHandler) ImportData(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ImportData"))

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("tenant_id", tenantID.String()))

	scope, err := model.ParseScope(chi.URLParam(r, "scope"))
	if err != nil {
		logger.Warn("Invalid scope in URL", slog.String("scope", chi.URLParam(r, "scope")))
		appErr := model.NewAppError("INVALID_SCOPE", "インポート区分が正しくありません。", "scope", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Import.MaxBundleBytes)
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("Failed to read bundle body", slog.Any("error", err))
		appErr := model.NewAppError("BUNDLE_TOO_LARGE", "バンドルが大きすぎるか、読み取りに失敗しました。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	result, err := h.service.ImportBundle(r.Context(), tenantID, scope, data)
	if err != nil {
		logger.Error("Error importing bundle in service", slog.Any("error", err), slog.String("scope", scope.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	// 部分的な失敗も含めて件数をそのまま返す。成否のbooleanにはしない。
	logger.Info("Bundle imported",
		slog.String("scope", scope.String()),
		slog.Int("committed", result.Committed),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

// ExportData は認証済みテナントのレコードをバンドルとして返すハンドラ
func (h *DataHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ExportData"))

	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("tenant_id", tenantID.String()))

	scope, err := model.ParseScope(chi.URLParam(r, "scope"))
	if err != nil {
		logger.Warn("Invalid scope in URL", slog.String("scope", chi.URLParam(r, "scope")))
		appErr := model.NewAppError("INVALID_SCOPE", "エクスポート区分が正しくありません。", "scope", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	data, err := h.service.ExportBundle(r.Context(), tenantID, scope)
	if err != nil {
		logger.Error("Error exporting bundle in service", slog.Any("error", err), slog.String("scope", scope.String()))
		webutil.HandleError(w, logger, err)
		return
	}

	filename := fmt.Sprintf("vocab_%s_%s.json", scope.String(), time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)

	logger.Info("Bundle exported", slog.String("scope", scope.String()), slog.Int("bytes", len(data)))
}
