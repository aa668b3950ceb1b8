// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"net/http"

	"go_5_vocab_porter/internal/model"
	"go_5_vocab_porter/internal/webutil"

	"github.com/google/uuid"
)

// DevTenantContextMiddleware は開発用 (auth.enabled=false) の認証代替です。
// X-Tenant-ID ヘッダーの値をそのまま認証済みテナントとして扱います。
func DevTenantContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		header := r.Header.Get("X-Tenant-ID")
		if header == "" {
			logger.Warn("Dev auth failed: X-Tenant-ID header missing")
			appErr := model.NewAppError("UNAUTHORIZED", "X-Tenant-IDヘッダーが必要です。", "", model.ErrForbidden)
			webutil.HandleError(w, logger, appErr)
			return
		}

		tenantID, err := uuid.Parse(header)
		if err != nil {
			logger.Warn("Dev auth failed: Invalid X-Tenant-ID format", "value", header)
			appErr := model.NewAppError("UNAUTHORIZED", "X-Tenant-IDの形式が正しくありません。", "", model.ErrForbidden)
			webutil.HandleError(w, logger, appErr)
			return
		}

		ctx := context.WithValue(r.Context(), model.TenantIDKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
