// internal/service/notifier.go
package service

import (
	"context"
	"log/slog"

	"go_5_vocab_porter/internal/middleware"
	"go_5_vocab_porter/internal/model"

	"github.com/google/uuid"
)

// ChangeNotifier はバッチ完了後に依存ビューへ再読込を促すための協調インターフェースです。
// ペイロードの契約は「今すぐ再読込せよ」以上のものを持ちません。
type ChangeNotifier interface {
	DataChanged(ctx context.Context, tenantID uuid.UUID, scope model.Scope)
}

// --- LogNotifier ---
type LogNotifier struct{}

func (n *LogNotifier) DataChanged(ctx context.Context, tenantID uuid.UUID, scope model.Scope) {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Data changed (LogNotifier) ---",
		"tenant_id", tenantID.String(),
		"scope", scope.String(),
	)
}

// --- NewChangeNotifier ファクトリ関数 ---
func NewChangeNotifier() ChangeNotifier {
	slog.Default().Info("Initializing Log notifier...")
	return &LogNotifier{}
}
