// internal/model/scope.go
package model

import "fmt"

// Scope はインポート・エクスポートの対象区分です。
// 全量同期ではなく、ユーザーが選んだ1区分だけを選択的に転送します。
type Scope int

const (
	ScopeWords Scope = iota
	ScopePerformance
	ScopeHistory
	ScopeStatistics
)

// String はURLパスで使う区分名を返します
func (s Scope) String() string {
	switch s {
	case ScopeWords:
		return "words"
	case ScopePerformance:
		return "performance"
	case ScopeHistory:
		return "history"
	case ScopeStatistics:
		return "statistics"
	}
	return "unknown"
}

// CollectionKey は文書ストア上のコレクション名を返します
func (s Scope) CollectionKey() string {
	switch s {
	case ScopeWords:
		return "words"
	case ScopePerformance:
		return "wordPerformance"
	case ScopeHistory:
		return "testHistory"
	case ScopeStatistics:
		return "statistics"
	}
	return "unknown"
}

// ExportType はバンドルに刻印する種別識別子を返します
func (s Scope) ExportType() string {
	switch s {
	case ScopeWords:
		return "words_only"
	case ScopePerformance:
		return "performance_only"
	case ScopeHistory:
		return "test_history_only"
	case ScopeStatistics:
		return "statistics_only"
	}
	return "unknown"
}

// ParseScope はURLパスの区分名をScopeに変換します
func ParseScope(s string) (Scope, error) {
	switch s {
	case "words":
		return ScopeWords, nil
	case "performance":
		return ScopePerformance, nil
	case "history":
		return ScopeHistory, nil
	case "statistics":
		return ScopeStatistics, nil
	}
	return 0, fmt.Errorf("unknown scope %q: %w", s, ErrInvalidInput)
}

// ScopeFromExportType はバンドルのexportType刻印からScopeを引きます
func ScopeFromExportType(t string) (Scope, bool) {
	switch t {
	case "words_only":
		return ScopeWords, true
	case "performance_only":
		return ScopePerformance, true
	case "test_history_only":
		return ScopeHistory, true
	case "statistics_only":
		return ScopeStatistics, true
	}
	return 0, false
}
