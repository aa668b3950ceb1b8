// internal/model/bundle.go
package model

// BatchResult は1バッチのインポート結果です。
// 部分的な成功も正常な終了状態として、件数と失敗明細をそのまま呼び出し元へ返します。
type BatchResult struct {
	Committed      int           `json:"committed"`
	Skipped        int           `json:"skipped"`
	Failed         int           `json:"failed"`
	UnresolvedRefs int           `json:"unresolved_refs"`
	Errors         []RecordError `json:"errors,omitempty"`
}

// RecordError は1レコードの失敗理由です
type RecordError struct {
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

// Succeeded は全レコードが失敗なく処理できたかを返します
func (r *BatchResult) Succeeded() bool {
	return r.Failed == 0
}

// AddError は失敗レコードを記録します
func (r *BatchResult) AddError(recordID string, reason string) {
	r.Failed++
	r.Errors = append(r.Errors, RecordError{RecordID: recordID, Reason: reason})
}
