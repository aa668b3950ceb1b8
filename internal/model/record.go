// internal/model/record.go
package model

import "strings"

// Record はバンドルに含まれる全レコード型の共通面です。
// エンジンはこの2つの識別子だけを頼りに所有権の解決と重複排除を行います。
type Record interface {
	// RecordID は文書ストア上のid (UUID文字列) を返します
	RecordID() string
	// NaturalKey はテナントをまたいで同一性を判定できる正規化済みキーを返します。
	// 判定できない型は自身のidを返します。
	NaturalKey() string
}

// RecordMeta はエクスポート・インポートの来歴情報です。
// 旧クライアントはこの中に所有者のコピーを残すことがあります。
type RecordMeta struct {
	Owner      string `json:"owner,omitempty"`
	Source     string `json:"source,omitempty"`
	ImportedAt string `json:"importedAt,omitempty"`
}

// WordRef は他レコードに埋め込まれる単語への参照です。
// idと自然キーを冗長に持つため、idが無効でもenglishから修復できます。
type WordRef struct {
	ID      string `json:"id,omitempty"`
	English string `json:"english,omitempty"`
}

// NormalizeNaturalKey は自然キーの比較表現を返します。
// 大文字小文字を区別せず、前後の空白を無視します。
func NormalizeNaturalKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
