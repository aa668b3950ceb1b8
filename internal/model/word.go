// internal/model/word.go
package model

// WordFlags は単語に対するユーザー操作フラグです
type WordFlags struct {
	Favorite bool `json:"favorite,omitempty"`
	Archived bool `json:"archived,omitempty"`
}

// Word は単語とその訳を表すバンドルレコードです。
// 自然キーは english (大文字小文字を区別しない)。
type Word struct {
	ID          string      `json:"id"`
	English     string      `json:"english"`
	Translation string      `json:"translation"`
	Owner       string      `json:"owner,omitempty"`
	Flags       WordFlags   `json:"flags"`
	Meta        *RecordMeta `json:"meta,omitempty"`
}

func (w *Word) RecordID() string { return w.ID }

func (w *Word) NaturalKey() string { return NormalizeNaturalKey(w.English) }

// Clone は完全に独立したコピーを返します
func (w *Word) Clone() *Word {
	out := *w
	if w.Meta != nil {
		meta := *w.Meta
		out.Meta = &meta
	}
	return &out
}
