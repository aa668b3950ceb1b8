// internal/model/performance.go
package model

// PerformanceMetrics はテスト成績の集計値です
type PerformanceMetrics struct {
	CorrectCount int    `json:"correctCount"`
	WrongCount   int    `json:"wrongCount"`
	Streak       int    `json:"streak,omitempty"`
	LastTestedAt string `json:"lastTestedAt,omitempty"`
}

// PerformanceRecord は単語1件に対する成績レコードです。
// 不変条件: ID == WordID。成績レコードは単語と1対1で、独立したidを持ちません。
// そのため突き合わせも自身のidではなく単語の自然キー(english)で行います。
type PerformanceRecord struct {
	ID      string             `json:"id"`
	WordID  string             `json:"wordId"`
	English string             `json:"english"`
	Owner   string             `json:"owner,omitempty"`
	Metrics PerformanceMetrics `json:"metrics"`
	Meta    *RecordMeta        `json:"meta,omitempty"`
}

func (p *PerformanceRecord) RecordID() string { return p.ID }

func (p *PerformanceRecord) NaturalKey() string { return NormalizeNaturalKey(p.English) }

// Clone は完全に独立したコピーを返します
func (p *PerformanceRecord) Clone() *PerformanceRecord {
	out := *p
	if p.Meta != nil {
		meta := *p.Meta
		out.Meta = &meta
	}
	return &out
}
