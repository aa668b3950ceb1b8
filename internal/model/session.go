// internal/model/session.go
package model

// SessionAnswer はテストセッション中の1回答です
type SessionAnswer struct {
	Word        WordRef `json:"word"`
	Correct     bool    `json:"correct"`
	TimeTakenMS int     `json:"timeTakenMs,omitempty"`
}

// SessionInsight はAI解析が生成した単語ごとの所見です
type SessionInsight struct {
	WordID  string `json:"wordId,omitempty"`
	English string `json:"english,omitempty"`
	Note    string `json:"note,omitempty"`
}

// TestSession は1回のフラッシュカードテストの履歴です。
// 単語参照が複数の配列に埋め込まれており、いずれもidと自然キーを冗長に持ちます。
type TestSession struct {
	ID         string           `json:"id"`
	Owner      string           `json:"owner,omitempty"`
	Deleted    bool             `json:"deleted,omitempty"`
	StartedAt  string           `json:"startedAt,omitempty"`
	Answers    []SessionAnswer  `json:"answers,omitempty"`
	WrongWords []WordRef        `json:"wrongWords,omitempty"`
	Insights   []SessionInsight `json:"insights,omitempty"`
	Meta       *RecordMeta      `json:"meta,omitempty"`
}

func (s *TestSession) RecordID() string { return s.ID }

// セッションはid主体で管理するためidが自然キー
func (s *TestSession) NaturalKey() string { return s.ID }

// Clone は完全に独立したコピーを返します
func (s *TestSession) Clone() *TestSession {
	out := *s
	if s.Meta != nil {
		meta := *s.Meta
		out.Meta = &meta
	}
	if s.Answers != nil {
		out.Answers = make([]SessionAnswer, len(s.Answers))
		copy(out.Answers, s.Answers)
	}
	if s.WrongWords != nil {
		out.WrongWords = make([]WordRef, len(s.WrongWords))
		copy(out.WrongWords, s.WrongWords)
	}
	if s.Insights != nil {
		out.Insights = make([]SessionInsight, len(s.Insights))
		copy(out.Insights, s.Insights)
	}
	return &out
}
