// internal/model/statistics.go
package model

// ChapterStat は章ごとの学習状況です
type ChapterStat struct {
	Words   []WordRef `json:"words,omitempty"`
	Correct int       `json:"correct,omitempty"`
	Total   int       `json:"total,omitempty"`
}

// WordPerfRef は統計レコード内の単語成績への参照です
type WordPerfRef struct {
	WordID   string  `json:"wordId,omitempty"`
	English  string  `json:"english,omitempty"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

// PerformanceData は統計レコードに埋め込まれる成績サマリです
type PerformanceData struct {
	WordPerformances []WordPerfRef `json:"wordPerformances,omitempty"`
}

// SessionRef はセッションへの参照です。旧形式では sessionId キーを使っていました。
type SessionRef struct {
	ID        string `json:"id,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Ref は新旧どちらの形式でも参照先セッションidを返します
func (r SessionRef) Ref() string {
	if r.ID != "" {
		return r.ID
	}
	return r.SessionID
}

// StatisticsRecord はテナント単位の集計統計です。最も入れ子が深く、
// 単語参照とセッション参照を複数の階層に含みます。
type StatisticsRecord struct {
	ID              string                 `json:"id"`
	Owner           string                 `json:"owner,omitempty"`
	ChapterStats    map[string]ChapterStat `json:"chapterStats,omitempty"`
	PerformanceData PerformanceData        `json:"performanceData"`
	RecentSessions  []SessionRef           `json:"recentSessions,omitempty"`
	Meta            *RecordMeta            `json:"meta,omitempty"`
}

func (s *StatisticsRecord) RecordID() string { return s.ID }

// 統計はid主体で管理するためidが自然キー
func (s *StatisticsRecord) NaturalKey() string { return s.ID }

// Clone は完全に独立したコピーを返します
func (s *StatisticsRecord) Clone() *StatisticsRecord {
	out := *s
	if s.Meta != nil {
		meta := *s.Meta
		out.Meta = &meta
	}
	if s.ChapterStats != nil {
		out.ChapterStats = make(map[string]ChapterStat, len(s.ChapterStats))
		for ch, stat := range s.ChapterStats {
			if stat.Words != nil {
				words := make([]WordRef, len(stat.Words))
				copy(words, stat.Words)
				stat.Words = words
			}
			out.ChapterStats[ch] = stat
		}
	}
	if s.PerformanceData.WordPerformances != nil {
		perfs := make([]WordPerfRef, len(s.PerformanceData.WordPerformances))
		copy(perfs, s.PerformanceData.WordPerformances)
		out.PerformanceData.WordPerformances = perfs
	}
	if s.RecentSessions != nil {
		out.RecentSessions = make([]SessionRef, len(s.RecentSessions))
		copy(out.RecentSessions, s.RecentSessions)
	}
	return &out
}
