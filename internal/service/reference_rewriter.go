// internal/service/reference_rewriter.go
package service

import (
	"go_5_vocab_porter/internal/model"

	"github.com/google/uuid"
)

// ReferenceRewriter はレコード内の所有者フィールドと既知の外部キー参照を
// 書き換えます。汎用的なオブジェクト走査ではなく、レコード型ごとのtype switchで
// 処理するため、参照の形はすべてここに列挙されています。
//
// 2つのパスから成ります:
//
//	(a) 所有者の洗浄 — すべての深さのownerフィールドをインポート先テナントで
//	    上書きする。remapの有無に関わらず毎回実行する。トップレベルとは別に
//	    メタ情報の中に元の所有者のコピーが残っていることがあるため。
//	(b) 外部キーの修復 — remapされたレコードに限り、参照の自然キーを
//	    参照先コレクションの索引で引き直し、一致するidに置き換える。
//	    見つからない参照はそのまま残し (nullにしない)、未解決数として数える。
//
// 戻り値は常に完全に独立したコピーで、入力レコードは一切変更しません。
type ReferenceRewriter struct{}

func NewReferenceRewriter() *ReferenceRewriter {
	return &ReferenceRewriter{}
}

// Rewrite は targetID を書き込み先idとして適用し、洗浄・修復済みのコピーと
// 未解決参照の数を返します。
func (rw *ReferenceRewriter) Rewrite(rec model.Record, tenantID uuid.UUID, targetID string, remapped bool, idx *NaturalKeyIndex) (model.Record, int) {
	owner := tenantID.String()
	wordsKey := model.ScopeWords.CollectionKey()

	switch v := rec.(type) {
	case *model.Word:
		out := v.Clone()
		out.ID = targetID
		// remap時は自分自身の自然キーを索引で引き直す。同じ単語を既に
		// 所有していればそのidへ全文上書きし、払い出された新idは使わない。
		// 同じバンドルを再投入しても単語が増殖しないための要。
		if remapped {
			if mapped, ok := idx.Lookup(wordsKey, out.NaturalKey()); ok {
				out.ID = mapped
			}
		}
		out.Owner = owner
		cleanseMeta(out.Meta, owner)
		return out, 0

	case *model.PerformanceRecord:
		out := v.Clone()
		out.Owner = owner
		cleanseMeta(out.Meta, owner)
		// 不変条件 id == wordId の維持。成績レコードの真の同一性は
		// 「単語Xの成績」なので、単語索引で解決できればそのidに付け替える。
		unresolved := 0
		if mapped, ok := idx.Lookup(wordsKey, out.NaturalKey()); ok {
			out.ID = mapped
			out.WordID = mapped
		} else {
			out.ID = targetID
			out.WordID = targetID
			if remapped {
				unresolved++
			}
		}
		return out, unresolved

	case *model.TestSession:
		out := v.Clone()
		out.ID = targetID
		out.Owner = owner
		cleanseMeta(out.Meta, owner)
		unresolved := 0
		if remapped {
			for i := range out.Answers {
				unresolved += repairWordRef(&out.Answers[i].Word, idx)
			}
			for i := range out.WrongWords {
				unresolved += repairWordRef(&out.WrongWords[i], idx)
			}
			for i := range out.Insights {
				unresolved += repairWordID(&out.Insights[i].WordID, out.Insights[i].English, idx)
			}
		}
		return out, unresolved

	case *model.StatisticsRecord:
		out := v.Clone()
		out.ID = targetID
		out.Owner = owner
		cleanseMeta(out.Meta, owner)
		unresolved := 0
		if remapped {
			for ch, stat := range out.ChapterStats {
				for i := range stat.Words {
					unresolved += repairWordRef(&stat.Words[i], idx)
				}
				out.ChapterStats[ch] = stat
			}
			for i := range out.PerformanceData.WordPerformances {
				p := &out.PerformanceData.WordPerformances[i]
				unresolved += repairWordID(&p.WordID, p.English, idx)
			}
			// セッション参照は原理的に修復できない。バッチはスコープ単位
			// なので、参照先セッションは別バッチで新idに付け替えられており、
			// 旧idとの対応はこの時点では失われている。nullにはせず残した
			// まま未解決として報告する。
			for i := range out.RecentSessions {
				if out.RecentSessions[i].Ref() != "" {
					unresolved++
				}
			}
		}
		return out, unresolved
	}

	// modelのレコード型を網羅している。ここには到達しない。
	return rec, 0
}

// cleanseMeta はメタ情報内に残る所有者のコピーを無条件に上書きします
func cleanseMeta(meta *model.RecordMeta, owner string) {
	if meta != nil {
		meta.Owner = owner
	}
}

// repairWordRef は参照の自然キーを単語索引で引き直し、idが変わっていれば
// 置き換えます。引けなかった参照はそのまま残して1を返します。
func repairWordRef(ref *model.WordRef, idx *NaturalKeyIndex) int {
	key := model.NormalizeNaturalKey(ref.English)
	mapped, ok := idx.Lookup(model.ScopeWords.CollectionKey(), key)
	if !ok {
		return 1
	}
	if mapped != ref.ID {
		ref.ID = mapped
	}
	return 0
}

func repairWordID(wordID *string, english string, idx *NaturalKeyIndex) int {
	key := model.NormalizeNaturalKey(english)
	mapped, ok := idx.Lookup(model.ScopeWords.CollectionKey(), key)
	if !ok {
		return 1
	}
	if mapped != *wordID {
		*wordID = mapped
	}
	return 0
}
