// internal/service/bundle_codec.go
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go_5_vocab_porter/internal/model"

	"github.com/google/uuid"
)

// BundleCodec はスコープ付きバンドルの直列化・復元を行います。
// 純粋な変換のみで副作用は持ちません。
//
// デコードは3種類の歴史的形状を受け付けます:
//   - 裸の配列:        [ {...}, ... ]
//   - キー付きオブジェクト: { "<collectionKey>": [...], "exportDate": ..., "exportType": ... }
//   - 旧ラッパー:       { "data": [...] }
//
// いずれも単一のレコード列に正規化してから下流へ渡します。
type BundleCodec struct{}

func NewBundleCodec() *BundleCodec {
	return &BundleCodec{}
}

// legacyArrayKey は旧形式のラップ配列のキー
const legacyArrayKey = "data"

// EncodeBundle は所有者フィールドをすべての深さで取り除いた持ち出し用バンドルを
// 生成し、exportType を刻印します。
func (c *BundleCodec) EncodeBundle(scope model.Scope, records []model.Record, now time.Time) ([]byte, error) {
	stripped := make([]model.Record, 0, len(records))
	for _, rec := range records {
		stripped = append(stripped, stripOwner(rec))
	}

	bundle := map[string]any{
		scope.CollectionKey(): stripped,
		"exportDate":          now.UTC().Format(time.RFC3339),
		"exportType":          scope.ExportType(),
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encoding %s bundle: %w", scope, err)
	}
	return data, nil
}

// DecodeBundle はバンドルをパースしてレコード列へ正規化します。
// strict が真のとき、exportType が要求スコープと食い違うバンドルは
// ErrScopeMismatch で拒否します (偽なら警告して続行)。
func (c *BundleCodec) DecodeBundle(scope model.Scope, data []byte, strict bool, logger *slog.Logger) ([]model.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input: %w", model.ErrMalformedBundle)
	}

	var raws []json.RawMessage
	switch trimmed[0] {
	case '[':
		// 裸の配列形式
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("parsing record array: %w", model.ErrMalformedBundle)
		}

	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("parsing bundle object: %w", model.ErrMalformedBundle)
		}

		if raw, ok := envelope["exportType"]; ok {
			var declared string
			if err := json.Unmarshal(raw, &declared); err == nil && declared != "" && declared != scope.ExportType() {
				if strict {
					return nil, fmt.Errorf("bundle declares %q, requested %q: %w", declared, scope.ExportType(), model.ErrScopeMismatch)
				}
				logger.Warn("Bundle exportType does not match requested scope, continuing",
					"declared", declared,
					"requested", scope.ExportType(),
				)
			}
		}

		arr, ok := envelope[scope.CollectionKey()]
		if !ok {
			arr, ok = envelope[legacyArrayKey]
		}
		if !ok {
			return nil, fmt.Errorf("bundle has no %q array: %w", scope.CollectionKey(), model.ErrMalformedBundle)
		}
		if err := json.Unmarshal(arr, &raws); err != nil {
			return nil, fmt.Errorf("parsing %q array: %w", scope.CollectionKey(), model.ErrMalformedBundle)
		}

	default:
		return nil, fmt.Errorf("top-level value is not an object or array: %w", model.ErrMalformedBundle)
	}

	records := make([]model.Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := decodeRecord(scope, raw)
		if err != nil {
			// パース段階のエラーは書き込み前に全体を中断する
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRecord はスコープに対応する型へ復元します。idを持たないレコードは
// 拒否せず、この場でidを払い出します。
func decodeRecord(scope model.Scope, raw json.RawMessage) (model.Record, error) {
	switch scope {
	case model.ScopeWords:
		var w model.Word
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("decoding word record: %w", model.ErrMalformedBundle)
		}
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		return &w, nil

	case model.ScopePerformance:
		var p model.PerformanceRecord
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decoding performance record: %w", model.ErrMalformedBundle)
		}
		// id == wordId の片方しか入っていない旧データを補完する
		switch {
		case p.ID == "" && p.WordID == "":
			id := uuid.NewString()
			p.ID, p.WordID = id, id
		case p.ID == "":
			p.ID = p.WordID
		case p.WordID == "":
			p.WordID = p.ID
		}
		return &p, nil

	case model.ScopeHistory:
		var s model.TestSession
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding test session: %w", model.ErrMalformedBundle)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		return &s, nil

	case model.ScopeStatistics:
		var s model.StatisticsRecord
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding statistics record: %w", model.ErrMalformedBundle)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		return &s, nil
	}

	return nil, fmt.Errorf("unknown scope: %w", model.ErrInvalidInput)
}

// stripOwner は所有者フィールドを空にした独立コピーを返します。
// 空文字はomitemptyにより出力へ現れないため、バンドルは所有者情報を持ちません。
func stripOwner(rec model.Record) model.Record {
	switch v := rec.(type) {
	case *model.Word:
		out := v.Clone()
		out.Owner = ""
		if out.Meta != nil {
			out.Meta.Owner = ""
		}
		return out
	case *model.PerformanceRecord:
		out := v.Clone()
		out.Owner = ""
		if out.Meta != nil {
			out.Meta.Owner = ""
		}
		return out
	case *model.TestSession:
		out := v.Clone()
		out.Owner = ""
		if out.Meta != nil {
			out.Meta.Owner = ""
		}
		return out
	case *model.StatisticsRecord:
		out := v.Clone()
		out.Owner = ""
		if out.Meta != nil {
			out.Meta.Owner = ""
		}
		return out
	}
	return rec
}
