// internal/service/deduplicator.go
package service

// Deduplicator は1バッチ内で同一レコードを2回処理しないためのキー集合です。
// バッチ実行ごとに生成して値として持ち回り、呼び出しをまたいで共有しません。
type Deduplicator struct {
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// ShouldProcess は初見のキーならtrueを返して記録し、以後同じキーにはfalseを返します。
// 空キー(自然キーを持たないレコード)は重複判定のしようがないため常に処理します。
func (d *Deduplicator) ShouldProcess(key string) bool {
	if key == "" {
		return true
	}
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}
