// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "VocabPorter"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultJWTExpiryHours = 24
	DefaultAuthEnabled    = true

	// バンドルの上限サイズ (10MiB)。ブラウザからのファイルアップロード想定。
	DefaultMaxBundleBytes = 10 << 20
)
