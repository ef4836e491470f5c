package config

// Default values.
const (
	DefaultIndentSize      = 4
	DefaultMaxConcurrency  = 8
	DefaultOracleCacheSize = 4096
	DefaultMaxDocumentSize = "4MB"
	DefaultLogLevel        = "warn"
)
