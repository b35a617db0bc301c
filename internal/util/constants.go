package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	SessionDriverMemory = "memory"
	SessionDriverRedis  = "redis"
)

// token lookup locations, in the order they are consulted
const (
	SessionHeader = "X-Session-Token"
	SessionCookie = "session_token"
	TokenQuery    = "token"
)

const (
	DefaultHistoryPageSize = 50
	MaxHistoryPageSize     = 500
	RecentLoginsLimit      = 20
)

// data files the college-info directory may hold
var AllowedDataExtensions = []string{".json", ".md", ".txt", ".csv"}
