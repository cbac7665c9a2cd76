package constants

// Context and header keys
const (
	ContextKeyUserID = "user_id"
	HeaderUserID     = "X-User-ID"
)

// Pagination limits
const (
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Task validation
const (
	MinDescriptionWords = 5
	MinTagLength        = 2
	MinLocationLength   = 2
)

// Rating validation
const (
	MinScore            = 1
	MaxScore            = 5
	MinCommentLength    = 3
	MaxCommentLength    = 500
	MinFlagReasonLength = 10
	MaxFlagReasonLength = 500
)

// Report validation
const (
	MinReportReasonLength = 10
	MaxReportReasonLength = 1000
)
