package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyOperatorID contextKey = "operator_id"
	ContextKeyRole       contextKey = "operator_role"
	ContextKeyTokenID    contextKey = "token_id"
	ContextKeyRequestID  contextKey = "request_id"
)

const (
	RoleOperator = "operator"
	RoleReader   = "reader"
)

const (
	RequestParamPubkey      = "pubkey"
	RequestParamPage        = "page"
	RequestParamLimit       = "limit"
	RequestParamSortBy      = "sort_by"
	RequestParamSortDir     = "sort_dir"
	RequestParamOwner       = "owner"
	RequestParamMinLamports = "min_lamports"
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 10
	MaxValueLimit     = 100
)

const (
	CacheKeyAccount = "account"
)

const (
	DateFormat = time.RFC3339
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelProgramScopeName    = "program"
	OtelRuntimeScopeName    = "runtime"

	OtelQueryAttributeKey = "query"
	OtelS3ScopeName       = "s3"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderAPIKey             = "X-API-Key"
)

const (
	ContentTypeJSON        = "application/json"
	ContentTypeOctetStream = "application/octet-stream"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	LedgerStorageMemory   = "memory"
	LedgerStoragePostgres = "postgres"
)

const (
	Empty = ""
)
