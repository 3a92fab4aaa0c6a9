package pkg

import "github.com/juju/errors"

// 跨层共享的错误类型；NotFound / NotValid / Unauthorized / Forbidden / AlreadyExists
// 直接使用 juju/errors 自带的类型
const (
	ErrContentBlocked      = errors.ConstError("content blocked")
	ErrNotVerified         = errors.ConstError("account not verified")
	ErrDeletionFailed      = errors.ConstError("deletion failed")
	ErrTransactionFailed   = errors.ConstError("transaction failed")
	ErrUpstreamUnavailable = errors.ConstError("upstream unavailable")
	ErrRateLimited         = errors.ConstError("too many requests")
)
