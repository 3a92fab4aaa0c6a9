// Package service holds the business rules between the HTTP handlers and the
// repositories. Errors returned from here are juju/errors types or pkg
// sentinels; handlers map them onto status codes.
package service

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"gorm.io/gorm"

	"HugHub/internal/pkg"
)

var logger = loggo.GetLogger("hughub.service")

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// storageError 存储层的意外错误，对外只暴露 ErrTransactionFailed
func storageError(err error) error {
	return fmt.Errorf("%w: %v", pkg.ErrTransactionFailed, err)
}

// lookupError 记录不存在转为 NotFound，其余按存储错误处理
func lookupError(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFoundf(format, args...)
	}
	return storageError(err)
}

func pageBounds(page, size int) (offset, limit int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return (page - 1) * size, size
}
