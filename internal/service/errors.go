package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/repository"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnsupported = errors.New("operation not supported")
)

// Error 携带面向调用方的描述，kind 为上面的某个哨兵错误，调用方通过 errors.Is 判断类型
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

func notFoundError(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func unsupportedError(format string, args ...any) error {
	return &Error{kind: ErrUnsupported, msg: fmt.Sprintf(format, args...)}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, repository.ErrUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, repository.ErrForeignKeyViolation)
}
