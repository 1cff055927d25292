// errors/graph_errors.go
package errors

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrInvalidRequest    = errors.New("invalid access request")
	ErrPolicyFileMissing = errors.New("policy rules file not found")
)
