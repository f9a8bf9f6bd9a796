package apperrors

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidRelation       = errors.New("invalid relation")
	ErrUnsupportedOperation  = errors.New("unsupported operation")
	ErrUnsupportedDatasource = errors.New("unsupported datasource type")
	ErrUnsafeIdentifier      = errors.New("unsafe identifier")
	ErrInvalidConfig         = errors.New("invalid datasource config")
)
