package repository

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	// ErrCatalogUnavailable снимок каталога отсутствует или не читается.
	ErrCatalogUnavailable = errors.New("property catalog unavailable")
)
