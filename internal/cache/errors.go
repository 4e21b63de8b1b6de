package cache

import "errors"

var (
	errStoreDown  = errors.New("cache store unavailable")
	errNotInteger = errors.New("cache value is not an integer")
)
