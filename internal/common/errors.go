package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// crypto specific errors
	ErrorCorruptData = errors.New("corrupt data")
	ErrorKeySize     = errors.New("invalid key size")
)
