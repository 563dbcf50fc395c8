package main

import "errors"

var (
	// ErrVerifyFailed occurs when a copied file does not match its source
	// after copying.
	ErrVerifyFailed = errors.New("checksum mismatch after copy")
)
