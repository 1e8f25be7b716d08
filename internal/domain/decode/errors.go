package decode

import "errors"

// Sentinel kinds for decode errors.
var (
	// ErrUnreadableFile means the blob decodes under neither UTF-8 nor CP1251.
	// The whole import aborts and nothing is persisted.
	ErrUnreadableFile = errors.New("unreadable file")
)
