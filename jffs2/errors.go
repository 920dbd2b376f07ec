package jffs2

import "errors"

// Package-specific error variables usable with errors.Is, mirroring the
// squashfs package's errors.go.
var (
	ErrMagic          = errors.New("jffs2: magic not found")
	ErrHeaderChecksum = errors.New("jffs2: node header crc mismatch")
	ErrNodeChecksum   = errors.New("jffs2: node crc mismatch")
	ErrNameChecksum   = errors.New("jffs2: dirent name crc mismatch")
)
