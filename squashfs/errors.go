package squashfs

import "errors"

// Sentinel errors, usable with errors.Is.
var (
	ErrInvalidFile      = errors.New("squashfs: signature not found")
	ErrInvalidSuper     = errors.New("squashfs: invalid superblock")
	ErrInvalidVersion   = errors.New("squashfs: unsupported version, only 4.0 is supported")
	ErrInodeNotExported = errors.New("squashfs: inode not present in export table")
	ErrNotDirectory     = errors.New("squashfs: not a directory")
	ErrTooManySymlinks  = errors.New("squashfs: too many levels of symbolic links")
)
