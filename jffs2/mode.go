package jffs2

import "io/fs"

// POSIX S_IFMT file-type bits, as stored directly in a RawINode's Mode
// field (unlike squashfs, JFFS2 keeps the kernel's own mode word rather
// than a separate inode-type enum).
const (
	sIFMT   = 0170000
	sIFSOCK = 0140000
	sIFLNK  = 0120000
	sIFREG  = 0100000
	sIFBLK  = 0060000
	sIFDIR  = 0040000
	sIFCHR  = 0020000
	sIFIFO  = 0010000
)

// fileMode converts a raw POSIX mode word into an fs.FileMode, keeping
// the permission bits and translating the type bits to their Go
// equivalents.
func fileMode(mode uint32) fs.FileMode {
	perm := fs.FileMode(mode & 0777)
	switch mode & sIFMT {
	case sIFDIR:
		return perm | fs.ModeDir
	case sIFLNK:
		return perm | fs.ModeSymlink
	case sIFBLK:
		return perm | fs.ModeDevice
	case sIFCHR:
		return perm | fs.ModeDevice | fs.ModeCharDevice
	case sIFIFO:
		return perm | fs.ModeNamedPipe
	case sIFSOCK:
		return perm | fs.ModeSocket
	default:
		return perm
	}
}
