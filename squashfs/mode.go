package squashfs

import "io/fs"

// POSIX file-type and set-id bits, as stored in an inode's on-disk
// permissions field. See stat(2).
const (
	modeIFMT   = 0xf000
	modeIFREG  = 0x8000
	modeIFDIR  = 0x4000
	modeIFBLK  = 0x6000
	modeIFCHR  = 0x2000
	modeIFIFO  = 0x1000
	modeIFLNK  = 0xa000
	modeIFSOCK = 0xc000

	modeISVTX = 0x200
	modeISGID = 0x400
	modeISUID = 0x800
)

// UnixToMode converts a raw POSIX mode word, as stored in an inode, to an
// fs.FileMode with the equivalent type and permission bits.
func UnixToMode(mode uint32) fs.FileMode {
	res := fs.FileMode(mode & 0777)

	switch mode & modeIFMT {
	case modeIFCHR:
		res |= fs.ModeCharDevice | fs.ModeDevice
	case modeIFBLK:
		res |= fs.ModeDevice
	case modeIFDIR:
		res |= fs.ModeDir
	case modeIFIFO:
		res |= fs.ModeNamedPipe
	case modeIFLNK:
		res |= fs.ModeSymlink
	case modeIFSOCK:
		res |= fs.ModeSocket
	}

	if mode&modeISGID != 0 {
		res |= fs.ModeSetgid
	}
	if mode&modeISUID != 0 {
		res |= fs.ModeSetuid
	}
	if mode&modeISVTX != 0 {
		res |= fs.ModeSticky
	}

	return res
}
