package squashfs

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/flashimg/flashimg/imgfs"
	"github.com/flashimg/flashimg/internal/lzo"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Compression identifies one of SquashFS's six registered metadata/data
// block codecs.
type Compression uint16

const (
	GZip Compression = 1
	LZMA Compression = 2
	LZO  Compression = 3
	XZ   Compression = 4
	LZ4  Compression = 5
	ZSTD Compression = 6
)

func (s Compression) String() string {
	switch s {
	case GZip:
		return "GZip"
	case LZMA:
		return "LZMA"
	case LZO:
		return "LZO"
	case XZ:
		return "XZ"
	case LZ4:
		return "LZ4"
	case ZSTD:
		return "ZSTD"
	}
	return fmt.Sprintf("Compression(%d)", s)
}

// decompress expands a single metadata block or data block (already
// stripped of its 2-byte length header) according to the superblock's
// compression id. Every codec id the format defines has a registered
// decoder; an id outside 1-6 is unsupported.
func (s Compression) decompress(buf []byte) ([]byte, error) {
	switch s {
	case GZip:
		zr, err := zlib.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case LZMA:
		lr, err := lzma.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(lr)
	case LZO:
		// SquashFS caps metadata blocks at 8KiB and data blocks at the
		// configured block size; either way the decompressed size never
		// exceeds a handful of the compressed size, so size the output
		// buffer generously rather than threading an exact size through.
		return lzo.Decompress1X(buf, len(buf)*32)
	case XZ:
		xr, err := xz.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(xr)
	case LZ4:
		return lz4Decompress(buf)
	case ZSTD:
		zr, err := zstd.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return nil, imgfs.NewError(imgfs.KindUnsupportedCompression, "squashfs: decompress",
			"", errors.New(s.String()))
	}
}
