package jffs2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/flashimg/flashimg/imgfs"
	"github.com/flashimg/flashimg/internal/lzo"
	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz/lzma"
)

// Compression identifies one of JFFS2's nine registered node-data codecs.
type Compression uint8

const (
	CompNone      Compression = 0
	CompZero      Compression = 1
	CompRTime     Compression = 2
	CompRubinMips Compression = 3
	CompCopy      Compression = 4
	CompDynRubin  Compression = 5
	CompZlib      Compression = 6
	CompLZO       Compression = 7
	CompLZMA      Compression = 8
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZero:
		return "zero"
	case CompRTime:
		return "rtime"
	case CompRubinMips:
		return "rubinmips"
	case CompCopy:
		return "copy"
	case CompDynRubin:
		return "dynrubin"
	case CompZlib:
		return "zlib"
	case CompLZO:
		return "lzo"
	case CompLZMA:
		return "lzma"
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

// decompress expands an inode-version node's data payload. rubinmips and
// dynrubin have no public Go implementation; they fail as unsupported
// rather than being guessed at.
func decompress(c Compression, data []byte, dsize int) ([]byte, error) {
	switch c {
	case CompNone, CompCopy:
		if len(data) < dsize {
			return nil, fmt.Errorf("jffs2: short %s-compressed node: have %d want %d", c, len(data), dsize)
		}
		out := make([]byte, dsize)
		copy(out, data)
		return out, nil
	case CompZero:
		return make([]byte, dsize), nil
	case CompRTime:
		return rtimeDecompress(data, dsize)
	case CompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompLZO:
		return lzo.Decompress1X(data, dsize)
	case CompLZMA:
		lr, err := lzma.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(lr)
	default:
		return nil, imgfs.NewError(imgfs.KindUnsupportedCompression, "jffs2: decompress", "", errCompressionID(c))
	}
}

type errCompressionID Compression

func (e errCompressionID) Error() string { return Compression(e).String() }
