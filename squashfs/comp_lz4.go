package squashfs

import "github.com/pierrec/lz4/v4"

// lz4Decompress expands a raw LZ4 block (not the framed/streaming format)
// as used by SquashFS's LZ4 codec. The uncompressed size isn't carried
// alongside the block, so the destination buffer is grown and retried
// until it's large enough, as lz4.UncompressBlock reports ErrInvalidSourceShortBuffer
// rather than a size.
func lz4Decompress(src []byte) ([]byte, error) {
	dst := make([]byte, len(src)*4+256)
	for {
		n, err := lz4.UncompressBlock(src, dst)
		if err == nil {
			return dst[:n], nil
		}
		if err == lz4.ErrInvalidSourceShortBuffer {
			dst = make([]byte, len(dst)*2)
			continue
		}
		return nil, err
	}
}
