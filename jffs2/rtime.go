package jffs2

import "errors"

// ErrRTimeTruncated is returned when an rtime-compressed node runs out of
// input before dsize output bytes have been produced.
var ErrRTimeTruncated = errors.New("jffs2: truncated rtime stream")

// rtimeDecompress implements JFFS2's RTIME codec (compression id 2): a
// 256-entry table of "last position this byte value was written", used to
// replay short backward copies. Not a general LZ variant — there is no
// length/distance pair, only a repeat count applied at the last offset a
// given byte value was seen.
func rtimeDecompress(src []byte, dsize int) ([]byte, error) {
	var positions [256]int
	out := make([]byte, dsize)

	var ip, outpos int
	for outpos < dsize {
		if ip+1 >= len(src) {
			return nil, ErrRTimeTruncated
		}
		value := src[ip]
		ip++
		out[outpos] = value
		outpos++

		repeat := int(src[ip])
		ip++

		backoffs := positions[value]
		positions[value] = outpos

		if repeat == 0 {
			continue
		}
		if outpos+repeat > dsize {
			return nil, ErrRTimeTruncated
		}
		// The source region can overlap the destination (backoffs may
		// land inside bytes written during this very run), so copy one
		// byte at a time rather than via a bulk slice copy.
		for repeat > 0 {
			out[outpos] = out[backoffs]
			outpos++
			backoffs++
			repeat--
		}
	}
	return out, nil
}
