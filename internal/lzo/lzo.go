// Package lzo implements decompression of the LZO1X block format used by
// both SquashFS (compression id 3) and JFFS2 (compression id 7). No
// maintained Go LZO library exists, so this is a port of the Linux
// kernel's state-threaded lzo1x_decompress_safe algorithm from pointer
// arithmetic to Go slice indices.
package lzo

import "errors"

// ErrCorrupt is returned when the compressed stream does not follow the
// LZO1X grammar: truncated input, or a match referencing data before the
// start of the output produced so far.
var ErrCorrupt = errors.New("lzo: corrupt compressed stream")

const m2MaxOffset = 0x0800

type decoder struct {
	src []byte
	ip  int
	out []byte
}

func (d *decoder) next() (int, error) {
	if d.ip >= len(d.src) {
		return 0, ErrCorrupt
	}
	b := d.src[d.ip]
	d.ip++
	return int(b), nil
}

func (d *decoder) copyLiteral(n int) error {
	if n < 0 || d.ip+n > len(d.src) {
		return ErrCorrupt
	}
	d.out = append(d.out, d.src[d.ip:d.ip+n]...)
	d.ip += n
	return nil
}

// copyMatch appends n bytes copied from mPos (an absolute index into the
// output produced so far). The region may overlap the write cursor, so
// this proceeds byte by byte rather than via a bulk slice copy.
func (d *decoder) copyMatch(mPos, n int) error {
	if mPos < 0 || mPos >= len(d.out) || n < 0 {
		return ErrCorrupt
	}
	for i := 0; i < n; i++ {
		d.out = append(d.out, d.out[mPos+i])
	}
	return nil
}

// readVarLen implements LZO's "length nibble exhausted" extension: add 255
// for every 0x00 byte, then add the final nonzero byte.
func (d *decoder) readVarLen() (int, error) {
	t := 0
	for {
		b, err := d.next()
		if err != nil {
			return 0, err
		}
		if b != 0 {
			return t + b, nil
		}
		t += 255
	}
}

// Decompress1X decodes an LZO1X-compressed block. expectedSize, if known,
// presizes the output buffer; decoding stops at the stream's own
// end-of-data marker (a zero-distance M4 match), or, for truncated
// fixture data, at end of input.
//
// The format is a token stream threaded by a small literal-count state:
// after every match, the low 2 bits of its token (M1/M2) or of its first
// distance byte (M3/M4) give the number of literal bytes (0-3) copied
// before the next token. A token below 16 is then a fresh literal run if
// that count was 0, a 2-byte chained match if it was 1-3, and a 3-byte
// match biased 2048 back if the previous event was a full literal run.
func Decompress1X(src []byte, expectedSize int) ([]byte, error) {
	d := &decoder{src: src, out: make([]byte, 0, expectedSize)}

	// state is the trailing-literal count of the previous event: 0 after
	// a match with no trailing literals, 1-3 after one with that many,
	// 4 after a full literal run.
	state := 0

	t, err := d.next()
	if err != nil {
		return nil, err
	}
	if t > 17 {
		// initial literal run, length encoded directly in the first byte
		n := t - 17
		if err := d.copyLiteral(n); err != nil {
			return nil, err
		}
		if n < 4 {
			state = n
		} else {
			state = 4
		}
		if t, err = d.next(); err != nil {
			return nil, ErrCorrupt
		}
	}

	for {
		var mPos, mLen int

		switch {
		case t < 16 && state == 0:
			// literal run: length t+3, or varlen-extended when t == 0
			n := t
			if t == 0 {
				extra, err := d.readVarLen()
				if err != nil {
					return nil, err
				}
				n = 15 + extra
			}
			if err := d.copyLiteral(n + 3); err != nil {
				return nil, err
			}
			state = 4
			if t, err = d.next(); err != nil {
				return d.out, nil // truncated trailing padding, best effort
			}
			continue

		case t < 16 && state == 4:
			// M1 after a literal run: 3-byte match, offset biased 2048 back
			lo, err := d.next()
			if err != nil {
				return nil, err
			}
			mPos = len(d.out) - 1 - m2MaxOffset - (t >> 2) - lo<<2
			mLen = 3
			state = t & 3

		case t < 16:
			// M1 chained directly after another match's trailing literals
			lo, err := d.next()
			if err != nil {
				return nil, err
			}
			mPos = len(d.out) - 1 - (t >> 2) - lo<<2
			mLen = 2
			state = t & 3

		case t >= 64:
			// M2: 3-bit length and 11-bit distance packed into token + 1 byte
			hb, err := d.next()
			if err != nil {
				return nil, err
			}
			mPos = len(d.out) - 1 - ((t >> 2) & 7) - hb<<3
			mLen = t>>5 + 1
			state = t & 3

		case t >= 32:
			// M3: 5-bit length (varlen-extended), 14-bit distance
			n := t & 31
			if n == 0 {
				extra, err := d.readVarLen()
				if err != nil {
					return nil, err
				}
				n = 31 + extra
			}
			lo, err := d.next()
			if err != nil {
				return nil, err
			}
			hi, err := d.next()
			if err != nil {
				return nil, err
			}
			mPos = len(d.out) - 1 - (lo>>2 + hi<<6)
			mLen = n + 2
			state = lo & 3

		default:
			// 16 <= t < 32: M4, high distance bit folded into the token,
			// +0x4000 bias. A zero distance with a zero high bit is the
			// stream's end-of-data marker.
			high := (t & 8) << 11
			n := t & 7
			if n == 0 {
				extra, err := d.readVarLen()
				if err != nil {
					return nil, err
				}
				n = 7 + extra
			}
			lo, err := d.next()
			if err != nil {
				return nil, err
			}
			hi, err := d.next()
			if err != nil {
				return nil, err
			}
			mPos = len(d.out) - high - (lo>>2 + hi<<6)
			if mPos == len(d.out) {
				return d.out, nil
			}
			mPos -= 0x4000
			mLen = n + 2
			state = lo & 3
		}

		if err := d.copyMatch(mPos, mLen); err != nil {
			return nil, err
		}
		if state > 0 {
			if err := d.copyLiteral(state); err != nil {
				return nil, err
			}
		}
		if t, err = d.next(); err != nil {
			return d.out, nil
		}
	}
}
