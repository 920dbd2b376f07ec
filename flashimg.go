// Package flashimg detects and opens flash filesystem images (SquashFS,
// JFFS2) behind a single format-neutral interface.
package flashimg

import (
	"os"

	"github.com/flashimg/flashimg/imgfs"
	"github.com/flashimg/flashimg/jffs2"
	"github.com/flashimg/flashimg/squashfs"
)

// Open probes path's first bytes against each supported format's magic,
// in both byte orders, and returns the matching format's Image. It
// returns (nil, nil) — no error — if nothing recognized the file, so
// callers can try other handling without a type assertion.
func Open(path string) (imgfs.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var hdr [4]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		f.Close()
		return nil, err
	}

	switch string(hdr[:4]) {
	case "hsqs", "sqsh":
		f.Close()
		sb, err := squashfs.Open(path)
		if err != nil {
			return nil, err
		}
		return squashfs.AsImage(sb), nil
	}

	if hdr[0] == 0x19 && hdr[1] == 0x85 || hdr[0] == 0x85 && hdr[1] == 0x19 {
		f.Close()
		img, err := jffs2.Open(path)
		if err != nil {
			return nil, err
		}
		return img, nil
	}

	f.Close()
	return nil, nil
}
