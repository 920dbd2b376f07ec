package squashfs

import "fmt"

// tableReader streams the decompressed contents of a metadata-block chain
// (a 2-byte length header whose top bit flags "stored uncompressed",
// followed by up to 8KiB of payload) as a flat io.Reader, transparently
// fetching and decompressing the next block once the current one is
// drained.
type tableReader struct {
	sb   *Superblock
	buf  []byte
	offt int64 // file offset of the next metadata block to fetch
}

// newInodeReader positions a tableReader at the metadata block and
// in-block byte offset packed into an inodeRef.
func (sb *Superblock) newInodeReader(ref inodeRef) (*tableReader, error) {
	return sb.newTableReader(int64(sb.InodeTableStart)+int64(ref.Index()), int(ref.Offset()))
}

// newTableReader positions a tableReader at byte offset base in the
// image, immediately loading and decompressing the first block so start
// bytes of stale data can be trimmed off its front.
func (sb *Superblock) newTableReader(base int64, start int) (*tableReader, error) {
	tr := &tableReader{sb: sb, offt: base}

	if err := tr.fetch(); err != nil {
		return nil, err
	}
	if start != 0 {
		if start > len(tr.buf) {
			return nil, fmt.Errorf("squashfs: metadata block offset %d exceeds block size %d", start, len(tr.buf))
		}
		tr.buf = tr.buf[start:]
	}

	return tr, nil
}

// fetch reads and decompresses the metadata block at tr.offt, then
// advances tr.offt past it so the next fetch picks up the following
// block in the chain.
func (tr *tableReader) fetch() error {
	hdr := make([]byte, 2)
	if _, err := tr.sb.fs.ReadAt(hdr, tr.offt); err != nil {
		return err
	}

	raw := tr.sb.order.Uint16(hdr)
	uncompressed := raw&0x8000 != 0
	size := int64(raw & 0x7fff)

	buf := make([]byte, size)
	if _, err := tr.sb.fs.ReadAt(buf, tr.offt+2); err != nil {
		return err
	}
	if !uncompressed {
		dec, err := tr.sb.Comp.decompress(buf)
		if err != nil {
			return fmt.Errorf("squashfs: decompressing metadata block at %d: %w", tr.offt, err)
		}
		buf = dec
	}

	tr.offt += 2 + size
	tr.buf = buf
	return nil
}

// Read implements io.Reader, fetching successive metadata blocks as
// needed so a caller can treat the chain as one contiguous stream.
func (tr *tableReader) Read(p []byte) (int, error) {
	if len(tr.buf) == 0 {
		if err := tr.fetch(); err != nil {
			return 0, err
		}
	}

	n := copy(p, tr.buf)
	tr.buf = tr.buf[n:]
	return n, nil
}
