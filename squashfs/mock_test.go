package squashfs_test

import (
	"io"
	"testing"

	"github.com/flashimg/flashimg/squashfs"
)

// errInjector is an io.ReaderAt that returns a canned error once reads
// reach a configured offset, for exercising the superblock parser's
// error paths without a real malformed image on disk.
type errInjector struct {
	data  []byte
	errAt int64
	err   error
}

func (e *errInjector) ReadAt(p []byte, off int64) (int, error) {
	if e.err != nil && off >= e.errAt {
		return 0, e.err
	}
	if off >= int64(len(e.data)) {
		return 0, io.EOF
	}
	n := copy(p, e.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestNewRejectsUnrecognizedData(t *testing.T) {
	_, err := squashfs.New(&errInjector{data: make([]byte, 100)})
	if err == nil {
		t.Fatal("expected error for data with no squashfs magic, got none")
	}
}

func TestNewRejectsTruncatedHeader(t *testing.T) {
	buf := append([]byte("hsqs"), make([]byte, 16)...)
	r := &errInjector{data: buf, errAt: 20, err: io.ErrUnexpectedEOF}

	if _, err := squashfs.New(r); err == nil {
		t.Fatal("expected error for a header cut short of the full superblock, got none")
	}
}

func TestNewRejectsInconsistentBlockSize(t *testing.T) {
	buf := append([]byte("hsqs"), make([]byte, 92)...)
	// Version says 4.0, BlockSize field (offset 12) says 4096, but
	// BlockLog (offset 22) says 11; 1<<11 != 4096, so the two disagree.
	copy(buf[12:16], []byte{0x00, 0x10, 0x00, 0x00})
	copy(buf[22:24], []byte{0x0b, 0x00})
	copy(buf[28:30], []byte{0x04, 0x00})

	if _, err := squashfs.New(&errInjector{data: buf}); err == nil {
		t.Fatal("expected error for a superblock with mismatched block size, got none")
	}
}
