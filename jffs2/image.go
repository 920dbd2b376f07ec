package jffs2

import (
	"encoding/binary"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/flashimg/flashimg/imgfs"
	"github.com/flashimg/flashimg/internal/byteio"
)

// Image is a read-only view over a JFFS2 flash image, implementing
// imgfs.Image. Unlike SquashFS there is no superblock to read: the whole
// structure is recovered by scanning every node once at Open time.
type Image struct {
	closer  io.Closer
	root    *treeNode
	inodes  map[uint32][]*RawINode
	mu      sync.Mutex
	dataOf  map[uint32][]byte
}

// Option configures New/Open.
type Option func(*config) error

type config struct {
	resyncLimit int
}

// ResyncLimit overrides the number of consecutive bad bytes the scanner
// will skip past before giving up (default 12).
func ResyncLimit(n int) Option {
	return func(c *config) error {
		c.resyncLimit = n
		return nil
	}
}

// New scans a JFFS2 image from r, sized size bytes.
func New(r io.ReaderAt, size int64, opts ...Option) (*Image, error) {
	cfg := &config{resyncLimit: defaultResyncLimit}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	order, err := detectOrder(r)
	if err != nil {
		return nil, err
	}

	br := byteio.New(r, order)
	res, err := scan(br, size, cfg.resyncLimit)
	if err != nil {
		return nil, imgfs.NewError(imgfs.KindFormat, "jffs2: scan", "", err)
	}
	synthesizeRoot(res)

	return &Image{
		root:   buildTree(res),
		inodes: res.inodes,
		dataOf: make(map[uint32][]byte),
	}, nil
}

// detectOrder reads the first two bytes of r and matches them against
// the magic value in both byte orders, since JFFS2 carries no other
// indication of endianness.
func detectOrder(r io.ReaderAt) (binary.ByteOrder, error) {
	var hdr [2]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return nil, imgfs.NewError(imgfs.KindIO, "jffs2: detect", "", err)
	}
	switch {
	case binary.LittleEndian.Uint16(hdr[:]) == magicValue:
		return binary.LittleEndian, nil
	case binary.BigEndian.Uint16(hdr[:]) == magicValue:
		return binary.BigEndian, nil
	default:
		return nil, imgfs.NewError(imgfs.KindFormat, "jffs2: detect", "", ErrMagic)
	}
}

// Open opens path and scans it as a JFFS2 image.
func Open(p string, opts ...Option) (*Image, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	img, err := New(f, fi.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	img.closer = f
	return img, nil
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// resolve walks the tree to the node named by path, returning nil if it
// does not exist.
func (img *Image) resolve(p string) *treeNode {
	n := img.root
	for _, part := range splitPath(p) {
		if n.children == nil {
			return nil
		}
		next, ok := n.children[part]
		if !ok {
			return nil
		}
		n = next
	}
	return n
}

func (img *Image) versions(ino uint32) []*RawINode {
	return img.inodes[ino]
}

func (img *Image) latestVersion(ino uint32) *RawINode {
	vs := img.versions(ino)
	if len(vs) == 0 {
		return nil
	}
	var best *RawINode
	for _, v := range vs {
		if best == nil || v.Version > best.Version {
			best = v
		}
	}
	return best
}

func (img *Image) assembled(ino uint32) []byte {
	img.mu.Lock()
	defer img.mu.Unlock()
	if data, ok := img.dataOf[ino]; ok {
		return data
	}
	data := assembleData(img.versions(ino))
	img.dataOf[ino] = data
	return data
}

func (img *Image) List(p string) ([]string, error) {
	n := img.resolve(p)
	if n == nil {
		return nil, nil
	}
	if n.children == nil {
		return []string{path.Base(p)}, nil
	}
	return sortedNames(n), nil
}

func (img *Image) ReadFile(p string) ([]byte, bool, error) {
	n := img.resolve(p)
	if n == nil || n.dtype != dtReg {
		return nil, false, nil
	}
	return img.assembled(n.ino), true, nil
}

func (img *Image) Readlink(p string) (string, bool, error) {
	n := img.resolve(p)
	if n == nil || n.dtype != dtLnk {
		return "", false, nil
	}
	return string(img.assembled(n.ino)), true, nil
}

func (img *Image) Stat(p string) (imgfs.Attr, bool, error) {
	n := img.resolve(p)
	if n == nil {
		return imgfs.Attr{}, false, nil
	}
	v := img.latestVersion(n.ino)
	if v == nil {
		return imgfs.Attr{}, false, nil
	}
	size := int64(v.Isize)
	if n.dtype == dtReg {
		size = int64(len(img.assembled(n.ino)))
	}
	return imgfs.Attr{
		Atime:  int64(v.Atime),
		Mtime:  int64(v.Mtime),
		Ctime:  int64(v.Ctime),
		Uid:    uint32(v.Uid),
		Gid:    uint32(v.Gid),
		Mode:   fileMode(v.Mode),
		Nlink:  1,
		Size:   size,
		Blocks: (size + 511) / 512,
	}, true, nil
}

func (img *Image) StatFS() imgfs.StatFS {
	return imgfs.StatFS{NameMax: 255, Bsize: 131072}
}

func (img *Image) Close() error {
	if img.closer != nil {
		return img.closer.Close()
	}
	return nil
}

var _ imgfs.Image = (*Image)(nil)
