package squashfs

import (
	"bytes"
	"encoding/binary"
	"io"
	"reflect"
	"sync"
)

// https://dr-emann.github.io/squashfs/
type Superblock struct {
	fs     io.ReaderAt
	closer io.Closer // non-nil if fs was opened from a path by Open
	order  binary.ByteOrder

	Magic             uint32
	InodeCnt          uint32
	ModTime           int32
	BlockSize         uint32
	FragCount         uint32
	Comp              Compression
	BlockLog          uint16
	Flags             SquashFlags
	IdCount           uint16
	VMajor            uint16
	VMinor            uint16
	RootInode         uint64
	BytesUsed         uint64
	IdTableStart      uint64
	XattrIdTableStart uint64
	InodeTableStart   uint64
	DirTableStart     uint64
	FragTableStart    uint64
	ExportTableStart  uint64

	inoOfft  uint64 // added to inode numbers returned to callers, via InodeOffset
	rootIno  *Inode
	rootInoN uint32

	inoIdxL sync.RWMutex
	inoIdx  map[uint32]inodeRef

	idL sync.Mutex
	ids []uint32
}

func New(fs io.ReaderAt, opts ...Option) (*Superblock, error) {
	sb := &Superblock{fs: fs, inoIdx: make(map[uint32]inodeRef)}
	head := make([]byte, sb.binarySize())

	_, err := fs.ReadAt(head, 0)
	if err != nil {
		return nil, err
	}
	err = sb.UnmarshalBinary(head)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(sb); err != nil {
			return nil, err
		}
	}

	root, err := sb.GetInodeRef(inodeRef(sb.RootInode))
	if err != nil {
		return nil, err
	}
	sb.rootIno = root
	sb.rootInoN = root.Ino

	return sb, nil
}

func (s *Superblock) UnmarshalBinary(data []byte) error {
	v := reflect.ValueOf(s).Elem()
	c := v.NumField()
	r := bytes.NewReader(data)

	switch string(data[:4]) {
	case "hsqs":
		s.order = binary.LittleEndian
	case "sqsh":
		s.order = binary.BigEndian
	default:
		return ErrInvalidFile
	}

	// Decode
	var err error
	for i := 0; i < c; i++ {
		c := v.Type().Field(i).Name[0]
		if c < 'A' || c > 'Z' {
			continue
		}
		err = binary.Read(r, s.order, v.Field(i).Addr().Interface())
		if err != nil {
			return err
		}
	}

	if s.VMajor != 4 || s.VMinor != 0 {
		return ErrInvalidVersion
	}
	if s.BlockLog > 31 || s.BlockSize != 1<<s.BlockLog {
		return ErrInvalidSuper
	}

	return nil
}

func (s *Superblock) binarySize() int {
	v := reflect.ValueOf(s).Elem()
	c := v.NumField()
	sz := uintptr(0)

	for i := 0; i < c; i++ {
		c := v.Type().Field(i).Name[0]
		if c < 'A' || c > 'Z' {
			continue
		}
		sz += v.Field(i).Type().Size()
	}
	return int(sz)
}
