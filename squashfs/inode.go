package squashfs

import (
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"log"
	"sort"
	"strings"
)

// Inode is one decoded SquashFS inode. Rather than a tagged union with a
// per-variant decoder, every variant's fields live in one flat struct,
// left zero where not applicable to the inode's Type — SquashFS only has
// seven variants, and a Go interface per variant would buy little beyond
// what Type already lets callers switch on.
type Inode struct {
	sb *Superblock

	Type    uint16
	Perm    uint16
	UidIdx  uint16
	GidIdx  uint16
	ModTime int32
	Ino     uint32 // inode number

	StartBlock uint64
	NLink      uint32
	Size       uint64 // Careful, actual on disk size varies depending on type
	Offset     uint32 // uint16 for directories
	ParentIno  uint32 // for directories
	SymTarget  []byte // The target path this symlink points to
	IdxCount   uint16 // index count for advanced directories
	Index      []DirIndexEntry // directory index, only populated for extended directories with IdxCount > 0
	XattrIdx   uint32          // xattr table index (if relevant)
	Sparse     uint64

	// fragment
	FragBlock uint32
	FragOfft  uint32

	// file blocks (some have value 0x1001000)
	Blocks     []uint32
	BlocksOfft []uint64
}

func (sb *Superblock) GetInode(ino uint64) (*Inode, error) {
	if ino == 1 {
		// get root inode
		return sb.rootIno, nil
	}
	if ino == uint64(sb.rootInoN) {
		// we reverse
		ino = 1
	}

	// check index
	sb.inoIdxL.RLock()
	inor, ok := sb.inoIdx[uint32(ino)]
	sb.inoIdxL.RUnlock()
	if ok {
		return sb.GetInodeRef(inor)
	}

	// No NFS export table support: an inode number not already
	// discovered via a directory walk can't be resolved here.
	return nil, fs.ErrInvalid
}

func (sb *Superblock) GetInodeRef(inor inodeRef) (*Inode, error) {
	r, err := sb.newInodeReader(inor)
	if err != nil {
		return nil, err
	}

	ino := &Inode{sb: sb}

	// read inode info
	err = binary.Read(r, sb.order, &ino.Type)
	if err != nil {
		return nil, err
	}
	err = binary.Read(r, sb.order, &ino.Perm)
	if err != nil {
		return nil, err
	}
	err = binary.Read(r, sb.order, &ino.UidIdx)
	if err != nil {
		return nil, err
	}
	err = binary.Read(r, sb.order, &ino.GidIdx)
	if err != nil {
		return nil, err
	}
	err = binary.Read(r, sb.order, &ino.ModTime)
	if err != nil {
		return nil, err
	}
	err = binary.Read(r, sb.order, &ino.Ino)
	if err != nil {
		return nil, err
	}
	ino.Ino += uint32(sb.inoOfft)

	switch ino.Type {
	case 1: // Basic Directory
		var u32 uint32
		err = binary.Read(r, sb.order, &u32)
		if err != nil {
			return nil, err
		}
		ino.StartBlock = uint64(u32)

		err = binary.Read(r, sb.order, &ino.NLink)
		if err != nil {
			return nil, err
		}

		var u16 uint16
		err = binary.Read(r, sb.order, &u16)
		if err != nil {
			return nil, err
		}
		ino.Size = uint64(u16)

		err = binary.Read(r, sb.order, &u16)
		if err != nil {
			return nil, err
		}
		ino.Offset = uint32(u16)

		err = binary.Read(r, sb.order, &ino.ParentIno)
		if err != nil {
			return nil, err
		}

	case 8: // Extended dir
		var u32 uint32
		var u16 uint16

		err = binary.Read(r, sb.order, &ino.NLink)
		if err != nil {
			return nil, err
		}

		err = binary.Read(r, sb.order, &u32)
		if err != nil {
			return nil, err
		}
		ino.Size = uint64(u32)

		err = binary.Read(r, sb.order, &u32)
		if err != nil {
			return nil, err
		}
		ino.StartBlock = uint64(u32)

		err = binary.Read(r, sb.order, &ino.ParentIno)
		if err != nil {
			return nil, err
		}

		err = binary.Read(r, sb.order, &ino.IdxCount)
		if err != nil {
			return nil, err
		}

		err = binary.Read(r, sb.order, &u16)
		if err != nil {
			return nil, err
		}
		ino.Offset = uint32(u16)

		err = binary.Read(r, sb.order, &ino.XattrIdx)
		if err != nil {
			return nil, err
		}

		// Trailing directory index: IdxCount entries of
		// (index, start_block, name_size-1, name), used by
		// seekIndex to jump near a target name in a large
		// directory instead of scanning the whole directory table.
		if ino.IdxCount > 0 {
			ino.Index = make([]DirIndexEntry, ino.IdxCount)
			for n := range ino.Index {
				var idx, start, nameSizeMinusOne uint32
				if err = binary.Read(r, sb.order, &idx); err != nil {
					return nil, err
				}
				if err = binary.Read(r, sb.order, &start); err != nil {
					return nil, err
				}
				if err = binary.Read(r, sb.order, &nameSizeMinusOne); err != nil {
					return nil, err
				}
				name := make([]byte, nameSizeMinusOne+1)
				if _, err = io.ReadFull(r, name); err != nil {
					return nil, err
				}
				ino.Index[n] = DirIndexEntry{Index: idx, Start: start, Name: string(name)}
			}
		}
	case 2: // Basic file
		var u32 uint32
		err = binary.Read(r, sb.order, &u32)
		if err != nil {
			return nil, err
		}
		ino.StartBlock = uint64(u32)

		// fragment_block_index
		err = binary.Read(r, sb.order, &ino.FragBlock)
		if err != nil {
			return nil, err
		}
		err = binary.Read(r, sb.order, &ino.FragOfft)
		if err != nil {
			return nil, err
		}
		err = binary.Read(r, sb.order, &u32)
		if err != nil {
			return nil, err
		}
		ino.Size = uint64(u32)

		// try to find out how many block_sizes entries
		blocks := int(ino.Size / uint64(sb.BlockSize))
		if ino.FragBlock == 0xffffffff {
			// file does not end in a fragment
			if ino.Size%uint64(sb.BlockSize) != 0 {
				blocks += 1
			}
		}

		ino.Blocks = make([]uint32, blocks)
		ino.BlocksOfft = make([]uint64, blocks)

		offt := uint64(0)

		// read blocks
		for i := 0; i < blocks; i += 1 {
			err = binary.Read(r, sb.order, &u32)
			if err != nil {
				return nil, err
			}

			ino.Blocks[i] = u32
			ino.BlocksOfft[i] = offt
			offt += uint64(u32) & 0xffffff // low 24 bits are the on-disk length
		}

		if ino.FragBlock != 0xffffffff {
			// this has a fragment instead of last block
			ino.Blocks = append(ino.Blocks, 0xffffffff) // special code
		}
	case 9: // extended file
		err = binary.Read(r, sb.order, &ino.StartBlock)
		if err != nil {
			return nil, err
		}

		err = binary.Read(r, sb.order, &ino.Size)
		if err != nil {
			return nil, err
		}

		err = binary.Read(r, sb.order, &ino.Sparse) // TODO how to handle this?
		if err != nil {
			return nil, err
		}

		err = binary.Read(r, sb.order, &ino.NLink)
		if err != nil {
			return nil, err
		}

		// fragment_block_index
		err = binary.Read(r, sb.order, &ino.FragBlock)
		if err != nil {
			return nil, err
		}
		err = binary.Read(r, sb.order, &ino.FragOfft)
		if err != nil {
			return nil, err
		}

		err = binary.Read(r, sb.order, &ino.XattrIdx)
		if err != nil {
			return nil, err
		}

		// try to find out how many block_sizes entries
		blocks := int(ino.Size / uint64(sb.BlockSize))
		if ino.FragBlock == 0xffffffff {
			// file does not end in a fragment
			if ino.Size%uint64(sb.BlockSize) != 0 {
				blocks += 1
			}
		}

		ino.Blocks = make([]uint32, blocks)
		ino.BlocksOfft = make([]uint64, blocks)
		var u32 uint32

		offt := uint64(0)

		// read blocks
		for i := 0; i < blocks; i += 1 {
			err = binary.Read(r, sb.order, &u32)
			if err != nil {
				return nil, err
			}

			ino.Blocks[i] = u32
			ino.BlocksOfft[i] = offt
			offt += uint64(u32) & 0xffffff // low 24 bits are the on-disk length
		}

		if ino.FragBlock != 0xffffffff {
			// this has a fragment instead of last block
			ino.Blocks = append(ino.Blocks, 0xffffffff) // special code
		}

	case 3: // basic symlink
		err = binary.Read(r, sb.order, &ino.NLink)
		if err != nil {
			return nil, err
		}

		// read symlink target length
		var u32 uint32
		err = binary.Read(r, sb.order, &u32)
		if err != nil {
			return nil, err
		}

		if u32 > 4096 {
			// why is symlink length even stored as u32 ?
			return nil, errors.New("symlink target too long")
		}
		ino.Size = uint64(u32)

		// buffer
		buf := make([]byte, u32)
		_, err = io.ReadFull(r, buf)
		if err != nil {
			return nil, err
		}
		ino.SymTarget = buf

	default:
		log.Printf("squashfs: unsupported inode type %d", ino.Type)
		return ino, nil
	}

	return ino, nil
}

func (i *Inode) ReadAt(p []byte, off int64) (int, error) {
	switch i.Type {
	case 2, 9: // Basic file

		if uint64(off) >= i.Size {
			// no read
			return 0, io.EOF
		}

		if uint64(off+int64(len(p))) > i.Size {
			p = p[:int64(i.Size)-off]
		}

		// we need to know what block to start with
		block := int(off / int64(i.sb.BlockSize))
		offset := int(off % int64(i.sb.BlockSize))
		n := 0

		for {
			var buf []byte

			// read block
			if i.Blocks[block] == 0xffffffff {
				// this is a fragment, need to decode fragment

				// read table offset
				sub := int64(i.FragBlock) / 512 * 8
				blInfo := make([]byte, 8)
				_, err := i.sb.fs.ReadAt(blInfo, int64(i.sb.FragTableStart)+sub)
				if err != nil {
					return n, err
				}

				// read table
				t, err := i.sb.newTableReader(int64(i.sb.order.Uint64(blInfo)), int(i.FragBlock%512)*16)
				if err != nil {
					return n, err
				}

				var start uint64
				var size uint32
				err = binary.Read(t, i.sb.order, &start)
				if err != nil {
					return n, err
				}
				err = binary.Read(t, i.sb.order, &size)
				if err != nil {
					return n, err
				}


				if size&0x1000000 == 0x1000000 {
					// no compression
					buf = make([]byte, size&(0x1000000-1))
					_, err = i.sb.fs.ReadAt(buf, int64(start))
					if err != nil {
						return n, err
					}
				} else {
					// read fragment
					buf = make([]byte, size)
					_, err = i.sb.fs.ReadAt(buf, int64(start))
					if err != nil {
						return n, err
					}

					// decompress
					buf, err = i.sb.Comp.decompress(buf)
					if err != nil {
						return n, err
					}
				}

				if i.FragOfft != 0 {
					buf = buf[i.FragOfft:]
				}
			} else if i.Blocks[block] == 0 {
				// this part of the file contains only zeroes
				buf = make([]byte, i.sb.BlockSize)
			} else {
				buf = make([]byte, i.Blocks[block]&0xffffff)
				_, err := i.sb.fs.ReadAt(buf, int64(i.StartBlock+i.BlocksOfft[block]))
				if err != nil {
					return n, err
				}

				// check for compression
				if i.Blocks[block]&0x1000000 == 0 {
					// compressed
					buf, err = i.sb.Comp.decompress(buf)
					if err != nil {
						return n, err
					}
				}
			}

			// check offset
			if offset > 0 {
				buf = buf[offset:]
			}

			// copy
			l := copy(p, buf)
			n += l
			if l == len(p) {
				// end of copy
				return n, nil
			}

			// advance out ptr
			p = p[l:]

			// next block
			block += 1
			offset = 0
		}
	}
	return 0, fs.ErrInvalid
}

// seekIndex returns the directory index entry (if any) whose name is the
// largest one not greater than target, so the caller's directory scan can
// start there instead of at the beginning of a potentially large
// directory. Entries are stored on disk in ascending name order.
func (i *Inode) seekIndex(target string) *DirIndexEntry {
	if len(i.Index) == 0 {
		return nil
	}
	n := sort.Search(len(i.Index), func(n int) bool { return i.Index[n].Name > target })
	if n == 0 {
		return nil
	}
	return &i.Index[n-1]
}

// LookupRelativeInode resolves name as a direct child of directory inode i.
func (i *Inode) LookupRelativeInode(name string) (*Inode, error) {
	switch i.Type {
	case 1, 8:
		dr, err := i.sb.dirReader(i, i.seekIndex(name))
		if err != nil {
			return nil, err
		}
		for {
			ename, inoR, err := dr.next()
			if err != nil {
				if err == io.EOF {
					return nil, fs.ErrNotExist
				}
				return nil, err
			}

			if name == ename {
				// found
				found, err := i.sb.GetInodeRef(inoR)
				if err != nil {
					return nil, err
				}
				// cache
				i.sb.inoIdxL.Lock()
				i.sb.inoIdx[found.Ino] = inoR
				i.sb.inoIdxL.Unlock()
				// return
				return found, nil
			}
		}
	}
	return nil, fs.ErrInvalid
}

// LookupRelativeInodePath resolves a (possibly multi-component) relative
// path under i, one LookupRelativeInode call per component.
func (i *Inode) LookupRelativeInodePath(name string) (*Inode, error) {
	cur := i

	for {
		if len(name) == 0 {
			// trailing slash?
			return cur, nil
		}
		pos := strings.IndexByte(name, '/')
		if pos == -1 {
			// no /
			return cur.LookupRelativeInode(name)
		}
		if pos == 0 {
			// skip initial /
			name = name[1:]
			continue
		}
		t, err := cur.LookupRelativeInode(name[:pos])
		if err != nil {
			return nil, err
		}
		// found an inode
		cur = t
		name = name[pos+1:]
	}
}

func (i *Inode) Mode() fs.FileMode {
	return UnixToMode(uint32(i.Perm)) | squashfsTypeToMode(i.Type)
}

func (i *Inode) IsDir() bool {
	switch i.Type {
	case 1, 8:
		return true
	}
	return false
}

func (i *Inode) Readlink() ([]byte, error) {
	switch i.Type {
	case 3, 10:
		return i.SymTarget, nil
	}
	return nil, fs.ErrInvalid
}

