package squashfs

import (
	"encoding/binary"
	"io"
	"io/fs"
)

// dirCursor streams entries out of one directory's slice of the directory
// table. A directory's data is a sequence of (header, entries[count+1])
// groups: the header gives a base inode number and base metadata-block
// start shared by the entries that follow, so only a cursor's worth of
// state — the current group's remaining count and its base fields —
// needs to be tracked between next() calls.
type dirCursor struct {
	sb *Superblock
	r  *io.LimitedReader

	remaining, groupBlock, groupIno uint32
}

// DirIndexEntry is one entry of an extended directory's trailing index,
// letting a lookup jump near a target name instead of scanning from the
// directory's first entry.
type DirIndexEntry struct {
	Index uint32 // byte offset into the directory's own entry stream
	Start uint32 // metadata block start, relative to DirTableStart
	Name  string // name at this index point
}

// dirReader opens a cursor over i's directory data. When seek is non-nil
// (Inode.seekIndex found an index entry at or before the target name) the
// cursor starts mid-directory at that entry instead of at the beginning.
func (sb *Superblock) dirReader(i *Inode, seek *DirIndexEntry) (*dirCursor, error) {
	blockStart := int64(i.sb.DirTableStart) + int64(i.StartBlock)
	inBlockOffset := int(i.Offset)
	remaining := int64(i.Size)

	if seek != nil {
		blockStart = int64(i.sb.DirTableStart) + int64(seek.Start)
		inBlockOffset = (int(i.Offset) + int(seek.Index)) & 0x1fff
		remaining -= int64(seek.Index)
	}

	tbl, err := i.sb.newTableReader(blockStart, inBlockOffset)
	if err != nil {
		return nil, err
	}
	return &dirCursor{sb: i.sb, r: &io.LimitedReader{R: tbl, N: remaining}}, nil
}

// next returns the next entry's name and the inodeRef it names.
func (dc *dirCursor) next() (string, inodeRef, error) {
	name, _, ref, err := dc.nextEntry()
	return name, ref, err
}

// nextEntry is next plus the entry's type tag, used by ReadDir which needs
// both without a second inode-table round trip.
func (dc *dirCursor) nextEntry() (string, Type, inodeRef, error) {
	// A directory's data ends in a 3-byte tail after its last group's
	// entries, and a directory with no entries has file_size <= 3; dc.r.N
	// reaching exactly 3 means every group has been consumed.
	if dc.r.N == 3 {
		return "", 0, 0, io.EOF
	}

	if dc.remaining == 0 {
		if err := dc.readGroupHeader(); err != nil {
			return "", 0, 0, err
		}
	}

	var inoOffset uint16
	var inoDelta int16 // signed delta from the group header's base inode number; unused, the (block,offset) ref is enough to resolve the inode
	var typ Type
	var nameLen uint16
	order := dc.sb.order

	if err := binary.Read(dc.r, order, &inoOffset); err != nil {
		return "", 0, 0, err
	}
	if err := binary.Read(dc.r, order, &inoDelta); err != nil {
		return "", 0, 0, err
	}
	if err := binary.Read(dc.r, order, &typ); err != nil {
		return "", 0, 0, err
	}
	if err := binary.Read(dc.r, order, &nameLen); err != nil {
		return "", 0, 0, err
	}
	name := make([]byte, int(nameLen)+1)
	if _, err := io.ReadFull(dc.r, name); err != nil {
		return "", 0, 0, err
	}

	dc.remaining--
	ref := inodeRef((uint64(dc.groupBlock) << 16) | uint64(inoOffset))
	return string(name), typ, ref, nil
}

// readGroupHeader reads a directory-table group header: a count (stored
// on disk as count-1), the metadata-block start shared by the group's
// entries, and a base inode number (unused here — each entry's absolute
// inode number is this base plus a per-entry signed offset, but callers
// resolve inodes via the packed (block, offset) ref instead).
func (dc *dirCursor) readGroupHeader() error {
	order := dc.sb.order
	if err := binary.Read(dc.r, order, &dc.remaining); err != nil {
		return err
	}
	if err := binary.Read(dc.r, order, &dc.groupBlock); err != nil {
		return err
	}
	if err := binary.Read(dc.r, order, &dc.groupIno); err != nil {
		return err
	}
	dc.remaining++
	return nil
}

// ReadDir drains up to n entries (all remaining entries if n <= 0).
func (dc *dirCursor) ReadDir(n int) ([]fs.DirEntry, error) {
	var out []fs.DirEntry

	for {
		name, typ, ref, err := dc.nextEntry()
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}

		out = append(out, &dirEntry{name, typ, ref, dc.sb})
		if n > 0 && len(out) >= n {
			return out, nil
		}
	}
}

// dirEntry implements fs.DirEntry over one resolved (name, inodeRef) pair.
type dirEntry struct {
	name string
	typ  Type
	ref  inodeRef
	sb   *Superblock
}

func (de *dirEntry) Name() string { return de.name }

func (de *dirEntry) IsDir() bool { return de.typ.IsDir() }

func (de *dirEntry) Type() fs.FileMode { return de.typ.Mode() }

func (de *dirEntry) Info() (fs.FileInfo, error) {
	ino, err := de.sb.GetInodeRef(de.ref)
	if err != nil {
		return nil, err
	}
	de.sb.setInodeRefCache(ino.Ino, de.ref)
	return &fileinfo{name: de.name, ino: ino}, nil
}
