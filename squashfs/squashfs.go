package squashfs

import (
	"io/fs"
	"os"
	"path"
	"strings"
)

// idsPerBlock is the number of 32-bit id values packed into a single id
// table metadata block.
const idsPerBlock = 2048

// maxSymlinkDepth bounds FindInode's symlink-following recursion.
const maxSymlinkDepth = 40

// Open reads a SquashFS image from path.
func Open(path string, opts ...Option) (*Superblock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	sb, err := New(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	sb.closer = f
	return sb, nil
}

// Close releases the underlying file if this Superblock was obtained via
// Open. Superblocks built directly with New over a caller-owned
// io.ReaderAt are left untouched.
func (sb *Superblock) Close() error {
	if sb.closer != nil {
		return sb.closer.Close()
	}
	return nil
}

func squashfsTypeToMode(t uint16) fs.FileMode {
	return Type(t).Mode()
}

// setInodeRefCache records where an already-resolved inode number lives,
// so repeated lookups (e.g. during symlink resolution) skip the inode
// table read.
func (sb *Superblock) setInodeRefCache(ino uint32, ref inodeRef) {
	sb.inoIdxL.Lock()
	sb.inoIdx[ino] = ref
	sb.inoIdxL.Unlock()
}

// loadIDs reads and decompresses the id table, caching the result for
// subsequent GetUid/GetGid calls.
func (sb *Superblock) loadIDs() error {
	sb.idL.Lock()
	defer sb.idL.Unlock()
	if sb.ids != nil {
		return nil
	}

	n := int(sb.IdCount)
	ids := make([]uint32, 0, n)
	if n == 0 {
		sb.ids = ids
		return nil
	}

	blocks := (n + idsPerBlock - 1) / idsPerBlock
	offBuf := make([]byte, 8*blocks)
	if _, err := sb.fs.ReadAt(offBuf, int64(sb.IdTableStart)); err != nil {
		return err
	}

	for b := 0; b < blocks; b++ {
		off := sb.order.Uint64(offBuf[b*8:])
		tr, err := sb.newTableReader(int64(off), 0)
		if err != nil {
			return err
		}
		for len(ids) < n && len(tr.buf) >= 4 {
			ids = append(ids, sb.order.Uint32(tr.buf[:4]))
			tr.buf = tr.buf[4:]
		}
	}

	sb.ids = ids
	return nil
}

// idValue resolves a 16-bit id table index to its uid/gid value.
func (sb *Superblock) idValue(idx uint16) (uint32, error) {
	if err := sb.loadIDs(); err != nil {
		return 0, err
	}
	if int(idx) >= len(sb.ids) {
		return 0, ErrInvalidSuper
	}
	return sb.ids[idx], nil
}

// GetUid resolves the inode's owning uid via the superblock's id table.
func (i *Inode) GetUid() uint32 {
	v, err := i.sb.idValue(i.UidIdx)
	if err != nil {
		return 0
	}
	return v
}

// GetGid resolves the inode's owning gid via the superblock's id table.
func (i *Inode) GetGid() uint32 {
	v, err := i.sb.idValue(i.GidIdx)
	if err != nil {
		return 0
	}
	return v
}

// FindInode resolves a slash-separated path (relative to the image root)
// to its inode, following symlinks when follow is true. A symlink chain
// longer than maxSymlinkDepth fails with ErrTooManySymlinks.
func (sb *Superblock) FindInode(p string, follow bool) (*Inode, error) {
	cur := sb.rootIno
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return cur, nil
	}

	parts := strings.Split(p, "/")
	depth := 0
	for idx := 0; idx < len(parts); idx++ {
		if !cur.IsDir() {
			return nil, ErrNotDirectory
		}
		next, err := cur.LookupRelativeInode(parts[idx])
		if err != nil {
			return nil, err
		}

		// Resolve symlinks crossed on the way, and always resolve a
		// trailing symlink when follow is requested.
		for Type(next.Type).IsSymlink() {
			if !follow && idx == len(parts)-1 {
				break
			}
			depth++
			if depth > maxSymlinkDepth {
				return nil, ErrTooManySymlinks
			}
			target, err := next.Readlink()
			if err != nil {
				return nil, err
			}
			resolved, err := cur.LookupRelativeInodePath(string(target))
			if err != nil {
				return nil, err
			}
			next = resolved
		}

		cur = next
	}

	return cur, nil
}

// Lstat returns the attributes of the entry at p without following a
// trailing symlink.
func (sb *Superblock) Lstat(p string) (fs.FileInfo, error) {
	ino, err := sb.FindInode(p, false)
	if err != nil {
		return nil, err
	}
	return &fileinfo{name: path.Base(p), ino: ino}, nil
}

// Open implements fs.FS: path components are resolved following
// symlinks, per io/fs's contract that Open always returns the target of
// a link.
func (sb *Superblock) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	ino, err := sb.FindInode(name, true)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return ino.OpenFile(name), nil
}

// ReadDir implements fs.ReadDirFS.
func (sb *Superblock) ReadDir(name string) ([]fs.DirEntry, error) {
	ino, err := sb.FindInode(name, true)
	if err != nil {
		return nil, err
	}
	if !ino.IsDir() {
		return nil, ErrNotDirectory
	}
	dr, err := sb.dirReader(ino, nil)
	if err != nil {
		return nil, err
	}
	return dr.ReadDir(-1)
}

// Stat implements fs.StatFS, resolving trailing symlinks.
func (sb *Superblock) Stat(name string) (fs.FileInfo, error) {
	ino, err := sb.FindInode(name, true)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return &fileinfo{name: path.Base(name), ino: ino}, nil
}

var (
	_ fs.FS        = (*Superblock)(nil)
	_ fs.ReadDirFS = (*Superblock)(nil)
	_ fs.StatFS    = (*Superblock)(nil)
)
