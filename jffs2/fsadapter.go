package jffs2

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"time"
)

// FS adapts an *Image to io/fs, so helpers like fs.ReadFile, fs.WalkDir
// and fs.Glob work the same way over a JFFS2 image as they do over
// squashfs.Superblock, which satisfies io/fs natively.
type FS struct {
	img *Image
}

// NewFS wraps img for io/fs use.
func NewFS(img *Image) *FS { return &FS{img: img} }

func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	n := f.img.resolve(name)
	if n == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if n.dtype == dtDir {
		return &jffs2Dir{fsys: f, node: n, name: name}, nil
	}
	data := f.img.assembled(n.ino)
	return &jffs2File{fsys: f, node: n, name: name, r: bytes.NewReader(data)}, nil
}

func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	n := f.img.resolve(name)
	if n == nil || n.children == nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	names := sortedNames(n)
	entries := make([]fs.DirEntry, 0, len(names))
	for _, childName := range names {
		fi, err := f.Stat(path.Join(name, childName))
		if err != nil {
			return nil, err
		}
		entries = append(entries, fs.FileInfoToDirEntry(fi))
	}
	return entries, nil
}

func (f *FS) Stat(name string) (fs.FileInfo, error) {
	n := f.img.resolve(name)
	if n == nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	attr, ok, err := f.img.Stat(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return &attrInfo{
		name: path.Base(name),
		size: attr.Size,
		mode: attr.Mode,
		mod:  time.Unix(attr.Mtime, 0),
	}, nil
}

var (
	_ fs.FS        = (*FS)(nil)
	_ fs.ReadDirFS = (*FS)(nil)
	_ fs.StatFS    = (*FS)(nil)
)

type attrInfo struct {
	name string
	size int64
	mode fs.FileMode
	mod  time.Time
}

func (fi *attrInfo) Name() string       { return fi.name }
func (fi *attrInfo) Size() int64        { return fi.size }
func (fi *attrInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *attrInfo) ModTime() time.Time { return fi.mod }
func (fi *attrInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *attrInfo) Sys() any           { return nil }

type jffs2File struct {
	fsys *FS
	node *treeNode
	name string
	r    *bytes.Reader
}

func (jf *jffs2File) Read(p []byte) (int, error) { return jf.r.Read(p) }
func (jf *jffs2File) Close() error                { return nil }
func (jf *jffs2File) Stat() (fs.FileInfo, error)  { return jf.fsys.Stat(jf.name) }

type jffs2Dir struct {
	fsys    *FS
	node    *treeNode
	name    string
	entries []fs.DirEntry
	pos     int
}

func (jd *jffs2Dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: jd.name, Err: fs.ErrInvalid}
}

func (jd *jffs2Dir) Close() error { return nil }

func (jd *jffs2Dir) Stat() (fs.FileInfo, error) { return jd.fsys.Stat(jd.name) }

func (jd *jffs2Dir) ReadDir(n int) ([]fs.DirEntry, error) {
	if jd.entries == nil {
		entries, err := jd.fsys.ReadDir(jd.name)
		if err != nil {
			return nil, err
		}
		jd.entries = entries
	}
	if n <= 0 {
		rest := jd.entries[jd.pos:]
		jd.pos = len(jd.entries)
		return rest, nil
	}
	if jd.pos >= len(jd.entries) {
		return nil, io.EOF
	}
	end := jd.pos + n
	if end > len(jd.entries) {
		end = len(jd.entries)
	}
	out := jd.entries[jd.pos:end]
	jd.pos = end
	return out, nil
}

var (
	_ fs.File        = (*jffs2File)(nil)
	_ fs.File        = (*jffs2Dir)(nil)
	_ fs.ReadDirFile = (*jffs2Dir)(nil)
)
