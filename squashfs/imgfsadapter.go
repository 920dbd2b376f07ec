package squashfs

import (
	"io"
	gopath "path"

	"github.com/flashimg/flashimg/imgfs"
)

// imgfsImage adapts a *Superblock to imgfs.Image, so callers that want a
// single format-neutral interface across squashfs and jffs2 don't need
// to special-case either one. Superblock itself keeps its native io/fs
// surface for callers that want fs.WalkDir, fs.Glob and friends.
type imgfsImage struct {
	sb *Superblock
}

// AsImage wraps sb for use through the imgfs.Image interface.
func AsImage(sb *Superblock) imgfs.Image {
	return &imgfsImage{sb: sb}
}

func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	switch err {
	case ErrNotDirectory, ErrInvalidFile, ErrInvalidSuper, ErrInvalidVersion, ErrTooManySymlinks, ErrInodeNotExported:
		return imgfs.NewError(imgfs.KindFormat, op, path, err)
	default:
		return imgfs.NewError(imgfs.KindIO, op, path, err)
	}
}

func (img *imgfsImage) List(path string) ([]string, error) {
	ino, err := img.sb.FindInode(path, true)
	if err != nil {
		return nil, nil
	}
	if !ino.IsDir() {
		return []string{gopath.Base(path)}, nil
	}
	dr, err := img.sb.dirReader(ino, nil)
	if err != nil {
		return nil, wrapErr("squashfs: list", path, err)
	}
	entries, err := dr.ReadDir(-1)
	if err != nil {
		return nil, wrapErr("squashfs: list", path, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (img *imgfsImage) ReadFile(path string) ([]byte, bool, error) {
	ino, err := img.sb.FindInode(path, true)
	if err != nil {
		return nil, false, nil
	}
	if ino.IsDir() || ino.Type == 3 || ino.Type == 10 {
		return nil, false, nil
	}
	data := make([]byte, ino.Size)
	if _, err := io.ReadFull(io.NewSectionReader(ino, 0, int64(ino.Size)), data); err != nil && err != io.EOF {
		return nil, false, wrapErr("squashfs: read", path, err)
	}
	return data, true, nil
}

func (img *imgfsImage) Readlink(path string) (string, bool, error) {
	ino, err := img.sb.FindInode(path, false)
	if err != nil {
		return "", false, nil
	}
	if ino.Type != 3 && ino.Type != 10 {
		return "", false, nil
	}
	target, err := ino.Readlink()
	if err != nil {
		return "", false, wrapErr("squashfs: readlink", path, err)
	}
	return string(target), true, nil
}

func (img *imgfsImage) Stat(path string) (imgfs.Attr, bool, error) {
	ino, err := img.sb.FindInode(path, true)
	if err != nil {
		return imgfs.Attr{}, false, nil
	}
	nlink := ino.NLink
	if nlink == 0 {
		// basic file inodes don't carry a link count
		nlink = 1
	}
	return imgfs.Attr{
		Atime:  int64(ino.ModTime),
		Mtime:  int64(ino.ModTime),
		Ctime:  int64(ino.ModTime),
		Uid:    ino.GetUid(),
		Gid:    ino.GetGid(),
		Mode:   ino.Mode(),
		Nlink:  nlink,
		Size:   int64(ino.Size),
		Blocks: (int64(ino.Size) + 511) / 512,
	}, true, nil
}

func (img *imgfsImage) StatFS() imgfs.StatFS {
	return imgfs.StatFS{NameMax: 255, Bsize: int64(img.sb.BlockSize)}
}

func (img *imgfsImage) Close() error {
	return img.sb.Close()
}

var _ imgfs.Image = (*imgfsImage)(nil)
