// Package imgfs defines the format-neutral types shared by the flash image
// parsers (squashfs, jffs2): the unified read API, inode attributes and
// the error taxonomy. It has no knowledge of any on-disk format and is
// imported by the format packages, never the other way around.
package imgfs

import "io/fs"

// Image is the uniform read-only view exposed by every format parser.
// Path resolution splits on '/' and walks the reconstructed tree
// component by component; lookups of an absent path return (nil, nil) or
// ("", false) rather than an error, so callers never need type assertions
// to distinguish "not found" from "I/O failure".
type Image interface {
	// List returns the names of the children of path if it is a directory,
	// or the path's own final component if it names a file. A path that
	// does not resolve returns a nil slice and no error.
	List(path string) ([]string, error)

	// ReadFile returns the full contents of the file at path. It returns
	// (nil, false, nil) if path does not resolve to a regular file.
	ReadFile(path string) (data []byte, ok bool, err error)

	// Stat returns the attributes of the entry at path, or ok == false if
	// path does not resolve.
	Stat(path string) (attr Attr, ok bool, err error)

	// Readlink returns a symlink's target, or ok == false if path does not
	// resolve to a symlink.
	Readlink(path string) (target string, ok bool, err error)

	// StatFS returns filesystem-wide statistics.
	StatFS() StatFS

	// Close releases the underlying file handle, if any.
	Close() error
}

// Attr mirrors a POSIX stat(2) result.
type Attr struct {
	Atime  int64 // seconds since epoch
	Ctime  int64
	Mtime  int64
	Uid    uint32
	Gid    uint32
	Mode   fs.FileMode // POSIX mode bits, including file type
	Nlink  uint32
	Size   int64
	Blocks int64 // 512-byte units
}

// StatFS reports coarse filesystem-wide statistics.
type StatFS struct {
	NameMax int64
	Bsize   int64
}
