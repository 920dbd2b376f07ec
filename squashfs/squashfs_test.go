package squashfs_test

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/flashimg/flashimg/squashfs"
)

func openBasicImage(t *testing.T) *squashfs.Superblock {
	t.Helper()
	img := newBasicImage()
	sb, err := squashfs.New(bytes.NewReader(img.bytes))
	if err != nil {
		t.Fatalf("failed to parse synthetic image: %s", err)
	}
	return sb
}

func TestSquashfsReadFile(t *testing.T) {
	sqfs := openBasicImage(t)

	data, err := fs.ReadFile(sqfs, "file.txt")
	if err != nil {
		t.Fatalf("failed to read file.txt: %s", err)
	}
	if string(data) != "hello world\n" {
		t.Errorf("file.txt content = %q, want %q", data, "hello world\n")
	}
}

func TestSquashfsFindInode(t *testing.T) {
	sqfs := openBasicImage(t)

	ino, err := sqfs.FindInode("file.txt", false)
	if err != nil {
		t.Fatalf("failed to find file.txt: %s", err)
	}
	if ino.Ino != 2 {
		t.Errorf("file.txt inode = %d, want 2", ino.Ino)
	}
}

func TestSquashfsGlob(t *testing.T) {
	sqfs := openBasicImage(t)

	res, err := fs.Glob(sqfs, "*.txt")
	if err != nil {
		t.Fatalf("glob failed: %s", err)
	}
	if len(res) != 1 || res[0] != "file.txt" {
		t.Errorf("glob *.txt = %v, want [file.txt]", res)
	}
}

func TestSquashfsStat(t *testing.T) {
	sqfs := openBasicImage(t)

	st, err := fs.Stat(sqfs, "file.txt")
	if err != nil {
		t.Fatalf("failed to stat file.txt: %s", err)
	}
	if st.Size() != 12 {
		t.Errorf("file.txt size = %d, want 12", st.Size())
	}
}

func TestSquashfsStatFollowsSymlinkButLstatDoesNot(t *testing.T) {
	sqfs := openBasicImage(t)

	st, err := fs.Stat(sqfs, "link")
	if err != nil {
		t.Fatalf("failed to stat link: %s", err)
	}
	if st.Mode()&fs.ModeSymlink != 0 {
		t.Error("Stat(link) should have resolved to the regular file, not reported a symlink")
	}

	st, err = sqfs.Lstat("link")
	if err != nil {
		t.Fatalf("failed to lstat link: %s", err)
	}
	if st.Mode()&fs.ModeSymlink == 0 {
		t.Error("Lstat(link) should report the symlink itself")
	}
}

func TestSquashfsReadFileThroughNonDirectory(t *testing.T) {
	sqfs := openBasicImage(t)

	_, err := fs.ReadFile(sqfs, "file.txt/foo")
	if !errors.Is(err, squashfs.ErrNotDirectory) {
		t.Errorf("reading file.txt/foo returned unexpected err=%s", err)
	}
}

func TestSquashfsTooManySymlinks(t *testing.T) {
	sqfs := openBasicImage(t)

	_, err := sqfs.FindInode("loop", true)
	if !errors.Is(err, squashfs.ErrTooManySymlinks) {
		t.Errorf("following a self-referencing symlink returned unexpected err=%s", err)
	}
}

func TestSquashfsReadDir(t *testing.T) {
	sqfs := openBasicImage(t)

	entries, err := sqfs.ReadDir(".")
	if err != nil {
		t.Fatalf("ReadDir failed: %s", err)
	}
	names := make(map[string]bool)
	for _, e := range entries {
		names[e.Name()] = true
	}
	for _, want := range []string{"file.txt", "link", "loop"} {
		if !names[want] {
			t.Errorf("ReadDir(.) missing entry %q, got %v", want, entries)
		}
	}
}
