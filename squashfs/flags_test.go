package squashfs_test

import (
	"testing"

	"github.com/flashimg/flashimg/squashfs"
)

func TestSquashFlagsString(t *testing.T) {
	cases := []struct {
		flag squashfs.SquashFlags
		want string
	}{
		{squashfs.UNCOMPRESSED_INODES, "UNCOMPRESSED_INODES"},
		{squashfs.UNCOMPRESSED_DATA, "UNCOMPRESSED_DATA"},
		{squashfs.CHECK, "CHECK"},
		{squashfs.UNCOMPRESSED_FRAGMENTS, "UNCOMPRESSED_FRAGMENTS"},
		{squashfs.NO_FRAGMENTS, "NO_FRAGMENTS"},
		{squashfs.ALWAYS_FRAGMENTS, "ALWAYS_FRAGMENTS"},
		{squashfs.DUPLICATES, "DUPLICATES"},
		{squashfs.EXPORTABLE, "EXPORTABLE"},
		{squashfs.UNCOMPRESSED_XATTRS, "UNCOMPRESSED_XATTRS"},
		{squashfs.NO_XATTRS, "NO_XATTRS"},
		{squashfs.COMPRESSOR_OPTIONS, "COMPRESSOR_OPTIONS"},
		{squashfs.UNCOMPRESSED_IDS, "UNCOMPRESSED_IDS"},
		{squashfs.EXPORTABLE | squashfs.NO_FRAGMENTS, "NO_FRAGMENTS|EXPORTABLE"},
		{0, ""},
		{1<<15 | 1<<14, ""},
	}

	for _, c := range cases {
		if got := c.flag.String(); got != c.want {
			t.Errorf("SquashFlags(%#x).String() = %q, want %q", uint16(c.flag), got, c.want)
		}
	}
}

func TestSquashFlagsHas(t *testing.T) {
	flags := squashfs.EXPORTABLE | squashfs.UNCOMPRESSED_DATA

	if !flags.Has(squashfs.EXPORTABLE) {
		t.Error("flags should have EXPORTABLE")
	}
	if !flags.Has(squashfs.UNCOMPRESSED_DATA) {
		t.Error("flags should have UNCOMPRESSED_DATA")
	}
	if flags.Has(squashfs.NO_FRAGMENTS) {
		t.Error("flags should not have NO_FRAGMENTS")
	}
	if !flags.Has(squashfs.EXPORTABLE | squashfs.UNCOMPRESSED_DATA) {
		t.Error("flags should have both EXPORTABLE and UNCOMPRESSED_DATA set together")
	}
}
