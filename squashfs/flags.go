package squashfs

import "strings"

// SquashFlags holds the superblock's global feature bits.
type SquashFlags uint16

const (
	UNCOMPRESSED_INODES SquashFlags = 1 << iota
	UNCOMPRESSED_DATA
	CHECK
	UNCOMPRESSED_FRAGMENTS
	NO_FRAGMENTS
	ALWAYS_FRAGMENTS
	DUPLICATES
	EXPORTABLE
	UNCOMPRESSED_XATTRS
	NO_XATTRS
	COMPRESSOR_OPTIONS
	UNCOMPRESSED_IDS
)

var squashFlagNames = []struct {
	bit  SquashFlags
	name string
}{
	{UNCOMPRESSED_INODES, "UNCOMPRESSED_INODES"},
	{UNCOMPRESSED_DATA, "UNCOMPRESSED_DATA"},
	{CHECK, "CHECK"},
	{UNCOMPRESSED_FRAGMENTS, "UNCOMPRESSED_FRAGMENTS"},
	{NO_FRAGMENTS, "NO_FRAGMENTS"},
	{ALWAYS_FRAGMENTS, "ALWAYS_FRAGMENTS"},
	{DUPLICATES, "DUPLICATES"},
	{EXPORTABLE, "EXPORTABLE"},
	{UNCOMPRESSED_XATTRS, "UNCOMPRESSED_XATTRS"},
	{NO_XATTRS, "NO_XATTRS"},
	{COMPRESSOR_OPTIONS, "COMPRESSOR_OPTIONS"},
	{UNCOMPRESSED_IDS, "UNCOMPRESSED_IDS"},
}

// String renders f as a "|"-joined list of set flag names.
func (f SquashFlags) String() string {
	var opt []string
	for _, e := range squashFlagNames {
		if f.Has(e.bit) {
			opt = append(opt, e.name)
		}
	}
	return strings.Join(opt, "|")
}

// Has reports whether every bit in what is set in f.
func (f SquashFlags) Has(what SquashFlags) bool {
	return f&what == what
}
