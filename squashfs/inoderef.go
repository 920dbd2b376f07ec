package squashfs

import "fmt"

// inodeRef packs the location of an inode-table entry: a metadata block
// start offset (relative to InodeTableStart) in the high 48 bits and a
// byte offset within that block's decompressed data in the low 16 bits.
type inodeRef uint64

func (r inodeRef) Index() uint32 {
	return uint32(uint64(r) >> 16)
}

func (r inodeRef) Offset() uint32 {
	return uint32(uint64(r) & 0xffff)
}

func (r inodeRef) String() string {
	return fmt.Sprintf("inodeRef{block=0x%x,offset=0x%x}", r.Index(), r.Offset())
}
