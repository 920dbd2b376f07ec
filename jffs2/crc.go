package jffs2

import "hash/crc32"

// mtdCRC is JFFS2's CRC-32 variant: the IEEE polynomial run with the
// shift register seeded to zero and no final inversion, which is NOT what
// crc32.ChecksumIEEE computes (that seeds all-ones and inverts the
// result). Go's crc32.Update pre- and post-inverts internally, so seeding
// it with all-ones and inverting once more cancels both and leaves the
// raw register value.
func mtdCRC(data []byte) uint32 {
	return crc32.Update(0xFFFFFFFF, crc32.IEEETable, data) ^ 0xFFFFFFFF
}
