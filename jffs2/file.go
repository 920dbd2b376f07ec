package jffs2

import "sort"

// assembleData overlays a file's inode-version writes into its final
// contents. Versions are sorted ascending so a later write always wins
// where offsets overlap, and the result is truncated (or zero-extended)
// to the LAST version's isize — the highest version number seen, not
// whichever version happened to be read first off disk.
func assembleData(versions []*RawINode) []byte {
	if len(versions) == 0 {
		return nil
	}

	sorted := make([]*RawINode, len(versions))
	copy(sorted, versions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	size := sorted[len(sorted)-1].Isize
	out := make([]byte, size)
	for _, v := range sorted {
		end := uint64(v.Offset) + uint64(len(v.Data))
		if end > uint64(size) {
			end = uint64(size)
		}
		start := uint64(v.Offset)
		if start >= end {
			continue
		}
		copy(out[start:end], v.Data)
	}
	return out
}
