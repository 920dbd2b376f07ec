package jffs2

import (
	"fmt"
	"log"

	"github.com/flashimg/flashimg/internal/byteio"
)

const headerSize = 12

const defaultResyncLimit = 12

// pad rounds totlen up to the next 4-byte boundary, the inter-node
// alignment every JFFS2 node is padded to.
func pad(totlen uint32) uint32 {
	return (totlen + 3) &^ 3
}

// scanResult accumulates every dirent and inode-version node found during
// a linear scan, in the order encountered. tree.go and file.go turn this
// flat record into the reconstructed directory tree.
type scanResult struct {
	dirents []*DirentNode
	inodes  map[uint32][]*RawINode
}

// scan walks r linearly from offset 0 to size, resynchronizing past
// corrupt or foreign bytes by skipping forward a byte at a time, up to
// resyncLimit consecutive failures before giving up. This mirrors how
// real JFFS2 recovers from erase-block garbage instead of trusting that
// every byte belongs to a node.
func scan(r *byteio.Reader, size int64, resyncLimit int) (*scanResult, error) {
	if resyncLimit <= 0 {
		resyncLimit = defaultResyncLimit
	}

	res := &scanResult{inodes: make(map[uint32][]*RawINode)}

	var pos int64
	var failures int
	for pos+headerSize <= size {
		hdr, err := r.ReadBytes(headerSize)
		if err != nil {
			return nil, err
		}
		order := r.Order()

		magic := order.Uint16(hdr[0:2])
		nodetype := order.Uint16(hdr[2:4])
		totlen := order.Uint32(hdr[4:8])
		hdrCRC := order.Uint32(hdr[8:12])

		valid := magic == magicValue &&
			mtdCRC(hdr[0:8]) == hdrCRC &&
			totlen >= headerSize &&
			int64(totlen) <= size-pos

		if !valid {
			failures++
			if failures == 1 {
				log.Printf("jffs2: bad node header at offset %d, resynchronizing", pos)
			}
			if failures > resyncLimit {
				return nil, fmt.Errorf("%w: at offset %d after %d resync attempts", ErrMagic, pos, failures)
			}
			pos++
			r.Seek(pos)
			continue
		}
		failures = 0

		r.Seek(pos + headerSize)
		switch nodetype {
		case nodetypeDirent:
			d, err := parseDirent(r, hdr)
			if err != nil {
				log.Printf("jffs2: skipping dirent at offset %d: %v", pos, err)
				break
			}
			res.dirents = append(res.dirents, d)
		case nodetypeInode:
			n, err := parseRawInode(r, hdr)
			if err != nil {
				log.Printf("jffs2: skipping inode node at offset %d: %v", pos, err)
				break
			}
			res.inodes[n.Ino] = append(res.inodes[n.Ino], n)
		case nodetypeCleanmarker, nodetypePadding, nodetypeSummary, nodetypeXattr, nodetypeXref:
			// Recognized but not needed to reconstruct file contents or
			// the directory tree.
		default:
			log.Printf("jffs2: unrecognized nodetype %#x at offset %d, skipping", nodetype, pos)
		}

		pos += int64(pad(totlen))
		r.Seek(pos)
	}

	return res, nil
}
