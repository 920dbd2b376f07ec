package jffs2

import (
	"bytes"
	"encoding/binary"
)

// buildBasicImage hand-assembles a minimal JFFS2 node stream in the given
// byte order: a root directory (ino 1) holding one regular file
// ("file.txt", ino 2) and one symlink ("link" -> "file.txt", ino 3), each
// written as a single node version so no version-overlay logic needs
// exercising beyond file.go's basic path.
func buildBasicImage(order binary.ByteOrder) []byte {
	var buf bytes.Buffer

	writeInodeNode(&buf, order, inodeSpec{ino: rootIno, mode: sIFDIR | 0755})
	writeDirentNode(&buf, order, 1, 2, dtReg, "file.txt")
	writeInodeNode(&buf, order, inodeSpec{ino: 2, mode: sIFREG | 0644, data: []byte("hello world\n")})
	writeDirentNode(&buf, order, 1, 3, dtLnk, "link")
	writeInodeNode(&buf, order, inodeSpec{ino: 3, mode: sIFLNK | 0777, data: []byte("file.txt")})

	return buf.Bytes()
}

type inodeSpec struct {
	ino     uint32
	mode    uint32
	data    []byte
	version uint32 // defaults to 1
	offset  uint32 // write position within the inode's data
	isize   uint32 // defaults to offset + len(data)
}

// writeInodeNode appends one inode-version node (compression none) with
// correct header and body CRCs.
func writeInodeNode(buf *bytes.Buffer, order binary.ByteOrder, s inodeSpec) {
	var body bytes.Buffer

	putU32 := func(v uint32) { var b [4]byte; order.PutUint32(b[:], v); body.Write(b[:]) }
	putU16 := func(v uint16) { var b [2]byte; order.PutUint16(b[:], v); body.Write(b[:]) }

	version := s.version
	if version == 0 {
		version = 1
	}
	isize := s.isize
	if isize == 0 {
		isize = s.offset + uint32(len(s.data))
	}

	putU32(s.ino)
	putU32(version)
	putU32(s.mode)
	putU16(0) // uid
	putU16(0) // gid
	putU32(isize)
	putU32(0) // atime
	putU32(0) // mtime
	putU32(0) // ctime
	putU32(s.offset)
	putU32(uint32(len(s.data)))
	putU32(uint32(len(s.data)))
	body.WriteByte(byte(CompNone))
	body.Write([]byte{0, 0, 0}) // reserved

	// body is now the 48-byte fixed part the nodeCRC covers (ino through
	// the reserved bytes, matching parseRawInode's rest[:48]); dataCRC and
	// nodeCRC itself are appended after, never folded into the CRC input.
	hdr := nodeHeader(order, nodetypeInode, headerSize+56+uint32(len(s.data)))
	nodeCRC := mtdCRC(append(append([]byte{}, hdr...), body.Bytes()...))

	dataCRC := mtdCRC(s.data)
	var dataCRCBuf [4]byte
	order.PutUint32(dataCRCBuf[:], dataCRC)
	body.Write(dataCRCBuf[:])

	var nodeCRCBuf [4]byte
	order.PutUint32(nodeCRCBuf[:], nodeCRC)
	body.Write(nodeCRCBuf[:])

	writePadded(buf, hdr, append(body.Bytes(), s.data...))
}

// writeDirentNode appends one dirent node with correct header and body
// CRCs.
func writeDirentNode(buf *bytes.Buffer, order binary.ByteOrder, pino, ino uint32, dtype uint8, name string) {
	var body bytes.Buffer

	putU32 := func(v uint32) { var b [4]byte; order.PutUint32(b[:], v); body.Write(b[:]) }

	putU32(pino)
	putU32(1) // version
	putU32(ino)
	putU32(0) // mctime
	body.WriteByte(byte(len(name)))
	body.WriteByte(dtype)
	body.Write([]byte{0, 0}) // unused

	hdr := nodeHeader(order, nodetypeDirent, headerSize+28+uint32(len(name)))
	nodeCRC := mtdCRC(append(append([]byte{}, hdr...), body.Bytes()...))
	var nodeCRCBuf [4]byte
	order.PutUint32(nodeCRCBuf[:], nodeCRC)
	body.Write(nodeCRCBuf[:])

	nameCRC := mtdCRC([]byte(name))
	var nameCRCBuf [4]byte
	order.PutUint32(nameCRCBuf[:], nameCRC)
	body.Write(nameCRCBuf[:])

	writePadded(buf, hdr, append(body.Bytes(), []byte(name)...))
}

// nodeHeader builds the 12-byte general node header (magic, nodetype,
// totlen, hdrCRC) for a node whose body+data is totlen-headerSize bytes.
func nodeHeader(order binary.ByteOrder, nodetype uint16, totlen uint32) []byte {
	hdr := make([]byte, headerSize)
	order.PutUint16(hdr[0:2], magicValue)
	order.PutUint16(hdr[2:4], nodetype)
	order.PutUint32(hdr[4:8], totlen)
	order.PutUint32(hdr[8:12], mtdCRC(hdr[0:8]))
	return hdr
}

// writePadded appends hdr+body to buf, padding the whole node out to the
// next 4-byte boundary as scan() expects.
func writePadded(buf *bytes.Buffer, hdr, body []byte) {
	buf.Write(hdr)
	buf.Write(body)
	total := uint32(len(hdr) + len(body))
	if padded := pad(total); padded > total {
		buf.Write(make([]byte, padded-total))
	}
}
