package squashfs_test

import (
	"bytes"
	"encoding/binary"

	"github.com/flashimg/flashimg/squashfs"
)

// builtImage is a minimal, hand-assembled SquashFS 4.0 image: a root
// directory holding one regular file ("file.txt") and two symlinks
// ("link" -> "file.txt", and the self-referencing "loop" -> "loop").
// Every block is stored uncompressed (its
// on-disk "uncompressed" bit set) so the image needs no compressor,
// keeping construction self-contained.
type builtImage struct {
	bytes      []byte
	fileData   []byte
	fileName   string
	linkName   string
	linkTarget string
}

// newBasicImage assembles builtImage's bytes field from scratch,
// mirroring the layout a real mksquashfs run would produce for this tiny
// tree: superblock, inode table, directory table, file data, id table.
func newBasicImage() *builtImage {
	const (
		blockLog  = 12
		blockSize = 1 << blockLog
	)
	fileData := []byte("hello world\n")

	// --- inode table (one uncompressed metadata block) ---
	var inodes bytes.Buffer

	rootOff := inodes.Len()
	writeBasicDirInode(&inodes, 1 /* ino */, 0 /* dirBlock */, 0 /* dirOffset */, 0 /* dirSize, patched below */, 1 /* parent */)

	fileOff := inodes.Len()
	writeBasicFileInode(&inodes, 2, 0 /* data block start, patched below */, uint32(len(fileData)))

	linkOff := inodes.Len()
	writeBasicSymlinkInode(&inodes, 3, "file.txt")

	loopOff := inodes.Len()
	writeBasicSymlinkInode(&inodes, 4, "loop")

	// --- directory table (one uncompressed metadata block) ---
	var dirContent bytes.Buffer
	writeDirHeader(&dirContent, 3, 0 /* groupBlock: inode table's only block, relative offset 0 */, 2)
	writeDirEntry(&dirContent, uint16(fileOff), 0, squashfs.FileType, "file.txt")
	writeDirEntry(&dirContent, uint16(linkOff), 1, squashfs.SymlinkType, "link")
	writeDirEntry(&dirContent, uint16(loopOff), 2, squashfs.SymlinkType, "loop")

	rootDirSize := dirContent.Len() + 3 // on-disk directory size includes a 3-byte tail

	// patch root dir inode's size field now that it's known
	patchUint16(inodes.Bytes(), rootOff+24, uint16(rootDirSize))

	inodeRegion := wrapMetadataBlock(inodes.Bytes())
	dirRegion := wrapMetadataBlock(dirContent.Bytes())

	const superblockSize = 96
	inodeTableStart := int64(superblockSize)
	dirTableStart := inodeTableStart + int64(len(inodeRegion))
	fileDataStart := dirTableStart + int64(len(dirRegion))
	idOfftStart := fileDataStart + int64(len(fileData))
	idDataStart := idOfftStart + 8

	// patch file inode's data block start now that layout is final
	patchUint32(inodes.Bytes(), fileOff+16, uint32(fileDataStart))
	inodeRegion = wrapMetadataBlock(inodes.Bytes())

	var idData bytes.Buffer
	binary.Write(&idData, binary.LittleEndian, uint32(0)) // id 0
	idRegion := wrapMetadataBlock(idData.Bytes())

	var idOfft bytes.Buffer
	binary.Write(&idOfft, binary.LittleEndian, uint64(idDataStart))

	var img bytes.Buffer
	img.Write(make([]byte, superblockSize))
	img.Write(inodeRegion)
	img.Write(dirRegion)
	img.Write(fileData)
	img.Write(idOfft.Bytes())
	img.Write(idRegion)

	sb := img.Bytes()[:superblockSize]
	copy(sb[0:4], "hsqs")
	binary.LittleEndian.PutUint32(sb[4:8], 4)                            // InodeCnt
	binary.LittleEndian.PutUint32(sb[8:12], 0)                           // ModTime
	binary.LittleEndian.PutUint32(sb[12:16], blockSize)                  // BlockSize
	binary.LittleEndian.PutUint32(sb[16:20], 0)                          // FragCount
	binary.LittleEndian.PutUint16(sb[20:22], 1)                         // Comp = GZip (unused, nothing is compressed)
	binary.LittleEndian.PutUint16(sb[22:24], blockLog)                   // BlockLog
	binary.LittleEndian.PutUint16(sb[24:26], uint16(squashfs.NO_FRAGMENTS)) // Flags
	binary.LittleEndian.PutUint16(sb[26:28], 1)                          // IdCount
	binary.LittleEndian.PutUint16(sb[28:30], 4)                          // VMajor
	binary.LittleEndian.PutUint16(sb[30:32], 0)                          // VMinor
	binary.LittleEndian.PutUint64(sb[32:40], 0)                          // RootInode: block 0, offset 0
	binary.LittleEndian.PutUint64(sb[40:48], uint64(img.Len()))          // BytesUsed
	binary.LittleEndian.PutUint64(sb[48:56], uint64(idOfftStart))        // IdTableStart
	binary.LittleEndian.PutUint64(sb[56:64], ^uint64(0))                 // XattrIdTableStart (absent)
	binary.LittleEndian.PutUint64(sb[64:72], uint64(inodeTableStart))    // InodeTableStart
	binary.LittleEndian.PutUint64(sb[72:80], uint64(dirTableStart))      // DirTableStart
	binary.LittleEndian.PutUint64(sb[80:88], ^uint64(0))                 // FragTableStart (absent)
	binary.LittleEndian.PutUint64(sb[88:96], ^uint64(0))                 // ExportTableStart (absent)

	return &builtImage{
		bytes:      img.Bytes(),
		fileData:   fileData,
		fileName:   "file.txt",
		linkName:   "link",
		linkTarget: "file.txt",
	}
}

func writeBasicDirInode(buf *bytes.Buffer, ino uint32, dirBlock uint32, dirOffset uint16, dirSize uint16, parent uint32) {
	binary.Write(buf, binary.LittleEndian, uint16(squashfs.DirType))
	binary.Write(buf, binary.LittleEndian, uint16(0755))
	binary.Write(buf, binary.LittleEndian, uint16(0)) // UidIdx
	binary.Write(buf, binary.LittleEndian, uint16(0)) // GidIdx
	binary.Write(buf, binary.LittleEndian, int32(0))  // ModTime
	binary.Write(buf, binary.LittleEndian, ino)
	binary.Write(buf, binary.LittleEndian, dirBlock)
	binary.Write(buf, binary.LittleEndian, uint32(2)) // NLink
	binary.Write(buf, binary.LittleEndian, dirSize)
	binary.Write(buf, binary.LittleEndian, dirOffset)
	binary.Write(buf, binary.LittleEndian, parent)
}

func writeBasicFileInode(buf *bytes.Buffer, ino uint32, dataStart uint32, size uint32) {
	binary.Write(buf, binary.LittleEndian, uint16(squashfs.FileType))
	binary.Write(buf, binary.LittleEndian, uint16(0644))
	binary.Write(buf, binary.LittleEndian, uint16(0))
	binary.Write(buf, binary.LittleEndian, uint16(0))
	binary.Write(buf, binary.LittleEndian, int32(0))
	binary.Write(buf, binary.LittleEndian, ino)
	binary.Write(buf, binary.LittleEndian, dataStart)
	binary.Write(buf, binary.LittleEndian, uint32(0xffffffff)) // FragBlock: none
	binary.Write(buf, binary.LittleEndian, uint32(0))          // FragOfft
	binary.Write(buf, binary.LittleEndian, size)
	binary.Write(buf, binary.LittleEndian, size|0x1000000) // one block, stored uncompressed
}

func writeBasicSymlinkInode(buf *bytes.Buffer, ino uint32, target string) {
	binary.Write(buf, binary.LittleEndian, uint16(squashfs.SymlinkType))
	binary.Write(buf, binary.LittleEndian, uint16(0777))
	binary.Write(buf, binary.LittleEndian, uint16(0))
	binary.Write(buf, binary.LittleEndian, uint16(0))
	binary.Write(buf, binary.LittleEndian, int32(0))
	binary.Write(buf, binary.LittleEndian, ino)
	binary.Write(buf, binary.LittleEndian, uint32(1)) // NLink
	binary.Write(buf, binary.LittleEndian, uint32(len(target)))
	buf.WriteString(target)
}

func writeDirHeader(buf *bytes.Buffer, count, block, baseIno uint32) {
	binary.Write(buf, binary.LittleEndian, count-1)
	binary.Write(buf, binary.LittleEndian, block)
	binary.Write(buf, binary.LittleEndian, baseIno)
}

func writeDirEntry(buf *bytes.Buffer, inodeOffset uint16, inoDelta int16, typ squashfs.Type, name string) {
	binary.Write(buf, binary.LittleEndian, inodeOffset)
	binary.Write(buf, binary.LittleEndian, inoDelta)
	binary.Write(buf, binary.LittleEndian, uint16(typ))
	binary.Write(buf, binary.LittleEndian, uint16(len(name)-1))
	buf.WriteString(name)
}

// wrapMetadataBlock prefixes content with a metadata block's 2-byte
// length header, with the "stored uncompressed" top bit set.
func wrapMetadataBlock(content []byte) []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, uint16(len(content))|0x8000)
	out.Write(content)
	return out.Bytes()
}

func patchUint16(buf []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(buf[off:], v)
}

func patchUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}
