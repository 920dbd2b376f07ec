package jffs2

import (
	"log"
	"sort"
)

// rootIno is the inode number JFFS2 reserves for the filesystem root. A
// real image has no on-disk node for it; root is represented only by the
// dirents that name children of it.
const rootIno = 1

// treeNode is one reconstructed directory-tree entry. Regular files and
// symlinks are leaves; directories carry their resolved children.
type treeNode struct {
	ino      uint32
	name     string
	dtype    uint8
	children map[string]*treeNode
}

func newTreeNode(ino uint32, name string, dtype uint8) *treeNode {
	n := &treeNode{ino: ino, name: name, dtype: dtype}
	if dtype == dtDir {
		n.children = make(map[string]*treeNode)
	}
	return n
}

// buildTree reduces the flat dirent log to the final directory structure:
// the first live dirent in scan order survives per name within a parent,
// ino==0 marks a deletion of that name, and entries naming a parent inode that never
// resolves to a directory are dropped as orphans.
//
// Unlike real JFFS2 (where a dirent's version number decides which of
// several writes for the same name wins), ties are broken by first
// occurrence; duplicates are logged rather than silently dropped, since a
// read-only viewer has no way to tell which write was "newer" without
// trusting node order already.
func buildTree(res *scanResult) *treeNode {
	type childKey struct {
		pino uint32
		name string
	}
	live := make(map[childKey]uint32)
	seen := make(map[childKey]bool)
	dtypeOf := make(map[childKey]uint8)
	var order []childKey

	for _, d := range res.dirents {
		k := childKey{d.Pino, d.Name}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		if d.Ino == 0 {
			delete(live, k)
			continue
		}
		if prev, exists := live[k]; exists {
			log.Printf("jffs2: duplicate dirent %q under inode %d (keeping inode %d, ignoring %d)", k.name, k.pino, prev, d.Ino)
			continue
		}
		live[k] = d.Ino
		dtypeOf[k] = d.Dtype
	}

	nodes := map[uint32]*treeNode{rootIno: newTreeNode(rootIno, "", dtDir)}
	nodeOf := func(ino uint32, dtype uint8) *treeNode {
		if n, ok := nodes[ino]; ok {
			return n
		}
		n := newTreeNode(ino, "", dtype)
		nodes[ino] = n
		return n
	}

	// Attach children iteratively: a dirent can name a parent that is
	// itself only introduced by a later dirent in scan order, so a
	// single pass can miss entries. Repeat until a full pass attaches
	// nothing new.
	attached := make(map[childKey]bool)
	for {
		progress := false
		for _, k := range order {
			if attached[k] {
				continue
			}
			ino, ok := live[k]
			if !ok {
				attached[k] = true
				continue
			}
			parent, ok := nodes[k.pino]
			if !ok || parent.children == nil {
				continue
			}
			child := nodeOf(ino, dtypeOf[k])
			child.name = k.name
			parent.children[k.name] = child
			attached[k] = true
			progress = true
		}
		if !progress {
			break
		}
	}

	return nodes[rootIno]
}

// synthesizeRoot fabricates an inode-version record for the reserved
// root inode number, which JFFS2 never writes a real node for. Mode,
// ownership and timestamps are cloned from the first version of the
// first directory-type dirent's target found in scan order, matching
// how the format's own tools present a root directory to readers.
func synthesizeRoot(res *scanResult) {
	if _, ok := res.inodes[rootIno]; ok {
		return
	}
	for _, d := range res.dirents {
		if d.Dtype != dtDir {
			continue
		}
		versions := res.inodes[d.Ino]
		if len(versions) == 0 {
			continue
		}
		src := versions[0]
		res.inodes[rootIno] = []*RawINode{{
			Ino: rootIno, Version: 0, Mode: src.Mode, Uid: src.Uid, Gid: src.Gid,
			Atime: src.Atime, Mtime: src.Mtime, Ctime: src.Ctime,
		}}
		return
	}
}

// sortedNames returns a treeNode's child names in deterministic order,
// for ReadDir.
func sortedNames(n *treeNode) []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
