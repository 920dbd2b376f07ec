package squashfs

// Option configures a Superblock at New/Open time.
type Option func(sb *Superblock) error

// InodeOffset adds offt to every inode number returned to callers
// (Inode.Ino, directory entries, FindInode results), letting a caller
// that mounts several images under one namespace keep their inode
// numbers from colliding.
func InodeOffset(offt uint64) Option {
	return func(sb *Superblock) error {
		sb.inoOfft = offt
		return nil
	}
}
