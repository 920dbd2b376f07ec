package imgfs

import "fmt"

// Kind classifies the errors a format parser can return. Callers match
// kinds with errors.Is against the Err* sentinels below, or with a type
// switch / errors.As against *Error for the offending path or field.
type Kind int

const (
	// KindIO covers short reads and seeks past the end of the image.
	KindIO Kind = iota
	// KindFormat covers magic mismatches and structural fields out of range.
	KindFormat
	// KindChecksum covers header/node/name/data CRC mismatches (JFFS2).
	KindChecksum
	// KindUnsupportedCompression covers codec ids with no implemented decoder.
	KindUnsupportedCompression
	// KindNotFound covers a path that does not resolve to an entry.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	case KindChecksum:
		return "checksum"
	case KindUnsupportedCompression:
		return "unsupported-compression"
	case KindNotFound:
		return "not-found"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a Kind-tagged error carrying the path or field that triggered it.
type Error struct {
	Kind Kind
	Op   string // component/operation, e.g. "squashfs: inode table"
	Path string // image-relative path, if applicable
	Err  error  // underlying cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %s", e.Op, e.Path, e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Path, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is one of the package-level Err* sentinels
// matching e's Kind, so callers can use errors.Is(err, imgfs.ErrNotFound)
// without needing to know the originating format package.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrFormat:
		return e.Kind == KindFormat
	case ErrChecksum:
		return e.Kind == KindChecksum
	case ErrUnsupportedCompression:
		return e.Kind == KindUnsupportedCompression
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// Sentinel errors usable with errors.Is against any *Error of matching Kind.
var (
	ErrIO                     = &Error{Kind: KindIO, Op: "imgfs"}
	ErrFormat                 = &Error{Kind: KindFormat, Op: "imgfs"}
	ErrChecksum               = &Error{Kind: KindChecksum, Op: "imgfs"}
	ErrUnsupportedCompression = &Error{Kind: KindUnsupportedCompression, Op: "imgfs"}
	ErrNotFound               = &Error{Kind: KindNotFound, Op: "imgfs"}
)

// NewError builds an *Error for op/path, wrapping err.
func NewError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
