package naming

import (
	"strings"

	"github.com/kbukum/nucleus/errors"
)

// Separator separates path segments.
const Separator = "/"

// Root is the path of the root namespace.
var Root = Path{}

// Path is a normalized absolute component path. The zero value is the root.
type Path struct {
	segments []string
}

// Parse parses an absolute component path.
func Parse(s string) (Path, error) {
	if !strings.HasPrefix(s, Separator) {
		return Path{}, errors.InvalidPath(s, "path must be absolute")
	}
	return Root.join(s, s)
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Resolve resolves name against base. Absolute names ignore base; relative
// names are taken relative to the directory containing base.
func Resolve(base Path, name string) (Path, error) {
	if name == "" {
		return Path{}, errors.InvalidPath(name, "empty name")
	}
	if strings.HasPrefix(name, Separator) {
		return Parse(name)
	}
	return base.Parent().join(name, name)
}

func (p Path) join(rel, original string) (Path, error) {
	segs := append([]string(nil), p.segments...)
	for i, seg := range strings.Split(rel, Separator) {
		switch seg {
		case "":
			// leading separator of an absolute path, or a trailing one
			if i == 0 || i == strings.Count(rel, Separator) {
				continue
			}
			return Path{}, errors.InvalidPath(original, "empty segment")
		case ".":
			continue
		case "..":
			if len(segs) == 0 {
				return Path{}, errors.InvalidPath(original, "path escapes root")
			}
			segs = segs[:len(segs)-1]
		default:
			if !validSegment(seg) {
				return Path{}, errors.InvalidPath(original, "invalid character in segment "+seg)
			}
			segs = append(segs, seg)
		}
	}
	return Path{segments: segs}, nil
}

func validSegment(seg string) bool {
	for _, r := range seg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '.', r == '$', r == '-':
		default:
			return false
		}
	}
	return true
}

// String returns the absolute form of the path.
func (p Path) String() string {
	return Separator + strings.Join(p.segments, Separator)
}

// Name returns the last segment, or "" for the root.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the enclosing path. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return p
	}
	return Path{segments: p.segments[: len(p.segments)-1 : len(p.segments)-1]}
}

// Child returns the path of a direct child named seg.
func (p Path) Child(seg string) (Path, error) {
	if seg == "" || seg == "." || seg == ".." || !validSegment(seg) {
		return Path{}, errors.InvalidPath(p.String()+Separator+seg, "invalid child name")
	}
	segs := make([]string, len(p.segments), len(p.segments)+1)
	copy(segs, p.segments)
	return Path{segments: append(segs, seg)}, nil
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p.segments) }

// Equal reports whether two paths name the same component.
func (p Path) Equal(o Path) bool { return p.String() == o.String() }
