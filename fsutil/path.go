package fsutil

import (
	"fmt"
	"path"
)

// Path is a slash-separated filesystem path.
type Path string

// Join appends a path component.
func (pt Path) Join(part string) Path {
	return Path(path.Join(string(pt), part))
}

// JoinP appends another Path.
func (pt Path) JoinP(part Path) Path {
	return Path(path.Join(string(pt), string(part)))
}

// JoinF appends a component built from a format string.
func (pt Path) JoinF(format string, args ...interface{}) Path {
	return Path(path.Join(string(pt), fmt.Sprintf(format, args...)))
}

func (pt Path) String() string {
	return string(pt)
}
