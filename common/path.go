package common

import "strings"

// pathSeparator separates the segments of an identifier path in its string
// form.  It can never occur inside an identifier.
const pathSeparator = "/"

// IdentifierPath is the full, scope-qualified name of a declaration: eg. the
// local `x` declared in the function `main` is `main/x`.  Paths are
// comparable values and may be used directly as map keys.  The zero value is
// the empty path.
type IdentifierPath struct {
	joined string
}

// NewPath creates a new identifier path from the given segments.
func NewPath(segments ...string) IdentifierPath {
	return IdentifierPath{joined: strings.Join(segments, pathSeparator)}
}

// Append returns a new path with segment added to the end of this one.
func (ip IdentifierPath) Append(segment string) IdentifierPath {
	if ip.joined == "" {
		return IdentifierPath{joined: segment}
	}

	return IdentifierPath{joined: ip.joined + pathSeparator + segment}
}

// Segments returns the name segments of the path.
func (ip IdentifierPath) Segments() []string {
	if ip.joined == "" {
		return nil
	}

	return strings.Split(ip.joined, pathSeparator)
}

// Name returns the last segment of the path.
func (ip IdentifierPath) Name() string {
	if n := strings.LastIndex(ip.joined, pathSeparator); n >= 0 {
		return ip.joined[n+1:]
	}

	return ip.joined
}

// Parent returns the path with its last segment removed.
func (ip IdentifierPath) Parent() IdentifierPath {
	if n := strings.LastIndex(ip.joined, pathSeparator); n >= 0 {
		return IdentifierPath{joined: ip.joined[:n]}
	}

	return IdentifierPath{}
}

// IsEmpty returns whether the path has no segments.
func (ip IdentifierPath) IsEmpty() bool {
	return ip.joined == ""
}

// Join returns the segments of the path joined by sep.  This is used to
// produce mangled target-language names.
func (ip IdentifierPath) Join(sep string) string {
	return strings.ReplaceAll(ip.joined, pathSeparator, sep)
}

func (ip IdentifierPath) String() string {
	return ip.joined
}
