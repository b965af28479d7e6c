package unzip

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Resolve returns the absolute path that the entry called name should be extracted to
// beneath root. It never touches the filesystem.
// root must be an absolute path. If the result would not be root or one of its
// descendants, a *PathTraversalError is returned; absolute entry names are always rejected.
func Resolve(root, name string) (string, error) {
	if root == "" {
		return "", ErrNoDestination
	} else if !filepath.IsAbs(root) {
		return "", fmt.Errorf("destination %s is not an absolute path", root)
	}
	root = filepath.Clean(root)
	if path.IsAbs(name) || filepath.IsAbs(filepath.FromSlash(name)) {
		return "", &PathTraversalError{Root: root, Name: name}
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	if !within(root, target) {
		return "", &PathTraversalError{Root: root, Name: name}
	}
	return target, nil
}

// within returns true if target is dir or lies beneath it. Both must be clean.
// It compares whole path components, so /dest-evil is not within /dest.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
