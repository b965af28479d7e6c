package fs

import (
	"os"
	"path/filepath"
)

// MergeTree moves the contents of the directory 'from' into 'to', which is created if needed.
// Files replace whatever file is already at their destination. Directories replace any
// non-directory in their way; onReplace is called with the path of each one that is.
// 'from' is left with only its (now empty) directory structure.
func MergeTree(from, to string, onReplace func(path string)) error {
	from = filepath.Clean(from)
	return WalkMode(from, func(name string, fileMode Mode) error {
		dest := filepath.Join(to, name[len(from):])
		if fileMode.IsDir() {
			replaced, err := MkdirAllReplacing(dest)
			if replaced && onReplace != nil {
				onReplace(dest)
			}
			return err
		}
		if err := EnsureDir(dest); err != nil {
			return err
		}
		if IsDirectory(dest) {
			return &os.PathError{Op: "merge", Path: dest, Err: errIsDirectory}
		}
		return os.Rename(name, dest)
	})
}
