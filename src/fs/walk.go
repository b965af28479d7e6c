package fs

import (
	"os"

	"github.com/karrick/godirwalk"
)

// Mode describes the type of a file found while walking.
type Mode interface {
	IsDir() bool
	IsSymlink() bool
	IsRegular() bool

	ModeType() os.FileMode
}

type mode os.FileMode

func (m mode) IsDir() bool {
	return os.FileMode(m).IsDir()
}

func (m mode) IsRegular() bool {
	return os.FileMode(m).IsRegular()
}

func (m mode) IsSymlink() bool {
	return os.FileMode(m)&os.ModeSymlink != 0
}

func (m mode) ModeType() os.FileMode {
	return os.FileMode(m)
}

// Walk implements an equivalent to filepath.Walk.
// It's implemented over github.com/karrick/godirwalk but the provided interface doesn't use that
// to make it a little easier to handle.
func Walk(rootPath string, callback func(name string, isDir bool) error) error {
	return WalkMode(rootPath, func(name string, mode Mode) error {
		return callback(name, mode.IsDir())
	})
}

// WalkMode is like Walk but the callback receives an additional type specifying the file mode type.
// N.B. This only includes the bits of the mode that determine the mode type, not the permissions.
// Entries within each directory are visited in sorted order, and each directory is read in full
// before any of its children are visited, so it's safe for the callback to move files out of it.
func WalkMode(rootPath string, callback func(name string, mode Mode) error) error {
	// Compatibility with filepath.Walk which allows passing a file as the root argument.
	if info, err := os.Lstat(rootPath); err != nil {
		return err
	} else if !info.IsDir() {
		return callback(rootPath, mode(info.Mode()))
	}
	return godirwalk.Walk(rootPath, &godirwalk.Options{Callback: func(name string, info *godirwalk.Dirent) error {
		return callback(name, info)
	}})
}
