// Package fs provides various filesystem helpers.
package fs

import (
	"io"
	"os"
	"path/filepath"
)

// DirPermissions are the default permission bits we apply to directories.
const DirPermissions = os.ModeDir | 0775

// FilePermissions are the permission bits we apply to files that don't specify any.
const FilePermissions os.FileMode = 0644

// EnsureDir ensures that the directory of the given file has been created.
func EnsureDir(filename string) error {
	return os.MkdirAll(filepath.Dir(filename), DirPermissions)
}

// PathExists returns true if the given path exists, as a file or a directory.
func PathExists(filename string) bool {
	_, err := os.Lstat(filename)
	return err == nil
}

// FileExists returns true if the given path exists and is a file.
func FileExists(filename string) bool {
	info, err := os.Lstat(filename)
	return err == nil && !info.IsDir()
}

// IsDirectory returns true if the given path exists and is a directory.
func IsDirectory(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && info.IsDir()
}

// MkdirAllReplacing is like os.MkdirAll, but if something other than a directory
// already exists at dir it's removed first. Only dir itself is considered; a
// non-directory in one of its ancestors is still an error.
// It returns true if it had to remove anything.
func MkdirAllReplacing(dir string) (bool, error) {
	if info, err := os.Lstat(dir); err == nil {
		if info.IsDir() {
			return false, nil
		}
		if err := os.Remove(dir); err != nil {
			return false, err
		}
		return true, os.MkdirAll(dir, DirPermissions)
	}
	return false, os.MkdirAll(dir, DirPermissions)
}

// WriteFile writes data from a reader to the file named 'to', with an attempt to perform
// a copy & rename to avoid chaos if anything goes wrong partway.
// Any existing file or empty directory at 'to' is replaced; a non-empty directory is an error.
// It returns the number of bytes written.
func WriteFile(from io.Reader, to string, mode os.FileMode) (int64, error) {
	dir, file := filepath.Split(to)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return 0, err
	}
	if IsDirectory(to) {
		if err := os.Remove(to); err != nil {
			return 0, &os.PathError{Op: "write", Path: to, Err: errIsDirectory}
		}
	}
	tempFile, err := os.CreateTemp(dir, "."+file+".*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tempFile.Name()) // No-op once it's been renamed.
	n, err := io.Copy(tempFile, from)
	if err != nil {
		tempFile.Close()
		return n, err
	}
	if err := tempFile.Close(); err != nil {
		return n, err
	}
	// OK, now file is written; adjust permissions appropriately.
	if mode == 0 {
		mode = FilePermissions
	}
	if err := os.Chmod(tempFile.Name(), mode); err != nil {
		return n, err
	}
	// And move it to its final destination.
	return n, os.Rename(tempFile.Name(), to)
}
