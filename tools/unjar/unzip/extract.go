// Package unzip implements recursive extraction of jar files for unjar.
// Any entry that is itself a jar is extracted again into a directory named after it,
// alongside the jar itself.
package unzip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"

	logger "github.com/thought-machine/unjar/src/cli/logging"
	"github.com/thought-machine/unjar/src/fs"
)

var log = logger.Log

// DefaultSuffix is the suffix that identifies nested archives.
const DefaultSuffix = ".jar"

// Options control an extraction.
type Options struct {
	// Charset used to decode entry names that aren't flagged as UTF-8. Defaults to UTF-8.
	Charset string
	// Suffix of entry names that are extracted recursively. Defaults to DefaultSuffix.
	Suffix string
	// MaxDepth is the deepest level of nested archives that will be extracted; zero means no limit.
	MaxDepth int
	// Staged extracts everything into a temporary directory first and only moves it into
	// the destination once the whole extraction has succeeded.
	Staged bool
}

// Stats records what an extraction has written.
type Stats struct {
	Dirs, Files, Archives int
	Bytes                 int64
}

// An Extractor extracts archives, recursing into any nested ones.
// It isn't safe for concurrent use.
type Extractor struct {
	Options
	Stats Stats
	depth int
}

// New returns a new Extractor with the given options.
func New(opts Options) (*Extractor, error) {
	if opts.Charset == "" {
		opts.Charset = DefaultCharset
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if _, err := LookupCharset(opts.Charset); err != nil {
		return nil, err
	}
	return &Extractor{Options: opts}, nil
}

// ExtractFile extracts the archive at filename into the directory root, which must exist.
func ExtractFile(root, filename string, opts Options) error {
	if filename == "" {
		return ErrNoSource
	}
	e, err := New(opts)
	if err != nil {
		return err
	}
	return e.run(root, func(dest string) error {
		return e.extractFile(dest, filename)
	})
}

// ExtractStream extracts the archive read from r into the directory root, which must exist.
// Zip archives can't be read front-to-back, so r is spooled to a temporary file first.
func ExtractStream(root string, r io.Reader, opts Options) error {
	if r == nil {
		return ErrNoSource
	}
	e, err := New(opts)
	if err != nil {
		return err
	}
	return e.run(root, func(dest string) error {
		f, err := os.CreateTemp("", "unjar-*.zip")
		if err != nil {
			return ioError("create temp file in", os.TempDir(), err)
		}
		defer os.Remove(f.Name())
		defer f.Close()
		size, err := io.Copy(f, r)
		if err != nil {
			return ioError("spool archive to", f.Name(), err)
		}
		entries, err := NewEntryReader(f, size, e.Charset)
		if err != nil {
			return ioError("read archive", "from stream", err)
		}
		return e.Extract(dest, entries)
	})
}

// ExtractEntries extracts everything from the given entry reader into the directory root, which must exist.
func ExtractEntries(root string, entries EntryReader, opts Options) error {
	if entries == nil {
		return ErrNoSource
	}
	e, err := New(opts)
	if err != nil {
		return err
	}
	return e.run(root, func(dest string) error {
		return e.Extract(dest, entries)
	})
}

// run validates root and calls extract with the directory it should extract into.
func (e *Extractor) run(root string, extract func(dest string) error) error {
	if root == "" {
		return ErrNoDestination
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return ioError("resolve destination", root, err)
	}
	if info, err := os.Stat(root); err != nil {
		return ioError("open destination", root, err)
	} else if !info.IsDir() {
		return ioError("open destination", root, errNotDirectory)
	}
	if e.Staged {
		err = e.staged(root, extract)
	} else {
		err = extract(root)
	}
	if err == nil {
		log.Notice("Extracted %d files (%s) and %d directories, including %d nested archives, into %s",
			e.Stats.Files, humanize.Bytes(uint64(e.Stats.Bytes)), e.Stats.Dirs, e.Stats.Archives, root)
	}
	return err
}

// Extract extracts every entry from entries into root, which must be an absolute path to
// an existing directory. It stops at the first error; anything written up to that point is left.
func (e *Extractor) Extract(root string, entries EntryReader) error {
	for {
		entry, err := entries.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return ioError("read next entry for", root, err)
		}
		if err := e.extractEntry(root, entry); err != nil {
			return err
		}
	}
}

func (e *Extractor) extractEntry(root string, entry *Entry) error {
	target, err := Resolve(root, entry.Name)
	if err != nil {
		return err
	}
	if entry.IsDir {
		return e.makeDir(target)
	}
	if err := e.writeFile(target, entry); err != nil {
		return err
	}
	if strings.HasSuffix(entry.Name, e.Suffix) {
		return e.extractNested(root, entry.Name, target)
	}
	return nil
}

// makeDir creates a directory for an entry. Some jars contain both a file and a directory
// with the same name; in that case the directory wins.
func (e *Extractor) makeDir(dir string) error {
	replaced, err := fs.MkdirAllReplacing(dir)
	if replaced {
		warnReplaced(dir)
	}
	if err != nil {
		return ioError("create directory", dir, err)
	}
	e.Stats.Dirs++
	return nil
}

func (e *Extractor) writeFile(target string, entry *Entry) error {
	r, err := entry.Open()
	if err != nil {
		return ioError("open entry", entry.Name, err)
	}
	defer r.Close()
	log.Debug("Extracting %s (%s)", entry.Name, humanize.Bytes(entry.Size))
	if err := fs.EnsureDir(target); err != nil {
		return ioError("create directory for", target, err)
	}
	n, err := fs.WriteFile(r, target, fileMode(entry.Mode))
	if err != nil {
		return ioError("write", target, err)
	}
	if entry.Size > 0 && uint64(n) != entry.Size {
		log.Warning("%s is %s but its entry claims %s", target, humanize.Bytes(uint64(n)), humanize.Bytes(entry.Size))
	}
	log.Debug("Extracted %s (%s)", target, humanize.Bytes(uint64(n)))
	e.Stats.Files++
	e.Stats.Bytes += n
	return nil
}

// extractNested extracts the archive that was just written to the given file into a
// directory beneath root named after the entry, without its suffix.
func (e *Extractor) extractNested(root, name, archive string) error {
	if e.MaxDepth > 0 && e.depth >= e.MaxDepth {
		return fmt.Errorf("%w (%d): not extracting %s", ErrMaxDepth, e.MaxDepth, archive)
	}
	dir, err := Resolve(root, strings.TrimSuffix(name, e.Suffix))
	if err != nil {
		return err
	}
	f, err := os.Open(archive)
	if err != nil {
		return ioError("open nested archive", archive, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return ioError("stat nested archive", archive, err)
	}
	entries, err := NewEntryReader(f, info.Size(), e.Charset)
	if errors.Is(err, zip.ErrFormat) {
		log.Warning("%s is not a valid archive, it won't be extracted", archive)
		return nil
	} else if err != nil {
		return ioError("read nested archive", archive, err)
	}
	if err := e.makeDir(dir); err != nil {
		return err
	}
	log.Info("Extracting nested archive %s into %s", archive, dir)
	e.Stats.Archives++
	e.depth++
	defer func() { e.depth-- }()
	return e.Extract(dir, entries)
}

func (e *Extractor) extractFile(root, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return ioError("open archive", filename, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return ioError("stat archive", filename, err)
	}
	entries, err := NewEntryReader(f, info.Size(), e.Charset)
	if err != nil {
		return ioError("read archive", filename, err)
	}
	log.Debug("Extracting %d entries from %s into %s", entries.Len(), filename, root)
	return e.Extract(root, entries)
}

// fileMode returns the permissions to write an entry with. Nobody but the owner can write
// to it, and the owner can always read it, since we may need to reopen it as a nested archive.
func fileMode(mode os.FileMode) os.FileMode {
	if mode.Perm() == 0 {
		return fs.FilePermissions
	}
	return mode.Perm()&0755 | 0600
}

func warnReplaced(dir string) {
	log.Warning("The archive is malformed: it has both a file and a directory at %s", dir)
	log.Warning("Converted file %s into a directory", dir)
}
