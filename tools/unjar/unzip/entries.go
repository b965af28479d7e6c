package unzip

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding"
)

// An Entry is a single file or directory read from an archive.
type Entry struct {
	// Name is the entry's path within the archive, '/'-separated. It's untrusted.
	Name  string
	IsDir bool
	Mode  os.FileMode
	Size  uint64
	open  func() (io.ReadCloser, error)
}

// NewEntry creates a new entry. open is called to read the entry's content and may be nil
// for directories and empty files.
func NewEntry(name string, isDir bool, mode os.FileMode, open func() (io.ReadCloser, error)) *Entry {
	return &Entry{Name: name, IsDir: isDir, Mode: mode, open: open}
}

// Open returns a reader over the entry's decompressed content.
// The caller must close it.
func (e *Entry) Open() (io.ReadCloser, error) {
	if e.open == nil {
		return io.NopCloser(strings.NewReader("")), nil
	}
	return e.open()
}

// An EntryReader yields the entries of an archive in order.
type EntryReader interface {
	// Next returns the next entry, or io.EOF once there are no more.
	Next() (*Entry, error)
}

// A ZipEntryReader is an EntryReader over a zip archive.
type ZipEntryReader struct {
	files []*zip.File
	next  int
	enc   encoding.Encoding
}

// NewEntryReader returns an EntryReader for the zip archive in r, which is size bytes long.
// Names not flagged as UTF-8 are decoded using the given charset.
func NewEntryReader(r io.ReaderAt, size int64, charset string) (*ZipEntryReader, error) {
	if r == nil {
		return nil, ErrNoSource
	}
	enc, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		if zr == nil {
			return nil, err
		}
		// Reported for names with '..' or absolute paths; the reader is still usable
		// and Resolve makes the call on each of those names.
		log.Debug("Archive has suspicious entry names: %s", err)
	}
	registerDecompressors(zr)
	return &ZipEntryReader{files: zr.File, enc: enc}, nil
}

// Next implements the EntryReader interface.
func (r *ZipEntryReader) Next() (*Entry, error) {
	if r.next >= len(r.files) {
		return nil, io.EOF
	}
	f := r.files[r.next]
	r.next++
	name, err := decodeName(f.Name, f.Flags, r.enc)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Name:  name,
		IsDir: strings.HasSuffix(name, "/") || f.Mode().IsDir(),
		Mode:  f.Mode(),
		Size:  f.UncompressedSize64,
		open:  f.Open,
	}, nil
}

// Len returns the total number of entries in the archive.
func (r *ZipEntryReader) Len() int {
	return len(r.files)
}
