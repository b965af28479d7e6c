package unzip

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// A testEntry describes one entry of an archive built for a test.
// Names ending in / are directories.
type testEntry struct {
	Name    string
	Content string
	Method  uint16
	NonUTF8 bool
	Mode    os.FileMode
}

// makeZip builds an archive in memory from the given entries, in order.
func makeZip(t *testing.T, entries ...testEntry) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	w.RegisterCompressor(methodXZ, func(out io.Writer) (io.WriteCloser, error) {
		return &lazyXZWriter{out: out}, nil
	})
	for _, e := range entries {
		method := e.Method
		if method == 0 {
			method = zip.Deflate
		}
		hdr := &zip.FileHeader{Name: e.Name, Method: method, NonUTF8: e.NonUTF8}
		if e.Mode != 0 {
			hdr.SetMode(e.Mode)
		}
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		if e.Content != "" {
			_, err = fw.Write([]byte(e.Content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// A lazyXZWriter only creates its xz.Writer on first use. xz.NewWriter writes the stream
// header straight away, but the zip writer creates compressors before it writes the local
// file header they belong after.
type lazyXZWriter struct {
	out io.Writer
	w   *xz.Writer
}

func (l *lazyXZWriter) init() (err error) {
	if l.w == nil {
		l.w, err = xz.NewWriter(l.out)
	}
	return err
}

func (l *lazyXZWriter) Write(b []byte) (int, error) {
	if err := l.init(); err != nil {
		return 0, err
	}
	return l.w.Write(b)
}

func (l *lazyXZWriter) Close() error {
	if err := l.init(); err != nil {
		return err
	}
	return l.w.Close()
}

// writeZip writes an archive built by makeZip to a file in a fresh temp directory and returns its path.
func writeZip(t *testing.T, entries ...testEntry) string {
	filename := filepath.Join(t.TempDir(), "test.jar")
	require.NoError(t, os.WriteFile(filename, makeZip(t, entries...), 0644))
	return filename
}

// readFile returns the contents of a file, failing the test if it can't be read.
func readFile(t *testing.T, filename string) string {
	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	return string(b)
}

// sliceEntryReader is an EntryReader over a fixed set of entries.
type sliceEntryReader struct {
	entries []*Entry
}

func (r *sliceEntryReader) Next() (*Entry, error) {
	if len(r.entries) == 0 {
		return nil, io.EOF
	}
	e := r.entries[0]
	r.entries = r.entries[1:]
	return e, nil
}

func content(s string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte(s))), nil
	}
}
