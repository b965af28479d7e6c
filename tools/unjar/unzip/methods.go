package unzip

import (
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// methodXZ is the APPNOTE compression method for xz.
const methodXZ uint16 = 95

// registerDecompressors adds readers for the compression methods beyond store & deflate
// that show up in the wild.
func registerDecompressors(r *zip.Reader) {
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	r.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())
	r.RegisterDecompressor(methodXZ, newXZReader)
}

func newXZReader(r io.Reader) io.ReadCloser {
	xr, err := xz.NewReader(r)
	if err != nil {
		return errReader{err: err}
	}
	return io.NopCloser(xr)
}

// An errReader returns the same error from every read.
type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

func (r errReader) Close() error {
	return nil
}
