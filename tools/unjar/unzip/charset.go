package unzip

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCharset is used to decode entry names when no charset is given.
const DefaultCharset = "UTF-8"

// utf8Flag is general purpose bit 11, set by writers whose names are already UTF-8.
const utf8Flag = 0x800

// LookupCharset returns the encoding with the given IANA name (e.g. "Shift_JIS", "IBM437").
// An empty name means DefaultCharset.
func LookupCharset(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultCharset
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, &CharsetError{Name: name, Err: err}
	} else if enc == nil {
		// Known to IANA, but x/text has no implementation of it.
		return nil, &CharsetError{Name: name}
	}
	return enc, nil
}

// decodeName converts a raw entry name to UTF-8.
func decodeName(raw string, flags uint16, enc encoding.Encoding) (string, error) {
	if flags&utf8Flag != 0 || enc == unicode.UTF8 {
		return raw, nil
	}
	return enc.NewDecoder().String(raw)
}
