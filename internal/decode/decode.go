// Package decode turns raw byte chunks into text for a named encoding.
//
// Decoders are stateful: a multi-byte sequence cut by a chunk boundary is kept
// until the next chunk arrives, so decoding chunk by chunk gives the same text
// as decoding the whole input at once.
package decode

import (
	"strings"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is used whenever the requested encoding is empty or unknown.
const Default = "utf8"

type Decoder interface {
	// Decode returns the text of p, holding back an incomplete trailing sequence.
	Decode(p []byte) (string, error)
	// Flush returns whatever is held back. Called once at end of input.
	Flush() (string, error)
}

// aliases are keyed by the compacted name (lower case, no '-', '_' or spaces).
var aliases = map[string]encoding.Encoding{
	"utf8":    unicode.UTF8,
	"ucs2":    unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf16le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf16be": unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf16":   unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"latin1":  charmap.ISO8859_1,
	"binary":  charmap.ISO8859_1,
	"ascii":   charmap.Windows1252,
}

func init() {
	for name, enc := range aliases {
		charset.RegisterEncoding(name, enc)
	}
}

func compact(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

func lookup(name string) (encoding.Encoding, bool) {
	if enc, ok := aliases[compact(name)]; ok {
		return enc, true
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, false
	}
	if enc, err := htmlindex.Get(key); err == nil && enc != nil {
		return enc, true
	}
	// ianaindex knows names it has no implementation for and returns a nil encoding.
	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		return enc, true
	}
	return nil, false
}

// Exists reports whether name denotes an encoding New can decode.
func Exists(name string) bool {
	if _, ok := binaryCodecs[compact(name)]; ok {
		return true
	}
	_, ok := lookup(name)
	return ok
}

// Normalize returns name when it exists and Default otherwise.
func Normalize(name string) string {
	if Exists(name) {
		return name
	}
	return Default
}

// New returns a fresh decoder for name, falling back to Default.
func New(name string) Decoder {
	if mk, ok := binaryCodecs[compact(name)]; ok {
		return mk()
	}
	enc, ok := lookup(name)
	if !ok {
		enc = unicode.UTF8
	}
	return &textDecoder{t: enc.NewDecoder(), buf: make([]byte, 4096)}
}

type textDecoder struct {
	t       transform.Transformer
	pending []byte
	buf     []byte
}

func (d *textDecoder) Decode(p []byte) (string, error) {
	return d.transform(p, false)
}

func (d *textDecoder) Flush() (string, error) {
	s, err := d.transform(nil, true)
	d.t.Reset()
	return s, err
}

func (d *textDecoder) transform(p []byte, atEOF bool) (string, error) {
	src := p
	if len(d.pending) > 0 {
		src = append(d.pending, p...)
		d.pending = nil
	}

	var out strings.Builder
	for {
		nDst, nSrc, err := d.t.Transform(d.buf, src, atEOF)
		out.Write(d.buf[:nDst])
		src = src[nSrc:]

		switch err {
		case nil:
			return out.String(), nil
		case transform.ErrShortDst:
			if nDst == 0 && nSrc == 0 {
				d.buf = make([]byte, 2*len(d.buf))
			}
		case transform.ErrShortSrc:
			if atEOF {
				return out.String(), err
			}
			d.pending = append([]byte(nil), src...)
			return out.String(), nil
		default:
			return out.String(), err
		}
	}
}
