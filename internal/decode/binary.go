package decode

import (
	"encoding/base64"
	"encoding/hex"
)

// binaryCodecs render raw bytes as text instead of interpreting them.
var binaryCodecs = map[string]func() Decoder{
	"base64": func() Decoder { return &base64Decoder{enc: base64.StdEncoding} },
	"hex":    func() Decoder { return hexDecoder{} },
}

// base64Decoder carries up to two bytes between chunks so that the output
// only pads at the very end.
type base64Decoder struct {
	enc  *base64.Encoding
	rest []byte
}

func (d *base64Decoder) Decode(p []byte) (string, error) {
	buf := append(d.rest, p...)
	n := len(buf) / 3 * 3
	s := d.enc.EncodeToString(buf[:n])
	d.rest = append([]byte(nil), buf[n:]...)
	return s, nil
}

func (d *base64Decoder) Flush() (string, error) {
	s := d.enc.EncodeToString(d.rest)
	d.rest = nil
	return s, nil
}

type hexDecoder struct{}

func (hexDecoder) Decode(p []byte) (string, error) { return hex.EncodeToString(p), nil }
func (hexDecoder) Flush() (string, error)          { return "", nil }
