package source

import (
	"bytes"
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message/charset"
	"github.com/gabriel-vasile/mimetype"
)

const sniffLen = 3072

func charsetParam(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

func isUTF8(cs string) bool {
	return cs == "utf-8" || cs == "utf8" || cs == "us-ascii"
}

// decodeAuto returns r converted to UTF-8. The charset comes from contentType
// when it names one, otherwise from sniffing the head of r. Unknown charsets
// pass through unchanged.
func decodeAuto(r io.Reader, contentType string) (io.Reader, error) {
	if cs := charsetParam(contentType); cs != "" {
		if isUTF8(cs) {
			return r, nil
		}
		if dr, err := charset.Reader(cs, r); err == nil {
			return dr, nil
		}
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	r = io.MultiReader(bytes.NewReader(head[:n]), r)

	cs := charsetParam(mimetype.Detect(head[:n]).String())
	if cs == "" || isUTF8(cs) {
		return r, nil
	}
	dr, err := charset.Reader(cs, r)
	if err != nil {
		return r, nil
	}
	return dr, nil
}
