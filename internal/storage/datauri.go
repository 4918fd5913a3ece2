package storage

import (
	"encoding/base64"
	"mime"
	"strings"
)

// ContentTag derives a MIME type from a file extension. The extension is
// trusted as given; content is never sniffed.
func ContentTag(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return "application/octet-stream"
	}
	if tag := mime.TypeByExtension("." + ext); tag != "" {
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		return strings.TrimSpace(tag)
	}
	return "image/" + ext
}

// DataURI renders data as data:<tag>;base64,<payload>.
func DataURI(tag string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(tag) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(tag)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
