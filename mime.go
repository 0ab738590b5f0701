package bwire

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MIMEOctetStream is the content type of files that could not be identified.
const MIMEOctetStream = "application/octet-stream"

var extensionMIME = map[string]string{
	"txt":  "text/plain",
	"html": "text/html",
	"css":  "text/css",
	"js":   "text/javascript",
	"json": "application/json",
	"png":  "image/png",
	"gif":  "image/gif",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"wav":  "audio/wav",
	"webm": "video/webm",
	"mp4":  "video/mp4",
}

// MIMEType returns the content type for a file name by its extension, case-insensitively.
func MIMEType(name string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	mime, ok := extensionMIME[ext]

	return mime, ok
}

// detectMIME looks up the extension first and sniffs the file contents for anything else.
func detectMIME(path string) string {
	if mime, ok := MIMEType(path); ok {
		return mime
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return MIMEOctetStream
	}

	return mt.String()
}
