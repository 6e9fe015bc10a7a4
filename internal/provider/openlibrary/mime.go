package openlibrary

import "fmt"

// formatMIME maps Open Library acquisition format strings to MIME types.
var formatMIME = map[string]string{
	"web":   "text/html",
	"pdf":   "application/pdf",
	"epub":  "application/epub+zip",
	"audio": "audio/mpeg",
}

// mimeForFormat returns the MIME type for an acquisition format, or the empty
// string when the format is absent or unknown so the link attribute is
// omitted instead of carrying an invalid value.
func mimeForFormat(format string) string {
	return formatMIME[format]
}

// coverURL builds the cover image URL for a cover id.
func coverURL(coverID int) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", coverID)
}
