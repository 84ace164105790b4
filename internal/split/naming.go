package split

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/samuelmuabia/ytchapters/internal/chapters"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeTitle makes a chapter title safe to use inside a file name.
// Slashes, backslashes, colons and asterisks become dashes, the other
// reserved characters are dropped, and control characters are removed.
// The result is NFC normalized.
func SanitizeTitle(title string) string {
	title = fileNameReplacer.Replace(norm.NFC.String(title))
	title = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, title)
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(title), "."))
}

// FileName is "NN - Title.ext" with NN the 1-based chapter number.
func FileName(seg chapters.Segment, ext string) string {
	number := seg.Index + 1
	title := SanitizeTitle(seg.Title)
	if title == "" {
		title = fmt.Sprintf("Chapter %02d", number)
	}
	return fmt.Sprintf("%02d - %s%s", number, title, ext)
}
