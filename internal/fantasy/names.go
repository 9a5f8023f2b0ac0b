package fantasy

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds a display name for cross-feed matching: combining marks
// stripped, remaining non-ASCII letters transliterated (Ø to O), upper-cased
// and inner whitespace collapsed.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = unidecode.Unidecode(folded)
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}
