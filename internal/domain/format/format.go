package format

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// CurrencySymbol prefixes every formatted amount. Core PDF fonts cannot
// encode the rupee sign, so the textual prefix is used throughout.
const CurrencySymbol = "Rs."

// Currency renders an amount as the currency symbol followed by the
// rounded integer value with Indian-locale digit grouping. Zero, negative
// and non-finite amounts all render as the symbol plus "0".
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return CurrencySymbol + "0"
	}
	return CurrencySymbol + groupIndian(fmt.Sprintf("%.0f", math.Round(amount)))
}

// groupIndian inserts separators after the last three digits and then
// every two digits: 150000 -> 1,50,000.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	groups := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",")
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.999Z07:00", "02/01/2006"}

// Date parses an ISO-ish date string and renders it long form, e.g.
// "2 January 2024". Empty or unparseable input renders as "".
func Date(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2 January 2006")
		}
	}
	return ""
}

var (
	brTag        = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockOpen    = regexp.MustCompile(`(?i)<(?:p|div)(?:\s[^>]*)?>`)
	blockClose   = regexp.MustCompile(`(?i)</(?:p|div)>`)
	orderedList  = regexp.MustCompile(`(?is)<ol(?:\s[^>]*)?>(.*?)</ol>`)
	listItemOpen = regexp.MustCompile(`(?i)<li(?:\s[^>]*)?>`)
	listItemEnd  = regexp.MustCompile(`(?i)</li>`)
	listWrapper  = regexp.MustCompile(`(?i)</?[ou]l(?:\s[^>]*)?>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
	excessBlank  = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText converts rich-text job descriptions to plain text suitable
// for embedding in a document. The conversion is lossy and the pass order
// matters: block and list handling must run before the generic tag strip.
func HTMLToText(html string) string {
	text := brTag.ReplaceAllString(html, "\n")
	text = blockOpen.ReplaceAllString(text, "")
	text = blockClose.ReplaceAllString(text, "\n")

	text = orderedList.ReplaceAllStringFunc(text, func(list string) string {
		n := 0
		return listItemOpen.ReplaceAllStringFunc(list, func(string) string {
			n++
			return fmt.Sprintf("%d. ", n)
		})
	})
	text = listItemOpen.ReplaceAllString(text, "• ")
	text = listItemEnd.ReplaceAllString(text, "\n")
	text = listWrapper.ReplaceAllString(text, "\n")

	text = anyTag.ReplaceAllString(text, "")
	text = decodeEntities(text)
	text = excessBlank.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&amp;", "&",
)

func decodeEntities(text string) string {
	return entityReplacer.Replace(text)
}
