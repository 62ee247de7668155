package ebay

import (
	"regexp"
	"strings"
)

// fallbackErrorMessage is used when a failure response carries no
// LongMessage or ShortMessage.
const fallbackErrorMessage = "Failed to create listing"

// Result is the normalized outcome of an AddFixedPriceItem call.
type Result struct {
	OK     bool
	ItemID string

	// Failure details. Raw always carries the full response body.
	Message string
	Raw     string
}

var tagPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, tag := range []string{"Ack", "ItemID", "LongMessage", "ShortMessage"} {
		tagPatterns[tag] = regexp.MustCompile(`(?is)<` + tag + `>\s*(.*?)\s*</` + tag + `>`)
	}
}

// firstTag returns the content of the first case-insensitive match of
// the given tag. This is deliberate tag scraping, not XML parsing:
// duplicate or nested occurrences of a tag elsewhere in the document
// win over later ones.
func firstTag(body, tag string) (string, bool) {
	m := tagPatterns[tag].FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseAddItemResponse interprets a Trading API response body. Success
// requires both Ack equal to "Success" (case-insensitive) and a
// non-empty ItemID; anything else is a failure carrying the best
// available error message and the raw body.
func ParseAddItemResponse(body string) Result {
	ack, _ := firstTag(body, "Ack")
	itemID, hasItem := firstTag(body, "ItemID")

	if strings.EqualFold(ack, "Success") && hasItem && itemID != "" {
		return Result{OK: true, ItemID: itemID, Raw: body}
	}

	msg, ok := firstTag(body, "LongMessage")
	if !ok || msg == "" {
		msg, ok = firstTag(body, "ShortMessage")
	}
	if !ok || msg == "" {
		msg = fallbackErrorMessage
	}
	return Result{Message: msg, Raw: body}
}
