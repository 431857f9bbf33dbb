package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/lunar-insights/internal/common"
)

// Band is the severity band used to color a solunar rating.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandUnknown   Band = "unknown"
)

// ratingBands is checked in order; the first keyword found wins.
var ratingBands = []struct {
	keyword string
	band    Band
}{
	{"excellent", BandExcellent},
	{"good", BandGood},
	{"fair", BandFair},
}

// Classify maps free-text rating to a Band by case-insensitive substring
// match in priority order. Text matching nothing is BandUnknown.
func Classify(rating string) Band {
	keys := make([]string, len(ratingBands))
	for i, rb := range ratingBands {
		keys[i] = rb.keyword
	}
	if i := common.FirstMatch(rating, keys...); i >= 0 {
		return ratingBands[i].band
	}
	return BandUnknown
}

// Rating is the display form of the oracle's solunar rating.
type Rating struct {
	Text string `json:"text"`
	Band Band   `json:"band"`
}

func NewRating(text string) Rating {
	// Casers carry state; build one per call.
	return Rating{
		Text: cases.Title(language.English).String(strings.TrimSpace(text)),
		Band: Classify(text),
	}
}
