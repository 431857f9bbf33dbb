package view

import "github.com/i474232898/lunar-insights/internal/common"

type MoonPhase string

const (
	PhaseNew            MoonPhase = "new"
	PhaseWaxingCrescent MoonPhase = "waxing crescent"
	PhaseFirstQuarter   MoonPhase = "first quarter"
	PhaseWaxingGibbous  MoonPhase = "waxing gibbous"
	PhaseFull           MoonPhase = "full"
	PhaseWaningGibbous  MoonPhase = "waning gibbous"
	PhaseLastQuarter    MoonPhase = "last quarter"
	PhaseWaningCrescent MoonPhase = "waning crescent"
	PhaseUnknown        MoonPhase = "unknown"
)

// phaseOrder is the match priority. The phase keyword doubles as the
// substring searched for.
var phaseOrder = []MoonPhase{
	PhaseNew,
	PhaseWaxingCrescent,
	PhaseFirstQuarter,
	PhaseWaxingGibbous,
	PhaseFull,
	PhaseWaningGibbous,
	PhaseLastQuarter,
	PhaseWaningCrescent,
}

var phaseGlyphs = map[MoonPhase]string{
	PhaseNew:            "🌑",
	PhaseWaxingCrescent: "🌒",
	PhaseFirstQuarter:   "🌓",
	PhaseWaxingGibbous:  "🌔",
	PhaseFull:           "🌕",
	PhaseWaningGibbous:  "🌖",
	PhaseLastQuarter:    "🌗",
	PhaseWaningCrescent: "🌘",
	PhaseUnknown:        "🌙",
}

// ClassifyPhase maps the oracle's phase name to a MoonPhase, first match wins.
func ClassifyPhase(name string) MoonPhase {
	keys := make([]string, len(phaseOrder))
	for i, p := range phaseOrder {
		keys[i] = string(p)
	}
	if i := common.FirstMatch(name, keys...); i >= 0 {
		return phaseOrder[i]
	}
	return PhaseUnknown
}

func (p MoonPhase) Glyph() string {
	if g, ok := phaseGlyphs[p]; ok {
		return g
	}
	return phaseGlyphs[PhaseUnknown]
}
