package series

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// knownColors is the fixed palette for common pollutants, keyed by lower-case code.
var knownColors = map[string]string{
	"pm2.5": "#ef4444",
	"pm10":  "#f97316",
	"no2":   "#eab308",
	"so2":   "#84cc16",
	"o3":    "#06b6d4",
	"co":    "#3b82f6",
	"pb":    "#8b5cf6",
}

// KnownColor reports the palette color of code, ignoring case.
func KnownColor(code string) (string, bool) {
	c, ok := knownColors[strings.ToLower(code)]
	return c, ok
}

// ColorFor returns the display color of a pollutant code as #rrggbb. Codes outside
// the palette get a color derived from their characters, so the same code always
// maps to the same color.
func ColorFor(code string) string {
	if c, ok := KnownColor(code); ok {
		return c
	}
	return hashColor(code)
}

// ColorForKey returns the color of a series. Forecast series share the color
// of their pollutant.
func ColorForKey(key Key) string {
	return ColorFor(key.Code)
}

// Palette maps every code to ColorFor(code).
func Palette(codes []string) map[string]string {
	out := make(map[string]string, len(codes))
	for _, c := range codes {
		out[c] = ColorFor(c)
	}
	return out
}

// hashColor mixes the UTF-16 code units of s into a 32-bit hash and takes its three
// low bytes as the red, green and blue channels.
func hashColor(s string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = int32(unit) + ((hash << 5) - hash)
	}

	var b strings.Builder
	b.WriteByte('#')
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "%02x", (hash>>(i*8))&0xFF)
	}
	return b.String()
}
