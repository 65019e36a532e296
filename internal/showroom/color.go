package showroom

import (
	"log/slog"
	"strconv"
	"strings"
)

// DecodeColor converts a 6-digit hex color (optionally prefixed with '#')
// into a LinearColor. Anything that is not exactly six hex digits decodes
// to White.
func DecodeColor(hex string) LinearColor {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if trimmed == "" {
		slog.Debug("showroom lighting color not set, using white")
		return White
	}
	if len(trimmed) != 6 {
		slog.Warn("invalid showroom lighting color, using white", "value", hex)
		return White
	}
	n, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		slog.Warn("invalid showroom lighting color, using white", "value", hex, "error", err)
		return White
	}
	return LinearColor{
		R: float64((n>>16)&0xff) / 255,
		G: float64((n>>8)&0xff) / 255,
		B: float64(n&0xff) / 255,
		A: 1,
	}
}
