package color

import (
	"strconv"
	"strings"
)

// ParseXParseColor parses the color specification format used by XParseColor
// and accepted by OSC 4/10/11/12/104 ("rgb:RRRR/GGGG/BBBB", "#RRGGBB", or a
// bare hex triplet). It returns false if spec isn't a recognized format.
func ParseXParseColor(spec string) (RGB, bool) {
	spec = strings.TrimSpace(spec)
	switch {
	case strings.HasPrefix(spec, "rgb:"):
		return parseRGBColon(spec[len("rgb:"):])
	case strings.HasPrefix(spec, "#"):
		return parseHexTriplet(spec[1:])
	default:
		return parseHexTriplet(spec)
	}
}

func parseRGBColon(body string) (RGB, bool) {
	parts := strings.Split(body, "/")
	if len(parts) != 3 {
		return RGB{}, false
	}
	var out [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 32)
		if err != nil || len(p) == 0 {
			return RGB{}, false
		}
		// Scale an N-bit channel down to 8 bits.
		bits := uint(len(p) * 4)
		if bits > 8 {
			v >>= bits - 8
		} else if bits < 8 {
			v <<= 8 - bits
		}
		out[i] = uint8(v)
	}
	return RGB{R: out[0], G: out[1], B: out[2]}, true
}

func parseHexTriplet(body string) (RGB, bool) {
	if len(body) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(body, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}
