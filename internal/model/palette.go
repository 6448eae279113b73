package model

// RGB is a simple 8-bit-per-channel color, opaque (alpha always 255). The
// renderer (out of scope for this module) owns the actual pixel format;
// this is just the indexed lookup table it consults.
type RGB struct {
	R, G, B uint8
}

// Palette is the ten indexed status colors, grounded verbatim on the
// original Cezm project's status_color_init (schedule.h): grey for unknown,
// two reds, orange, yellow, two greens, cyan, blue, purple.
var Palette = [10]RGB{
	{150, 150, 150}, // 0: unknown / grey
	{192, 0, 0},     // 1: deep red
	{255, 0, 0},     // 2: bright red
	{255, 192, 0},   // 3: orange
	{255, 255, 0},   // 4: yellow
	{146, 208, 80},  // 5: light green
	{0, 176, 80},    // 6: dark green
	{0, 176, 240},   // 7: cyan blue
	{0, 112, 192},   // 8: dark blue
	{112, 48, 160},  // 9: purple
}

// ColorOf returns the RGB for a status color index, falling back to the
// unknown-grey entry for any out-of-range index rather than panicking —
// callers that want strict validation should use ClampColor first.
func ColorOf(c StatusColor) RGB {
	if int(c) >= len(Palette) {
		return Palette[0]
	}
	return Palette[c]
}
