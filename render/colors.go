// Package render draws runs: speed-colored PNG maps and an HTML speed
// profile of a session.
package render

import (
	"image/color"
	"math"
	"strconv"
)

// speedBucketColors run from near white at 10 km/h to red at 27 km/h and
// above, one bucket per km/h.
var speedBucketColors = []string{
	"#fffafa", "#ffebeb", "#ffdbdb", "#ffcccc", "#ffbdbd", "#ffadad", "#ff9e9e",
	"#ff8f8f", "#ff8080", "#ff7070", "#ff6161", "#ff5252", "#ff4242", "#ff3333",
	"#ff2424", "#ff1414", "#ff0f0f", "#ff0a0a",
}

const firstBucketKMH = 10

// SlowColor is used for steps below the first speed bucket.
var SlowColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

var bucketColors = func() []color.RGBA {
	out := make([]color.RGBA, len(speedBucketColors))
	for i, hex := range speedBucketColors {
		out[i] = mustHexColor(hex)
	}
	return out
}()

// BucketColor returns the map color of a step at speedKMH.
func BucketColor(speedKMH float64) color.RGBA {
	last := len(bucketColors) - 1
	switch {
	case math.IsNaN(speedKMH) || speedKMH < firstBucketKMH:
		return SlowColor
	case speedKMH >= firstBucketKMH+float64(last):
		return bucketColors[last]
	}
	return bucketColors[int(speedKMH)-firstBucketKMH]
}

// BucketHex is BucketColor as a #rrggbb string.
func BucketHex(speedKMH float64) string {
	c := BucketColor(speedKMH)
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func hexByte(b uint8) string {
	s := strconv.FormatUint(uint64(b), 16)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func mustHexColor(hex string) color.RGBA {
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		panic("render: bad color " + hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
