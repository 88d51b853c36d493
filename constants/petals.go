package constants

import "time"

// Petal emission timing
const (
	PetalEmitInterval = 200 * time.Millisecond
	PetalBurstCount   = 10
	PetalBurstStagger = 50 * time.Millisecond
)

// Petal attribute ranges, all inclusive of min and exclusive of max
const (
	PetalSizeMin = 1
	PetalSizeMax = 4 // cells, exclusive

	PetalDurationMin = 4 * time.Second
	PetalDurationMax = 8 * time.Second

	PetalOpacityMin = 0.3
	PetalOpacityMax = 0.7

	// PetalRotationMax bounds total rotation in either direction, degrees
	PetalRotationMax = 360.0

	PetalScaleMin = 0.7
	PetalScaleMax = 1.0

	// PetalDriftRatio bounds horizontal drift as a fraction of field width
	PetalDriftRatio = 0.25

	// PetalFadeTail is the fraction of lifetime over which a petal fades out
	PetalFadeTail = 0.2
)

// PetalGlyphs are ordered from smallest to largest visual weight
var PetalGlyphs = []rune{'·', '˚', '*', '✿', '❀'}
