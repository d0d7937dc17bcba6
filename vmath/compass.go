package vmath

import "math"

// Heading is an 8-way compass direction plus rest
type Heading int

const (
	HeadingRest Heading = iota
	HeadingLeft
	HeadingLeftUp
	HeadingUp
	HeadingRightUp
	HeadingRight
	HeadingRightDown
	HeadingDown
	HeadingLeftDown
)

// HeadingCount includes rest
const HeadingCount = 9

var headingNames = [HeadingCount]string{
	"rest", "left", "left-up", "up", "right-up", "right", "right-down", "down", "left-down",
}

// headingAxes are the raw (unnormalized) axis steps, index-aligned with Heading
var headingAxes = [HeadingCount]Vec2{
	{0, 0}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

var headingUnits [HeadingCount]Vec2

func init() {
	for i, a := range headingAxes {
		headingUnits[i] = V2Normalize(a)
	}
}

func (h Heading) String() string {
	if h < 0 || h >= HeadingCount {
		return "invalid"
	}
	return headingNames[h]
}

// Unit returns the unit direction vector, zero for rest
func (h Heading) Unit() Vec2 {
	if h < 0 || h >= HeadingCount {
		return Vec2{}
	}
	return headingUnits[h]
}

// Axes returns the integer axis step, e.g. (-1, -1) for left-up
func (h Heading) Axes() (dx, dy int) {
	if h < 0 || h >= HeadingCount {
		return 0, 0
	}
	a := headingAxes[h]
	return int(a.X), int(a.Y)
}

// HeadingFromAxes maps an axis step (each component in -1..1) to its heading
func HeadingFromAxes(dx, dy int) Heading {
	for i, a := range headingAxes {
		if int(a.X) == dx && int(a.Y) == dy {
			return Heading(i)
		}
	}
	return HeadingRest
}

// HeadingFromName resolves a heading state name
func HeadingFromName(name string) (Heading, bool) {
	for i, n := range headingNames {
		if n == name {
			return Heading(i), true
		}
	}
	return HeadingRest, false
}

// Quantize8 maps a raw delta to the compass heading with the largest dot product
// Ties resolve to the first maximum in heading order; the zero vector is rest
func Quantize8(d Vec2) Heading {
	if V2IsZero(d) {
		return HeadingRest
	}
	var scores [HeadingCount - 1]float64
	for h := HeadingLeft; h < HeadingCount; h++ {
		scores[h-1] = V2Dot(d, headingUnits[h])
	}
	return Heading(argmaxFirst(scores[:]) + 1)
}

// argmaxFirst returns the index of the first maximum
func argmaxFirst(scores []float64) int {
	best := 0
	bestScore := math.Inf(-1)
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}
