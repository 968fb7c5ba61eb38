// Package gesture classifies static hand gestures from landmark geometry
// and smooths the per-frame result over a short window.
package gesture

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrDegenerateAngle is returned when a joint coincides with one of its neighbours,
// leaving the angle undefined.
var ErrDegenerateAngle = errors.New("degenerate angle: zero-length vector")

// minNorm is the shortest vector length treated as non-zero.
const minNorm = 1e-12

// Angle returns the interior angle at b formed by the segments b→a and b→c,
// in degrees within [0, 180]. Only the X and Y coordinates are used.
func Angle(a, b, c detector.Point3D) (float64, error) {
	pb := vec(b)
	ba := r2.Sub(vec(a), pb)
	bc := r2.Sub(vec(c), pb)

	nba, nbc := r2.Norm(ba), r2.Norm(bc)
	if nba < minNorm || nbc < minNorm {
		return 0, ErrDegenerateAngle
	}

	cos := r2.Dot(ba, bc) / (nba * nbc)
	// Rounding can push nearly collinear vectors just outside [-1, 1].
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, nil
}

func vec(p detector.Point3D) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}
