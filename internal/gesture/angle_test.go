package gesture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/detector"
)

func pt(x, y float64) detector.Point3D {
	return detector.Point3D{X: x, Y: y}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c detector.Point3D
		want    float64
	}{
		{name: "straight line", a: pt(0, 0), b: pt(1, 0), c: pt(2, 0), want: 180},
		{name: "right angle", a: pt(1, 0), b: pt(0, 0), c: pt(0, 1), want: 90},
		{name: "folded back", a: pt(1, 0), b: pt(0, 0), c: pt(2, 0), want: 0},
		{name: "forty five", a: pt(1, 0), b: pt(0, 0), c: pt(1, 1), want: 45},
		{name: "obtuse", a: pt(1, 0), b: pt(0, 0), c: pt(-1, 1), want: 135},
		{name: "ignores depth", a: detector.Point3D{X: 1, Z: 5}, b: detector.Point3D{Z: -3}, c: detector.Point3D{Y: 1, Z: 2}, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Angle(tt.a, tt.b, tt.c)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestAngle_Degenerate(t *testing.T) {
	t.Run("a equals b", func(t *testing.T) {
		_, err := Angle(pt(0.3, 0.3), pt(0.3, 0.3), pt(0.5, 0.1))
		assert.ErrorIs(t, err, ErrDegenerateAngle)
	})

	t.Run("c equals b", func(t *testing.T) {
		_, err := Angle(pt(0.1, 0.1), pt(0.4, 0.2), pt(0.4, 0.2))
		assert.ErrorIs(t, err, ErrDegenerateAngle)
	})

	t.Run("all equal", func(t *testing.T) {
		_, err := Angle(pt(0, 0), pt(0, 0), pt(0, 0))
		assert.ErrorIs(t, err, ErrDegenerateAngle)
	})
}

func TestAngle_RangeAndSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		a := pt(rng.Float64(), rng.Float64())
		b := pt(rng.Float64(), rng.Float64())
		c := pt(rng.Float64(), rng.Float64())

		abc, err := Angle(a, b, c)
		require.NoError(t, err)
		cba, err := Angle(c, b, a)
		require.NoError(t, err)

		assert.False(t, math.IsNaN(abc), "angle is NaN for %v %v %v", a, b, c)
		assert.GreaterOrEqual(t, abc, 0.0)
		assert.LessOrEqual(t, abc, 180.0)
		assert.InDelta(t, abc, cba, 1e-9)
	}
}

func TestAngle_NearlyCollinearNeverNaN(t *testing.T) {
	// Scaled copies of the same direction can round the cosine past -1 or 1.
	for _, s := range []float64{1e-6, 1e-3, 0.1, 1, 1e3, 1e6} {
		got, err := Angle(pt(0.1*s, 0.3*s), pt(0, 0), pt(-0.7*s, -2.1*s))
		require.NoError(t, err)
		assert.InDelta(t, 180, got, 1e-5)

		got, err = Angle(pt(0.1*s, 0.3*s), pt(0, 0), pt(0.7*s, 2.1*s))
		require.NoError(t, err)
		assert.InDelta(t, 0, got, 1e-3)
	}
}
