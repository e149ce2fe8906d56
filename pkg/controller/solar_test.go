package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateSolar(t *testing.T) {
	t.Run("Zero Outside Window", func(t *testing.T) {
		for _, h := range []int{0, 1, 2, 3, 4, 5, 6, 19, 20, 21, 22, 23} {
			for _, capacity := range []float64{1, 100, 2500} {
				assert.Equal(t, 0.0, EstimateSolar(capacity, h), "hour %d", h)
			}
		}
	})

	t.Run("Peak At 13", func(t *testing.T) {
		assert.Equal(t, 100*0.95, EstimateSolar(100, 13))
		assert.Equal(t, 250*0.95, EstimateSolar(250, 13))
	})

	t.Run("Symmetric Around Peak", func(t *testing.T) {
		for d := 1; d <= 5; d++ {
			assert.InDelta(t, EstimateSolar(100, 13-d), EstimateSolar(100, 13+d), 1e-12, "offset %d", d)
		}
	})

	t.Run("Shoulder Hours", func(t *testing.T) {
		// 7:00 is 6h from the peak, efficiency 0
		assert.Equal(t, 0.0, EstimateSolar(100, 7))
		// 18:00 is 5h from the peak
		assert.InDelta(t, 100*(1.0/6)*0.95, EstimateSolar(100, 18), 1e-12)
		assert.InDelta(t, 100*0.5*0.95, EstimateSolar(100, 10), 1e-12)
	})

	t.Run("Zero Capacity", func(t *testing.T) {
		assert.Equal(t, 0.0, EstimateSolar(0, 13))
	})
}
