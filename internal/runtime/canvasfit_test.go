package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitCanvas(t *testing.T) {
	t.Run("широкий контейнер упирается в потолок высоты", func(t *testing.T) {
		fit := FitCanvas(1000, 2000, 1)
		assert.InDelta(t, 600, fit.Height, 0.001)
		assert.InDelta(t, 800, fit.Width, 0.001)
		assert.Equal(t, 1.0, fit.Scale)
	})

	t.Run("узкий контейнер задает размер шириной", func(t *testing.T) {
		fit := FitCanvas(400, 2000, 2)
		assert.InDelta(t, 400, fit.Width, 0.001)
		assert.InDelta(t, 300, fit.Height, 0.001)
		assert.Equal(t, 2.0, fit.Scale)
	})

	t.Run("низкий вьюпорт ограничивает высоту 60 процентами", func(t *testing.T) {
		fit := FitCanvas(1000, 500, 1)
		assert.InDelta(t, 300, fit.Height, 0.001)
		assert.InDelta(t, 400, fit.Width, 0.001)
	})

	t.Run("масштаб не меньше единицы", func(t *testing.T) {
		fit := FitCanvas(400, 2000, 0)
		assert.Equal(t, 1.0, fit.Scale)
	})
}

func TestCanvasFit_MapPointer(t *testing.T) {
	fit := CanvasFit{Width: 800, Height: 600, Scale: 2}
	rect := Rect{Left: 100, Top: 50, Width: 400, Height: 300}

	x, y := fit.MapPointer(300, 200, rect)
	assert.InDelta(t, 400, x, 0.001)
	assert.InDelta(t, 300, y, 0.001)

	x, y = fit.MapPointer(300, 200, Rect{})
	assert.Zero(t, x)
	assert.Zero(t, y)
}
