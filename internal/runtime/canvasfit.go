package runtime

// Геометрия вписывания канваса 4:3 в контейнер. Вычисления вынесены из
// клиента, чтобы сервер и экспортированный HTML считали одинаково.

const (
	canvasAspect    = 4.0 / 3.0
	canvasMaxHeight = 600.0
	viewportShare   = 0.6
)

// CanvasFit - CSS-размер канваса и масштаб физических пикселей.
// Размер буфера канваса равен Width*Scale на Height*Scale.
type CanvasFit struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Rect - прямоугольник канваса в координатах вьюпорта клиента.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitCanvas вписывает канвас 4:3 в контейнер: ширина контейнера задает
// размер, высота ограничена минимумом из 600 и 60% высоты вьюпорта,
// при превышении ширина пересчитывается от высоты. Scale равен
// devicePixelRatio, но не меньше 1.
func FitCanvas(containerWidth, viewportHeight, devicePixelRatio float64) CanvasFit {
	maxHeight := canvasMaxHeight
	if limit := viewportHeight * viewportShare; limit < maxHeight {
		maxHeight = limit
	}

	width := containerWidth
	height := width / canvasAspect
	if height > maxHeight {
		height = maxHeight
		width = height * canvasAspect
	}

	scale := devicePixelRatio
	if scale < 1 {
		scale = 1
	}

	return CanvasFit{Width: width, Height: height, Scale: scale}
}

// MapPointer переводит точку вьюпорта в логические координаты канваса:
// позиция относительно прямоугольника масштабируется в размер канваса.
func (f CanvasFit) MapPointer(clientX, clientY float64, rect Rect) (x, y float64) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return 0, 0
	}
	x = (clientX - rect.Left) / rect.Width * f.Width
	y = (clientY - rect.Top) / rect.Height * f.Height
	return x, y
}
