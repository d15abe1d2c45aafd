package runtime

import (
	"math"
	"strconv"
	"strings"

	"creation-server/internal/mathexpr"
	"creation-server/internal/models"
)

// ErrorDisplay показывается при любой ошибке вычисления.
const ErrorDisplay = "Error"

// Раскладки кнопок по режимам. Порядок строк повторяет раскладку просмотрщика.
var (
	BasicButtons = [][]string{
		{"C", "±", "%", "÷"},
		{"7", "8", "9", "×"},
		{"4", "5", "6", "−"},
		{"1", "2", "3", "+"},
		{"0", ".", "⌫", "="},
	}

	ScientificButtons = [][]string{
		{"sin", "cos", "tan", "ln", "log"},
		{"√", "x²", "xʸ", "π", "e"},
		{"(", ")", "C", "⌫", "÷"},
		{"7", "8", "9", "×", "−"},
		{"4", "5", "6", "+", "="},
		{"1", "2", "3", "0", "."},
	}
)

var calcOperators = map[string]bool{
	"÷": true, "×": true, "−": true, "+": true, "^": true,
}

var calcFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "ln": true, "log": true, "√": true,
}

// Подстановки перед вычислением: экранные символы в синтаксис выражений.
var calcEvalReplacer = strings.NewReplacer(
	"×", "*",
	"÷", "/",
	"−", "-",
	"π", "pi",
	"√", "sqrt",
	"x²", "^2",
	"xʸ", "^",
)

// Calculator - конечный автомат калькулятора: дисплей, накопленное
// выражение и флаг "только что вычислено". Набор цифры после вычисления
// начинает новое выражение, оператор продолжает результат.
type Calculator struct {
	mode          models.CalculatorMode
	display       string
	expression    string
	justEvaluated bool
}

// NewCalculator создает калькулятор в исходном состоянии ("0", пустое
// выражение).
func NewCalculator(data models.AppData) *Calculator {
	mode := data.Mode
	if mode != models.CalculatorModeScientific {
		mode = models.CalculatorModeBasic
	}
	return &Calculator{mode: mode, display: "0"}
}

// Mode возвращает режим калькулятора.
func (c *Calculator) Mode() models.CalculatorMode { return c.mode }

// Display возвращает содержимое дисплея.
func (c *Calculator) Display() string { return c.display }

// Expression возвращает накопленное выражение.
func (c *Calculator) Expression() string { return c.expression }

// Buttons возвращает раскладку для текущего режима.
func (c *Calculator) Buttons() [][]string {
	if c.mode == models.CalculatorModeScientific {
		return ScientificButtons
	}
	return BasicButtons
}

// Press обрабатывает нажатие одной кнопки.
func (c *Calculator) Press(btn string) {
	switch btn {
	case "C":
		c.display = "0"
		c.expression = ""
		c.justEvaluated = false
		return

	case "⌫":
		if len(c.expression) <= 1 {
			c.display = "0"
			c.expression = ""
		} else {
			// Срез по рунам: экранные символы операторов многобайтовые
			runes := []rune(c.expression)
			c.expression = string(runes[:len(runes)-1])
			if c.expression == "" {
				c.display = "0"
			} else {
				c.display = c.expression
			}
		}
		c.justEvaluated = false
		return

	case "=":
		c.evaluate()
		return

	case "±":
		if val, err := strconv.ParseFloat(c.display, 64); err == nil {
			c.setValue(formatCalcResult(-val))
		}
		return

	case "%":
		if val, err := strconv.ParseFloat(c.display, 64); err == nil {
			c.setValue(formatCalcResult(val / 100))
		}
		return
	}

	isOperator := calcOperators[btn]
	isFn := calcFunctions[btn]

	next := c.expression + btn
	if c.justEvaluated && !isOperator {
		next = btn
	}
	if isFn {
		// Функция сразу открывает скобку
		if c.justEvaluated {
			next = btn + "("
		} else {
			next = c.expression + btn + "("
		}
	}

	c.expression = next
	c.display = next
	c.justEvaluated = false
}

func (c *Calculator) evaluate() {
	result, err := mathexpr.Evaluate(calcEvalReplacer.Replace(c.expression))
	if err != nil {
		c.display = ErrorDisplay
		c.expression = ""
		c.justEvaluated = true
		return
	}
	str := formatCalcResult(result)
	c.display = str
	c.expression = str
	c.justEvaluated = true
}

func (c *Calculator) setValue(v string) {
	c.display = v
	c.expression = v
}

// formatCalcResult округляет до 10 знаков после запятой и обрезает
// хвостовые нули.
func formatCalcResult(v float64) string {
	rounded := math.Round(v*1e10) / 1e10
	if rounded == 0 {
		rounded = 0 // нормализуем -0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
