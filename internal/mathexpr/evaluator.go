// Package mathexpr реализует безопасный вычислитель арифметических выражений
// без динамического исполнения кода: токенизация, алгоритм сортировочной
// станции и вычисление в обратной польской записи.
package mathexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Типизированные ошибки вычислителя. Проверяются через errors.Is.
var (
	ErrEmptyExpression   = fmt.Errorf("empty expression")
	ErrMismatchedParens  = fmt.Errorf("mismatched parentheses")
	ErrDivisionByZero    = fmt.Errorf("division by zero")
	ErrInvalidExpression = fmt.Errorf("invalid expression")
	ErrNotFinite         = fmt.Errorf("invalid calculation result")
)

// InvalidCharError - в выражении встретился неизвестный символ.
type InvalidCharError struct {
	Char rune
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("invalid character: %c", e.Char)
}

// UnknownIdentError - слово не является известной функцией или константой.
type UnknownIdentError struct {
	Name string
}

func (e *UnknownIdentError) Error() string {
	return fmt.Sprintf("unknown function or constant: %s", e.Name)
}

type tokenType int

const (
	tokenNumber tokenType = iota
	tokenOperator
	tokenFunction
	tokenConstant
	tokenParen
)

type token struct {
	typ   tokenType
	text  string
	value float64 // только для tokenNumber
}

// Известные функции. log - десятичный логарифм, ln - натуральный.
var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"ln":   math.Log,
	"log":  math.Log10,
	"sqrt": math.Sqrt,
}

// Известные константы. "pi" принимается наравне с "π".
var constants = map[string]float64{
	"π":  math.Pi,
	"pi": math.Pi,
	"e":  math.E,
}

// Evaluate вычисляет арифметическое выражение и возвращает результат.
// Поддерживаются операторы + - * / ^ (а также ×, ÷, − и ** как ^),
// функции sin, cos, tan, ln, log, sqrt и константы π (pi), e.
// Деление на ноль, несбалансированные скобки, неизвестные символы и
// некорректная структура выражения возвращают типизированную ошибку.
func Evaluate(expression string) (float64, error) {
	normalized := normalize(expression)
	if strings.TrimSpace(normalized) == "" {
		return 0, ErrEmptyExpression
	}

	tokens, err := tokenize(normalized)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, ErrEmptyExpression
	}

	if err := checkParens(tokens); err != nil {
		return 0, err
	}

	rpn, err := toRPN(tokens)
	if err != nil {
		return 0, err
	}

	result, err := evalRPN(rpn)
	if err != nil {
		return 0, err
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, ErrNotFinite
	}
	return result, nil
}

// normalize приводит юникодные операторы к ASCII-эквивалентам.
func normalize(expr string) string {
	replacer := strings.NewReplacer(
		"×", "*",
		"÷", "/",
		"−", "-",
		"√", "sqrt",
	)
	return strings.TrimSpace(replacer.Replace(expr))
}

// tokenize разбирает выражение слева направо на токены.
func tokenize(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	i := 0

	for i < len(runes) {
		ch := runes[i]

		if unicode.IsSpace(ch) {
			i++
			continue
		}

		// Числа, включая десятичные
		if unicode.IsDigit(ch) || (ch == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])) {
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidExpression, text)
			}
			tokens = append(tokens, token{typ: tokenNumber, text: text, value: value})
			continue
		}

		// Операторы; "**" распознается как возведение в степень
		if ch == '*' && i+1 < len(runes) && runes[i+1] == '*' {
			tokens = append(tokens, token{typ: tokenOperator, text: "^"})
			i += 2
			continue
		}
		if isOperator(ch) {
			tokens = append(tokens, token{typ: tokenOperator, text: string(ch)})
			i++
			continue
		}

		if ch == '(' || ch == ')' {
			tokens = append(tokens, token{typ: tokenParen, text: string(ch)})
			i++
			continue
		}

		// Слова из букв: функция или константа, регистронезависимо
		if unicode.IsLetter(ch) || ch == 'π' {
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || runes[i] == 'π') {
				i++
			}
			word := strings.ToLower(string(runes[start:i]))
			if _, ok := functions[word]; ok {
				tokens = append(tokens, token{typ: tokenFunction, text: word})
				continue
			}
			if _, ok := constants[word]; ok {
				tokens = append(tokens, token{typ: tokenConstant, text: word})
				continue
			}
			return nil, &UnknownIdentError{Name: word}
		}

		return nil, &InvalidCharError{Char: ch}
	}

	return tokens, nil
}

func isOperator(ch rune) bool {
	switch ch {
	case '+', '-', '*', '/', '^':
		return true
	}
	return false
}

// checkParens прогоняет счетчик баланса: он не должен уходить в минус
// и обязан закончиться нулем.
func checkParens(tokens []token) error {
	count := 0
	for _, t := range tokens {
		if t.typ != tokenParen {
			continue
		}
		if t.text == "(" {
			count++
		} else {
			count--
		}
		if count < 0 {
			return ErrMismatchedParens
		}
	}
	if count != 0 {
		return ErrMismatchedParens
	}
	return nil
}

// Приоритеты: + - = 1, * / = 2, ^ = 3 (выше связывает сильнее).
func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 3
	}
	return 0
}

// toRPN переводит инфиксный поток токенов в обратную польскую запись.
// Функции кладутся на стек операторов и выталкиваются в выход при
// обработке закрывающей скобки: вызовы имеют форму fn( ... ).
func toRPN(tokens []token) ([]token, error) {
	var output []token
	var operators []token

	for _, t := range tokens {
		switch t.typ {
		case tokenNumber:
			output = append(output, t)
		case tokenConstant:
			output = append(output, token{typ: tokenNumber, text: t.text, value: constants[t.text]})
		case tokenFunction:
			operators = append(operators, t)
		case tokenOperator:
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top.typ != tokenOperator || precedence(top.text) < precedence(t.text) {
					break
				}
				output = append(output, top)
				operators = operators[:len(operators)-1]
			}
			operators = append(operators, t)
		case tokenParen:
			if t.text == "(" {
				operators = append(operators, t)
				continue
			}
			for len(operators) > 0 && operators[len(operators)-1].text != "(" {
				output = append(output, operators[len(operators)-1])
				operators = operators[:len(operators)-1]
			}
			if len(operators) == 0 {
				return nil, ErrMismatchedParens
			}
			operators = operators[:len(operators)-1] // снимаем "("
			if len(operators) > 0 && operators[len(operators)-1].typ == tokenFunction {
				output = append(output, operators[len(operators)-1])
				operators = operators[:len(operators)-1]
			}
		}
	}

	for len(operators) > 0 {
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		if top.typ == tokenParen {
			return nil, ErrMismatchedParens
		}
		output = append(output, top)
	}

	return output, nil
}

// evalRPN вычисляет выражение в обратной польской записи.
// Операторы снимают два операнда (второй снятый - левый), функции один.
func evalRPN(rpn []token) (float64, error) {
	var stack []float64

	for _, t := range rpn {
		switch t.typ {
		case tokenNumber:
			stack = append(stack, t.value)
		case tokenOperator:
			if len(stack) < 2 {
				return 0, ErrInvalidExpression
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			result, err := applyOperator(t.text, a, b)
			if err != nil {
				return 0, err
			}
			stack = append(stack, result)
		case tokenFunction:
			if len(stack) < 1 {
				return 0, ErrInvalidExpression
			}
			arg := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, functions[t.text](arg))
		default:
			return 0, ErrInvalidExpression
		}
	}

	if len(stack) != 1 {
		return 0, ErrInvalidExpression
	}
	return stack[0], nil
}

func applyOperator(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case "^":
		return math.Pow(a, b), nil
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidExpression, op)
}
