package export

import (
	"fmt"

	"creation-server/internal/models"
)

// Калькулятор: разметка сетки кнопок, научный ряд добавляется сверху.
func calculatorBody(data models.AppData) string {
	scientificRow := ""
	if data.Mode == models.CalculatorModeScientific {
		scientificRow = `
        <button class="calc-btn func-btn" onclick="handleFunction('sin')">sin</button>
        <button class="calc-btn func-btn" onclick="handleFunction('cos')">cos</button>
        <button class="calc-btn func-btn" onclick="handleFunction('tan')">tan</button>
        <button class="calc-btn func-btn" onclick="handleFunction('log')">log</button>
        <button class="calc-btn func-btn" onclick="handleFunction('sqrt')">&#8730;</button>
        <button class="calc-btn func-btn" onclick="handleFunction('pow')">x^y</button>
        <button class="calc-btn func-btn" onclick="handleFunction('pi')">&#960;</button>
        <button class="calc-btn func-btn" onclick="handleFunction('e')">e</button>
        <button class="calc-btn func-btn" onclick="handleInput('(')">(</button>
        <button class="calc-btn func-btn" onclick="handleInput(')')">)</button>`
	}

	return fmt.Sprintf(`
    <div class="calc-container">
      <div class="calc-display" id="display">0</div>
      <div class="calc-buttons">%s
        <button class="calc-btn op-btn" onclick="handleClear()">C</button>
        <button class="calc-btn op-btn" onclick="handleBackspace()">&#9003;</button>
        <button class="calc-btn op-btn" onclick="handleInput('/')">/</button>
        <button class="calc-btn op-btn" onclick="handleInput('*')">&#215;</button>
        <button class="calc-btn" onclick="handleInput('7')">7</button>
        <button class="calc-btn" onclick="handleInput('8')">8</button>
        <button class="calc-btn" onclick="handleInput('9')">9</button>
        <button class="calc-btn op-btn" onclick="handleInput('-')">-</button>
        <button class="calc-btn" onclick="handleInput('4')">4</button>
        <button class="calc-btn" onclick="handleInput('5')">5</button>
        <button class="calc-btn" onclick="handleInput('6')">6</button>
        <button class="calc-btn op-btn" onclick="handleInput('+')">+</button>
        <button class="calc-btn" onclick="handleInput('1')">1</button>
        <button class="calc-btn" onclick="handleInput('2')">2</button>
        <button class="calc-btn" onclick="handleInput('3')">3</button>
        <button class="calc-btn equals-btn" onclick="handleEquals()" style="grid-row: span 2">=</button>
        <button class="calc-btn" onclick="handleInput('0')" style="grid-column: span 2">0</button>
        <button class="calc-btn" onclick="handleInput('.')">.</button>
      </div>
    </div>`, scientificRow)
}

const calculatorStyles = `
    .calc-container {
      max-width: 400px;
      margin: 40px auto;
      background: white;
      border-radius: 16px;
      padding: 24px;
      box-shadow: 0 4px 16px rgba(0,0,0,0.1);
    }
    .calc-display {
      background: oklch(0.96 0.005 264);
      border-radius: 12px;
      padding: 24px;
      text-align: right;
      font-size: 32px;
      font-weight: 600;
      margin-bottom: 20px;
      min-height: 60px;
      word-wrap: break-word;
      overflow-wrap: break-word;
    }
    .calc-buttons {
      display: grid;
      grid-template-columns: repeat(4, 1fr);
      gap: 12px;
    }
    .calc-btn {
      padding: 20px;
      font-size: 18px;
      font-weight: 600;
      background: oklch(0.96 0.005 264);
      color: oklch(0.25 0.02 264);
    }
    .calc-btn:hover {
      background: oklch(0.92 0.01 264);
    }
    .calc-btn.op-btn {
      background: oklch(0.55 0.15 264);
      color: white;
    }
    .calc-btn.op-btn:hover {
      background: oklch(0.50 0.15 264);
    }
    .calc-btn.equals-btn {
      background: oklch(0.45 0.18 264);
      color: white;
    }
    .calc-btn.equals-btn:hover {
      background: oklch(0.40 0.18 264);
    }
    .calc-btn.func-btn {
      background: oklch(0.65 0.12 264);
      color: white;
      font-size: 14px;
      padding: 16px 8px;
    }
    .calc-btn.func-btn:hover {
      background: oklch(0.60 0.12 264);
    }`

// Скрипт калькулятора. Вместо динамического выполнения выражений встроен
// компактный безопасный вычислитель: токенизация, сортировочная станция,
// тот же набор функций и констант, что на сервере; деление на ноль и
// неизвестные идентификаторы дают Error.
func calculatorScripts() string {
	return `
    let currentInput = '0';
    const display = document.getElementById('display');

    const FUNCS = { sin: Math.sin, cos: Math.cos, tan: Math.tan, ln: Math.log, log: Math.log10, sqrt: Math.sqrt };
    const CONSTS = { pi: Math.PI, e: Math.E };
    const PREC = { '+': 1, '-': 1, '*': 2, '/': 2, '^': 3 };

    function tokenize(expr) {
      const tokens = [];
      let i = 0;
      while (i < expr.length) {
        const ch = expr[i];
        if (ch === ' ') { i++; continue; }
        if (/[0-9.]/.test(ch)) {
          let j = i;
          while (j < expr.length && /[0-9.]/.test(expr[j])) j++;
          const value = parseFloat(expr.slice(i, j));
          if (!isFinite(value)) throw new Error('bad number');
          tokens.push({ kind: 'num', value });
          i = j;
          continue;
        }
        if (/[a-z]/i.test(ch)) {
          let j = i;
          while (j < expr.length && /[a-z]/i.test(expr[j])) j++;
          const name = expr.slice(i, j).toLowerCase();
          if (FUNCS[name]) tokens.push({ kind: 'fn', name });
          else if (name in CONSTS) tokens.push({ kind: 'num', value: CONSTS[name] });
          else throw new Error('unknown identifier');
          i = j;
          continue;
        }
        if (PREC[ch]) { tokens.push({ kind: 'op', op: ch }); i++; continue; }
        if (ch === '(' || ch === ')') { tokens.push({ kind: ch }); i++; continue; }
        throw new Error('invalid character');
      }
      return tokens;
    }

    function toRPN(tokens) {
      const out = [];
      const stack = [];
      let prev = null;
      for (const t of tokens) {
        if (t.kind === 'num') {
          out.push(t);
        } else if (t.kind === 'fn') {
          stack.push(t);
        } else if (t.kind === 'op') {
          // Унарный минус в начале или после оператора/скобки
          if ((t.op === '-' || t.op === '+') && (!prev || prev.kind === 'op' || prev.kind === '(')) {
            out.push({ kind: 'num', value: 0 });
          }
          while (stack.length) {
            const top = stack[stack.length - 1];
            if (top.kind === 'op' && PREC[top.op] >= PREC[t.op]) out.push(stack.pop());
            else break;
          }
          stack.push(t);
        } else if (t.kind === '(') {
          stack.push(t);
        } else {
          let found = false;
          while (stack.length) {
            const top = stack.pop();
            if (top.kind === '(') { found = true; break; }
            out.push(top);
          }
          if (!found) throw new Error('mismatched parentheses');
          if (stack.length && stack[stack.length - 1].kind === 'fn') out.push(stack.pop());
        }
        prev = t;
      }
      while (stack.length) {
        const top = stack.pop();
        if (top.kind === '(') throw new Error('mismatched parentheses');
        out.push(top);
      }
      return out;
    }

    function evalRPN(rpn) {
      const stack = [];
      for (const t of rpn) {
        if (t.kind === 'num') {
          stack.push(t.value);
        } else if (t.kind === 'fn') {
          if (stack.length < 1) throw new Error('invalid expression');
          stack.push(FUNCS[t.name](stack.pop()));
        } else {
          if (stack.length < 2) throw new Error('invalid expression');
          const b = stack.pop();
          const a = stack.pop();
          switch (t.op) {
            case '+': stack.push(a + b); break;
            case '-': stack.push(a - b); break;
            case '*': stack.push(a * b); break;
            case '/':
              if (b === 0) throw new Error('division by zero');
              stack.push(a / b);
              break;
            case '^': stack.push(Math.pow(a, b)); break;
          }
        }
      }
      if (stack.length !== 1) throw new Error('invalid expression');
      return stack[0];
    }

    function safeEval(expr) {
      if (!expr.trim()) throw new Error('empty expression');
      const result = evalRPN(toRPN(tokenize(expr)));
      if (!isFinite(result)) throw new Error('not finite');
      return result;
    }

    function updateDisplay() {
      display.textContent = currentInput || '0';
    }

    function handleInput(value) {
      if (currentInput === '0' || currentInput === 'Error') {
        currentInput = value;
      } else {
        currentInput += value;
      }
      updateDisplay();
    }

    function handleClear() {
      currentInput = '0';
      updateDisplay();
    }

    function handleBackspace() {
      if (currentInput.length > 1) {
        currentInput = currentInput.slice(0, -1);
      } else {
        currentInput = '0';
      }
      updateDisplay();
    }

    function handleFunction(func) {
      switch (func) {
        case 'sin':
        case 'cos':
        case 'tan':
        case 'log':
        case 'sqrt':
          currentInput = currentInput === '0' ? func + '(' : currentInput + func + '(';
          break;
        case 'pow':
          currentInput += '^';
          break;
        case 'pi':
          currentInput = currentInput === '0' ? 'pi' : currentInput + 'pi';
          break;
        case 'e':
          currentInput = currentInput === '0' ? 'e' : currentInput + 'e';
          break;
      }
      updateDisplay();
    }

    function handleEquals() {
      try {
        const result = safeEval(currentInput);
        currentInput = String(parseFloat(result.toFixed(10)));
      } catch (e) {
        currentInput = 'Error';
      }
      updateDisplay();
    }`
}
