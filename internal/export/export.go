// Package export собирает автономные артефакты из сохраненных генераций:
// standalone HTML-документ с встроенными стилями и скриптами, pretty-printed
// JSON и текстовую инструкцию для Android. Документ не ссылается на внешние
// ресурсы и не использует динамическое выполнение кода.
package export

import (
	"encoding/json"
	"fmt"
	"html"

	"creation-server/internal/models"
)

const maxTitleLength = 100

// ExportHTML строит полный автономный HTML-документ для генерации.
// Содержимое зависит от типа: калькулятор/список задач, сайт со
// страницами, чат, карточка изображения или игра с полным циклом.
func ExportHTML(draft models.CreationDraft) (string, error) {
	if !draft.Type.IsValid() {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownType, draft.Type)
	}

	title := documentTitle(draft)

	var body, styles, scripts string
	switch draft.Type {
	case models.CreationTypeApp:
		var data models.AppData
		decodeData(draft.Data, &data)
		if data.AppKind == models.AppKindCalculator {
			body = calculatorBody(data)
			styles = calculatorStyles
			scripts = calculatorScripts()
		} else {
			body = taskListBody(data)
			styles = taskListStyles
			scripts = taskListScripts
		}
	case models.CreationTypeWebsite:
		var data models.WebsiteData
		decodeData(draft.Data, &data)
		body = websiteBody(data)
		styles = websiteStyles
		scripts = websiteScripts
	case models.CreationTypeChatbot:
		var data models.ChatbotData
		decodeData(draft.Data, &data)
		body = chatbotBody(data)
		styles = chatbotStyles
		scripts = chatbotScripts(data)
	case models.CreationTypeImage:
		var data models.ImageData
		decodeData(draft.Data, &data)
		body = imageBody(data)
		styles = imageStyles
	case models.CreationTypeGame:
		gameData, gameScripts, err := gameExport(draft.Data)
		if err != nil {
			return "", err
		}
		body = gameBody(gameData)
		styles = gameStyles
		scripts = gameScripts
	}

	return fmt.Sprintf(baseDocument, escape(title), styles, body, scripts), nil
}

// documentTitle выбирает заголовок документа: заголовок данных, затем
// промпт, затем тип; обрезается до 100 символов.
func documentTitle(draft models.CreationDraft) string {
	var peek struct {
		Title string `json:"title"`
	}
	decodeData(draft.Data, &peek)

	title := peek.Title
	if title == "" {
		title = draft.Prompt
	}
	if title == "" {
		title = string(draft.Type)
	}
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	return title
}

// decodeData распаковывает данные генерации, молча пропуская мусор:
// экспорт обязан переживать битый контент, поля остаются нулевыми.
func decodeData(raw json.RawMessage, dst any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

func escape(s string) string {
	return html.EscapeString(s)
}

const baseDocument = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: oklch(0.98 0.005 264);
            color: oklch(0.25 0.02 264);
            min-height: 100vh;
        }
        .container {
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        h1 {
            font-size: 28px;
            font-weight: 700;
            margin-bottom: 16px;
            color: oklch(0.25 0.02 264);
        }
        button {
            cursor: pointer;
            border: none;
            border-radius: 8px;
            font-family: inherit;
            font-size: 14px;
            font-weight: 500;
            transition: all 0.2s;
        }
        button:active {
            transform: scale(0.98);
        }
        input, textarea {
            font-family: inherit;
            font-size: 14px;
            border: 1px solid oklch(0.85 0.01 264);
            border-radius: 8px;
            padding: 8px 12px;
            outline: none;
            transition: border-color 0.2s;
        }
        input:focus, textarea:focus {
            border-color: oklch(0.55 0.15 264);
        }
        .error-fallback {
            padding: 16px;
            background: oklch(0.95 0.01 264);
            border-radius: 8px;
            color: oklch(0.45 0.02 264);
            text-align: center;
        }
        %s
    </style>
</head>
<body>
    %s
    <script>
        %s
    </script>
</body>
</html>`
