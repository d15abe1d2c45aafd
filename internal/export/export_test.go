package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creation-server/internal/generation"
	"creation-server/internal/models"
)

func buildDraft(t *testing.T, prompt string, typ models.CreationType) models.CreationDraft {
	t.Helper()
	draft, err := generation.BuildDraft(prompt, typ, nil)
	require.NoError(t, err)
	return draft
}

func TestExportHTML_Document(t *testing.T) {
	draft := buildDraft(t, "todo list for groceries", models.CreationTypeApp)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<meta charset=\"UTF-8\">")
	assert.Contains(t, doc, "</html>")
	assert.NotContains(t, doc, "http://", "документ автономен")
	assert.NotContains(t, doc, "https://")
	assert.NotContains(t, doc, "eval(", "динамического выполнения кода нет")
}

func TestExportHTML_TaskList(t *testing.T) {
	draft := buildDraft(t, "task tracker for chores", models.CreationTypeApp)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	assert.Contains(t, doc, "taskInput")
	assert.Contains(t, doc, "addTask()")
	assert.Contains(t, doc, "toggleTask(")
	assert.Contains(t, doc, "deleteTask(")
}

func TestExportHTML_TaskListKeepsCompletedState(t *testing.T) {
	// Шаблон сеет задачу "Design user interface" завершенной; начальная
	// разметка обязана нести ее состояние, иначе снимок tasks в скрипте
	// стартует с потерянными отметками.
	draft := buildDraft(t, "task tracker for chores", models.CreationTypeApp)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	assert.Contains(t, doc, `<div class="task-item completed"`)
	assert.Contains(t, doc, `<input type="checkbox" checked onchange="toggleTask(1)"`)
	assert.Contains(t, doc, `<input type="checkbox" onchange="toggleTask(0)"`, "незавершенные задачи без checked")
}

func TestExportHTML_Calculator(t *testing.T) {
	t.Run("базовый без научного ряда", func(t *testing.T) {
		draft := buildDraft(t, "simple calculator", models.CreationTypeApp)
		doc, err := ExportHTML(draft)
		require.NoError(t, err)

		assert.Contains(t, doc, "calc-display")
		assert.Contains(t, doc, "handleEquals()")
		assert.Contains(t, doc, "safeEval", "равно идет через безопасный вычислитель")
		assert.NotContains(t, doc, "eval(expr)")
		assert.NotContains(t, doc, "handleFunction('sin')")
	})

	t.Run("научный режим добавляет функции", func(t *testing.T) {
		draft := buildDraft(t, "scientific calculator", models.CreationTypeApp)
		doc, err := ExportHTML(draft)
		require.NoError(t, err)

		assert.Contains(t, doc, "handleFunction('sin')")
		assert.Contains(t, doc, "handleFunction('sqrt')")
		assert.Contains(t, doc, "division by zero")
	})
}

func TestExportHTML_Website(t *testing.T) {
	draft := buildDraft(t, "portfolio site", models.CreationTypeWebsite)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	var data models.WebsiteData
	require.NoError(t, json.Unmarshal(draft.Data, &data))
	require.NotEmpty(t, data.Pages)

	assert.Contains(t, doc, "showPage(0)")
	for _, page := range data.Pages {
		assert.Contains(t, doc, escape(page.Title))
	}
}

func TestExportHTML_Chatbot(t *testing.T) {
	draft := buildDraft(t, "support bot for orders", models.CreationTypeChatbot)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	var data models.ChatbotData
	require.NoError(t, json.Unmarshal(draft.Data, &data))

	responsesJSON, err2 := json.Marshal(data.Responses)
	require.NoError(t, err2)
	assert.Contains(t, doc, string(responsesJSON), "правила ответов встроены JSON-ом")
	assert.Contains(t, doc, "setTimeout")
	assert.Contains(t, doc, "500")
}

func TestExportHTML_Image(t *testing.T) {
	draft := buildDraft(t, "mountain landscape", models.CreationTypeImage)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	var data models.ImageData
	require.NoError(t, json.Unmarshal(draft.Data, &data))

	assert.Contains(t, doc, "image-placeholder")
	assert.Contains(t, doc, data.Emoji)
	assert.Contains(t, doc, escape(data.Caption))
}

func TestExportHTML_Game(t *testing.T) {
	draft := buildDraft(t, "space shooter game", models.CreationTypeGame)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	gameData := generation.NormalizeGameDataJSON(draft.Data)
	encoded, err2 := json.Marshal(gameData)
	require.NoError(t, err2)

	assert.Contains(t, doc, string(encoded), "встроены нормализованные данные игры")
	assert.Contains(t, doc, "gameCanvas")
	assert.Contains(t, doc, "startOverlay")
	assert.Contains(t, doc, "pausedOverlay")
	assert.Contains(t, doc, "gameoverOverlay")
	assert.Contains(t, doc, "requestAnimationFrame")
}

func TestExportHTML_GameShooterRendering(t *testing.T) {
	draft := buildDraft(t, "space shooter game", models.CreationTypeGame)
	doc, err := ExportHTML(draft)
	require.NoError(t, err)

	// Пули рисуются цветом primary; поля accent в теме нет вовсе.
	assert.Contains(t, doc, "ctx.fillStyle = gameData.theme.primary")
	assert.NotContains(t, doc, "theme.accent")
	// Игрок-шутер рисуется треугольником, как в интерактивном просмотре.
	assert.Contains(t, doc, "ctx.moveTo(state.player.x, state.player.y - state.player.size)")
	assert.Contains(t, doc, "ctx.lineTo(state.player.x + state.player.size, state.player.y + state.player.size)")
	assert.Contains(t, doc, "ctx.closePath()")
}

func TestExportHTML_GameSurvivesCorruptedData(t *testing.T) {
	draft := models.CreationDraft{
		Type:   models.CreationTypeGame,
		Prompt: "broken game",
		Data:   json.RawMessage(`{"settings": "garbage"`),
	}
	doc, err := ExportHTML(draft)
	require.NoError(t, err, "нормализатор дает полную конфигурацию даже для мусора")
	assert.Contains(t, doc, "gameCanvas")
}

func TestExportHTML_EscapesTitle(t *testing.T) {
	draft := models.CreationDraft{
		Type:   models.CreationTypeImage,
		Prompt: `<script>alert("x")</script>`,
		Data:   json.RawMessage(`{}`),
	}
	doc, err := ExportHTML(draft)
	require.NoError(t, err)
	assert.NotContains(t, doc, `<script>alert`)
	assert.Contains(t, doc, "&lt;script&gt;")
}

func TestExportHTML_UnknownType(t *testing.T) {
	_, err := ExportHTML(models.CreationDraft{Type: "hologram"})
	assert.ErrorIs(t, err, models.ErrUnknownType)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"пробелы и пунктуация", "My Cool App!", "My_Cool_App_"},
		{"серии схлопываются", "a  --  b", "a_--_b"},
		{"кириллица заменяется", "привет app", "_app"},
		{"разрешенные символы сохраняются", "app_v2-final", "app_v2-final"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}

	t.Run("не длиннее 50", func(t *testing.T) {
		long := strings.Repeat("a", 80)
		assert.Len(t, SanitizeFilename(long), 50)
	})

	t.Run("идемпотентность", func(t *testing.T) {
		once := SanitizeFilename("My App (v2)")
		assert.Equal(t, once, SanitizeFilename(once))
	})
}

func TestFilename(t *testing.T) {
	draft := buildDraft(t, "todo app", models.CreationTypeApp)

	var data models.AppData
	require.NoError(t, json.Unmarshal(draft.Data, &data))
	base := SanitizeFilename(data.Title)

	assert.Equal(t, base+".json", Filename(draft, FormatJSON))
	assert.Equal(t, base+".html", Filename(draft, FormatHTML))
	assert.Equal(t, base+"_android_setup.txt", Filename(draft, FormatAndroid))
}

func TestExportJSON(t *testing.T) {
	draft := buildDraft(t, "support bot", models.CreationTypeChatbot)
	out, err := ExportJSON(draft)
	require.NoError(t, err)

	var decoded models.CreationDraft
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, draft.Type, decoded.Type)
	assert.Equal(t, draft.Prompt, decoded.Prompt)
	assert.Contains(t, out, "\n  ", "вывод отформатирован с отступами")
}

func TestExportAndroid(t *testing.T) {
	t.Run("только для приложений", func(t *testing.T) {
		draft := buildDraft(t, "space game", models.CreationTypeGame)
		_, err := ExportAndroid(draft)
		assert.Error(t, err)
	})

	t.Run("инструкция содержит данные", func(t *testing.T) {
		draft := buildDraft(t, "note taking app", models.CreationTypeApp)
		out, err := ExportAndroid(draft)
		require.NoError(t, err)

		assert.Contains(t, out, "# Android Setup Instructions")
		assert.Contains(t, out, "WebView")
		assert.Contains(t, out, string(draft.Type))
		assert.Contains(t, out, draft.Prompt)
	})
}

func TestFormat(t *testing.T) {
	assert.True(t, FormatJSON.IsValid())
	assert.True(t, FormatHTML.IsValid())
	assert.True(t, FormatAndroid.IsValid())
	assert.False(t, Format("pdf").IsValid())

	assert.Equal(t, "text/html; charset=utf-8", FormatHTML.ContentType())
	assert.Equal(t, "application/json; charset=utf-8", FormatJSON.ContentType())
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "https://example.com/#/shared/abc", ShareURL("https://example.com", "abc", true))
	assert.Equal(t, "https://example.com/shared/abc", ShareURL("https://example.com/", "abc", false))

	// Одна и та же генерация всегда дает одну и ту же ссылку
	first := ShareURL("https://example.com", "abc", true)
	assert.Equal(t, first, ShareURL("https://example.com", "abc", true))
}
