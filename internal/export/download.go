package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"creation-server/internal/models"
)

// Format - формат выгрузки генерации.
type Format string

const (
	FormatJSON    Format = "json"
	FormatHTML    Format = "html"
	FormatAndroid Format = "android"
)

// IsValid сообщает, известен ли формат.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatHTML, FormatAndroid:
		return true
	}
	return false
}

// ContentType возвращает MIME-тип файла для формата.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatAndroid:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Extension возвращает суффикс имени файла для формата.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatAndroid:
		return "_android_setup.txt"
	default:
		return ".json"
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	repeatedUnderscores = regexp.MustCompile(`_+`)
)

const maxFilenameLength = 50

// SanitizeFilename приводит произвольный заголовок к безопасному имени
// файла: все символы вне [a-zA-Z0-9_-] заменяются подчеркиванием, серии
// подчеркиваний схлопываются, длина не более 50.
func SanitizeFilename(name string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(name, "_")
	sanitized = repeatedUnderscores.ReplaceAllString(sanitized, "_")
	if len(sanitized) > maxFilenameLength {
		sanitized = sanitized[:maxFilenameLength]
	}
	return sanitized
}

// Filename строит имя файла выгрузки из заголовка генерации и формата.
func Filename(draft models.CreationDraft, format Format) string {
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
	return SanitizeFilename(title) + format.Extension()
}

// ExportJSON возвращает генерацию как pretty-printed JSON.
func ExportJSON(draft models.CreationDraft) (string, error) {
	encoded, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return "", fmt.Errorf("не удалось сериализовать генерацию: %w", err)
	}
	return string(encoded), nil
}

// ExportAndroid строит текстовую инструкцию по сборке Android-оболочки.
// Доступен только для приложений.
func ExportAndroid(draft models.CreationDraft) (string, error) {
	if draft.Type != models.CreationTypeApp {
		return "", fmt.Errorf("android-выгрузка доступна только для приложений: %w", models.ErrUnknownType)
	}

	var peek struct {
		Title string `json:"title"`
	}
	decodeData(draft.Data, &peek)
	title := peek.Title
	if title == "" {
		title = draft.Prompt
	}
	if title == "" {
		title = "My App"
	}

	dataJSON := "{}"
	if len(draft.Data) > 0 {
		var pretty json.RawMessage = draft.Data
		if indented, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			dataJSON = string(indented)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Android Setup Instructions\n\n")
	fmt.Fprintf(&b, "## About This Export\n\n")
	fmt.Fprintf(&b, "This file contains instructions for creating an Android app for your creation: %q\n\n", title)
	b.WriteString("Note: This is a setup guide, not an installable APK. For immediate use, download the HTML export instead.\n\n")
	b.WriteString(`## Recommended: Use HTML Export

For the quickest way to use your creation on Android:
1. Download the HTML export from the download menu
2. Open the downloaded .html file in any browser on your Android device
3. Your creation will work immediately without any setup

The HTML export is fully functional and works offline after the first load.

## Advanced: Create Native Android App

If you need a native Android app:

1. Install Android Studio (https://developer.android.com/studio)
2. Create an Empty Activity project, minimum SDK API 21
3. Add a full-screen WebView to the main layout and enable JavaScript
4. Put the HTML export at app/src/main/assets/index.html
5. Load it with webView.loadUrl("file:///android_asset/index.html")
6. Build the APK: Build -> Build APK(s), or ./gradlew assembleDebug
7. Install with: adb install app/build/outputs/apk/debug/app-debug.apk

`)
	fmt.Fprintf(&b, "## Your App Data\n\nType: %s\n", draft.Type)
	prompt := draft.Prompt
	if prompt == "" {
		prompt = "N/A"
	}
	fmt.Fprintf(&b, "Prompt: %s\n\nData:\n%s\n\n", prompt, dataJSON)
	b.WriteString("---\n\nFor immediate use without development tools, use the HTML export option instead.\nThe HTML file works on any device with a web browser.\n")
	return b.String(), nil
}
