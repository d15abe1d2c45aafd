package export

import (
	"fmt"

	"creation-server/internal/models"
)

func imageBody(data models.ImageData) string {
	emoji := data.Emoji
	if emoji == "" {
		emoji = "\U0001F5BC️"
	}

	caption := ""
	if data.Caption != "" {
		caption = fmt.Sprintf(`
        <p class="image-caption">%s</p>`, escape(data.Caption))
	}

	return fmt.Sprintf(`
    <div class="container">
      <div class="image-container">
        <div class="image-placeholder">
          <span class="emoji">%s</span>
        </div>%s
      </div>
    </div>`, escape(emoji), caption)
}

const imageStyles = `
    .image-container {
      background: white;
      border-radius: 16px;
      padding: 24px;
      box-shadow: 0 4px 16px rgba(0,0,0,0.1);
      text-align: center;
    }
    .image-placeholder {
      background: oklch(0.96 0.005 264);
      border-radius: 12px;
      padding: 60px;
      margin-bottom: 16px;
    }
    .emoji {
      font-size: 120px;
      line-height: 1;
    }
    .image-caption {
      font-size: 16px;
      color: oklch(0.45 0.02 264);
      line-height: 1.6;
    }`
