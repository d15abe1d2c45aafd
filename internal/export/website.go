package export

import (
	"fmt"
	"strings"

	"creation-server/internal/models"
)

func websiteBody(data models.WebsiteData) string {
	var nav, content strings.Builder
	for idx, page := range data.Pages {
		active := ""
		if idx == 0 {
			active = " active"
		}
		nav.WriteString(fmt.Sprintf(`
          <button class="nav-btn%s" onclick="showPage(%d)">%s</button>`,
			active, idx, escape(page.Title)))
		content.WriteString(fmt.Sprintf(`
          <div class="page-content%s" data-page="%d">
            <h1>%s</h1>
            <div class="page-body">%s</div>
          </div>`, active, idx, escape(page.Title), escape(page.Content)))
	}

	return fmt.Sprintf(`
    <div class="website-container">
      <nav class="website-nav">%s
      </nav>
      <div class="website-content">%s
      </div>
    </div>`, nav.String(), content.String())
}

const websiteStyles = `
    .website-container {
      min-height: 100vh;
    }
    .website-nav {
      background: white;
      padding: 16px;
      display: flex;
      gap: 8px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.1);
      flex-wrap: wrap;
    }
    .nav-btn {
      padding: 8px 16px;
      background: oklch(0.96 0.005 264);
      color: oklch(0.25 0.02 264);
    }
    .nav-btn.active {
      background: oklch(0.55 0.15 264);
      color: white;
    }
    .website-content {
      padding: 40px 20px;
    }
    .page-content {
      display: none;
      max-width: 800px;
      margin: 0 auto;
    }
    .page-content.active {
      display: block;
    }
    .page-body {
      margin-top: 24px;
      line-height: 1.6;
      white-space: pre-wrap;
    }`

const websiteScripts = `
    function showPage(index) {
      document.querySelectorAll('.page-content').forEach(el => el.classList.remove('active'));
      document.querySelectorAll('.nav-btn').forEach(el => el.classList.remove('active'));
      document.querySelector(` + "`" + `[data-page="${index}"]` + "`" + `).classList.add('active');
      document.querySelectorAll('.nav-btn')[index].classList.add('active');
    }`
