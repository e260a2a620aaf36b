package notify

import (
	"fmt"
	"html"
	"strings"
)

func htmlBody(title, text string) string {
	paragraphs := strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
	return fmt.Sprintf(`<body style="margin:0;padding:0;background:#0b0b0b;">
  <table width="100%%" cellpadding="0" cellspacing="0" border="0" style="background:#0b0b0b;">
    <tr>
      <td align="center" style="padding:32px 0;">
        <table width="100%%" cellpadding="0" cellspacing="0" border="0" style="max-width:600px;background:#141414;border-radius:28px;">
          <tr>
            <td style="padding:32px;text-align:left;">
              <h1 style="margin:0 0 12px 0;font-family:Arial,sans-serif;font-size:28px;color:#D4AF37;">%s</h1>
              <p style="margin:0;font-family:Arial,sans-serif;font-size:16px;line-height:1.5;color:#eee;">%s</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>`, html.EscapeString(title), paragraphs)
}
