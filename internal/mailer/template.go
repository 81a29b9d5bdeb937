package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"bfluegel-contact/internal/model"
)

var bodyTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Kontaktformular</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 20px; background: #f4f4f4; }
    .container { max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; }
    .header { background: #2D5016; color: white; padding: 20px; text-align: center; }
    .body { padding: 30px; }
    .field { margin-bottom: 20px; padding: 15px; background: #f8f9fa; border-left: 4px solid #2D5016; }
    .label { font-weight: bold; color: #2D5016; margin-bottom: 5px; }
    .footer { background: #f8f9fa; padding: 20px; text-align: center; color: #666; font-size: 14px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>Neue Kontaktanfrage</h1></div>
    <div class="body">
      <div class="field"><div class="label">Name:</div><div>{{.Name}}</div></div>
      <div class="field"><div class="label">E-Mail:</div><div><a href="mailto:{{.Email}}">{{.Email}}</a></div></div>
      {{if .Company}}<div class="field"><div class="label">Unternehmen:</div><div>{{.Company}}</div></div>{{end}}
      {{if .Phone}}<div class="field"><div class="label">Telefon:</div><div>{{.Phone}}</div></div>{{end}}
      <div class="field"><div class="label">Betreff:</div><div>{{.SubjectLabel}}</div></div>
      <div class="field"><div class="label">Nachricht:</div><div>{{.Message}}</div></div>
    </div>
    <div class="footer">
      <p>Eingegangen am: {{.ReceivedAt}}</p>
      <p>Zum Antworten einfach auf diese E-Mail antworten.</p>
    </div>
  </div>
</body>
</html>`))

type templateData struct {
	*model.Submission
	ReceivedAt string
}

func renderBody(sub *model.Submission) (string, error) {
	var buf bytes.Buffer
	data := templateData{Submission: sub, ReceivedAt: time.Now().Format("02.01.2006 15:04:05")}
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render notification: %w", err)
	}
	return buf.String(), nil
}
