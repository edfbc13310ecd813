package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"bearcat-ticketing/internal/models"
)

var tmplFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"b64": func(b []byte) string { return base64.StdEncoding.EncodeToString(b) },
}

var purchaseTmpl = template.Must(template.New("purchase").Funcs(tmplFuncs).Parse(`<h1>Your Tickets for {{.EventTitle}}</h1>
<p>Thank you for your purchase!</p>
<p><strong>Event Details:</strong></p>
<ul>
  <li>Date: {{.EventStartsAt.Format "Jan 2, 2006 3:04 PM"}}</li>
  <li>Location: {{.EventLocation}}</li>
</ul>
<div style="margin: 20px 0;">
{{range $i, $t := .Tickets}}
  <div style="border: 1px solid #ddd; padding: 15px; margin: 10px 0; border-radius: 8px;">
    <h3>Ticket #{{inc $i}}</h3>
    <p>Check-in Code: <strong>{{$t.CheckInCode}}</strong></p>
    <img src="data:image/png;base64,{{b64 $t.QRCodePNG}}" alt="Ticket QR Code" style="max-width: 200px;"/>
  </div>
{{end}}
</div>
<p>Please keep your QR codes and check-in codes safe. You'll need them to enter the event.</p>`))

var checkInTmpl = template.Must(template.New("checkin").Funcs(tmplFuncs).Parse(`<h1>Check-in Confirmation</h1>
<p>Your ticket has been successfully checked in for {{.EventTitle}}.</p>
<p><strong>Check-in Time:</strong> {{.CheckedInAt.Format "Jan 2, 2006 3:04 PM"}}</p>
<p><strong>Location:</strong> {{.EventLocation}}</p>
<p>Thank you for attending!</p>`))

// Render produces the subject and HTML body for a notification.
func Render(n models.Notification) (subject, html string, err error) {
	var tmpl *template.Template
	switch n.Kind {
	case models.NotificationPurchase:
		subject = fmt.Sprintf("Ticket Confirmation - %s", n.EventTitle)
		tmpl = purchaseTmpl
	case models.NotificationCheckIn:
		subject = fmt.Sprintf("Check-in Confirmation - %s", n.EventTitle)
		tmpl = checkInTmpl
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, n); err != nil {
		return "", "", fmt.Errorf("failed to render %s template: %w", n.Kind, err)
	}
	return subject, buf.String(), nil
}
