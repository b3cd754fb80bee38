// Package templates renders the transactional emails the app sends:
// a welcome message on registration and a notification on each login.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names accepted in EmailJob.Template.
const (
	Welcome           = "welcome"
	LoginNotification = "login_notification"
)

type tpl struct {
	subject string
	text    string
	html    string
}

var registry = map[string]tpl{
	Welcome: {
		subject: "Welcome to Captionly",
		text: `Hi {{.Name}},

Your Captionly account is ready. Sign in with {{.Email}} and generate your first caption.

- The Captionly team`,
		html: `<div style="font-family:sans-serif;max-width:480px">
<h2>Welcome, {{.Name}}!</h2>
<p>Your Captionly account is ready. Sign in with <strong>{{.Email}}</strong> and generate your first caption.</p>
<p style="color:#888">— The Captionly team</p>
</div>`,
	},
	LoginNotification: {
		subject: "New login to your account",
		text: `Hi {{.Name}},

A new login to your Captionly account was recorded at {{.Time}} from {{.IP}}.
If this wasn't you, please change your password.`,
		html: `<div style="font-family:sans-serif;max-width:480px">
<h2>New login</h2>
<p>Hi {{.Name}}, a new login to your Captionly account was recorded at <strong>{{.Time}}</strong> from <strong>{{.IP}}</strong>.</p>
<p>If this wasn't you, please change your password.</p>
</div>`,
	},
}

// Render produces subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	t, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	text, err = exec(name+"_text", t.text, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = exec(name+"_html", t.html, data)
	if err != nil {
		return "", "", "", err
	}
	return t.subject, text, html, nil
}

func exec(name, body string, data map[string]any) (string, error) {
	t, err := template.New(name).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
