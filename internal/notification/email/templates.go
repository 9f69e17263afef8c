package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	subjectConversationStarted = "Nieuw gesprek gestart op Onderwijsloket Rotterdam"
	subjectPhaseAdvancedFmt    = "Gebruiker door naar fase %s"
)

type baseEmailData struct {
	Title   string
	Heading string
}

type conversationStartedEmailData struct {
	baseEmailData
	UserName string
}

type phaseAdvancedEmailData struct {
	baseEmailData
	UserName string
	OldPhase string
	NewPhase string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
