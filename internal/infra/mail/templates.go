package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

const (
	WelcomeSubject = "🎉 Welcome to RHYDLE Beta - You're In!"
	BetaSubject    = "🚀 Your RHYDLE Beta APK is Ready - Download Now!"
)

var (
	//go:embed templates/welcome.html
	welcomeTemplateRaw string
	//go:embed templates/beta.html
	betaTemplateRaw string

	welcomeTemplate = template.Must(template.New("welcome").Parse(welcomeTemplateRaw))
	betaTemplate    = template.Must(template.New("beta").Parse(betaTemplateRaw))
)

// Templates renderiza os dois emails da waitlist a partir da config fixa.
type Templates struct {
	DownloadLink string
	LaunchDate   time.Time
}

func NewTemplates(downloadLink string, launchDate time.Time) *Templates {
	return &Templates{DownloadLink: downloadLink, LaunchDate: launchDate}
}

func (t *Templates) Render(kind entity.NotificationKind) (string, string, error) {
	var body bytes.Buffer

	switch kind {
	case entity.NotificationWelcome:
		data := WelcomeEmailData{
			LaunchDate:   FormatLaunchDate(t.LaunchDate),
			DownloadLink: t.DownloadLink,
		}
		if err := welcomeTemplate.Execute(&body, data); err != nil {
			return "", "", fmt.Errorf("erro ao processar template welcome: %w", err)
		}
		return WelcomeSubject, body.String(), nil

	case entity.NotificationBeta:
		if err := betaTemplate.Execute(&body, BetaEmailData{DownloadLink: t.DownloadLink}); err != nil {
			return "", "", fmt.Errorf("erro ao processar template beta: %w", err)
		}
		return BetaSubject, body.String(), nil

	default:
		return "", "", fmt.Errorf("template desconhecido: %s", kind)
	}
}

// FormatLaunchDate formata no padrão en-US longo, ex: "February 21, 2026".
func FormatLaunchDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
