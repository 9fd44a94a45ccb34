package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

const apkLink = "https://drive.example.com/file/d/rhydle-apk/view"

func TestFormatLaunchDate(t *testing.T) {
	assert.Equal(t, "February 21, 2026", FormatLaunchDate(time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC)))
}

func TestRenderWelcome(t *testing.T) {
	tpl := NewTemplates(apkLink, time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC))

	subject, body, err := tpl.Render(entity.NotificationWelcome)

	require.NoError(t, err)
	assert.Equal(t, WelcomeSubject, subject)
	assert.Contains(t, body, "February 21, 2026")
	assert.Contains(t, body, `href="`+apkLink+`"`)
	assert.Contains(t, body, "You're In")
}

func TestRenderBeta(t *testing.T) {
	tpl := NewTemplates(apkLink, time.Now())

	subject, body, err := tpl.Render(entity.NotificationBeta)

	require.NoError(t, err)
	assert.Equal(t, BetaSubject, subject)
	assert.Contains(t, body, `href="`+apkLink+`"`)
	assert.Contains(t, body, "Installation Steps")
}

func TestRenderUnknownKind(t *testing.T) {
	_, _, err := NewTemplates(apkLink, time.Now()).Render("PROMO")
	assert.Error(t, err)
}
