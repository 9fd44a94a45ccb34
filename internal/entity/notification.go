package entity

type NotificationKind string

const (
	NotificationWelcome NotificationKind = "WELCOME"
	NotificationBeta    NotificationKind = "BETA"
)

func (k NotificationKind) Valid() bool {
	return k == NotificationWelcome || k == NotificationBeta
}

// Email é o formato aceito por qualquer Notifier.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	ReplyTo  string
	Name     string
}
