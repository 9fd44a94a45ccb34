package mail

type WelcomeEmailData struct {
	LaunchDate   string
	DownloadLink string
}

type BetaEmailData struct {
	DownloadLink string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
