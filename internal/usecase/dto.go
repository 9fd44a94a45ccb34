package usecase

import "github.com/xavierca1/rhydle-waitlist/internal/entity"

const (
	StatusSuccess   = "success"
	StatusDuplicate = "duplicate"
	StatusError     = "error"
)

type RegisterSignupInput struct {
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	Projects  string `json:"projects"`
	Page      string `json:"page"`
}

type RegisterSignupOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SendNotificationInput struct {
	Kind  entity.NotificationKind
	Email string
	// SignupID vazio = envio avulso (teste manual), sem atualizar o registro.
	SignupID string
}

type SweepFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

type SweepResult struct {
	Attempted int            `json:"attempted"`
	Sent      int            `json:"sent"`
	Failed    []SweepFailure `json:"failed,omitempty"`
}
