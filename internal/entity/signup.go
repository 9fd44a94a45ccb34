package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SentYes = "Yes"
	SentNo  = "No"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrSignupNotFound     = errors.New("signup not found")
)

// Signup é uma linha da waitlist. Criada uma vez por email, marcada duas vezes
// (welcome e beta) e nunca removida.
type Signup struct {
	ID          string    `json:"id"`
	Timestamp   string    `json:"timestamp"`
	Email       string    `json:"email"`
	Projects    string    `json:"projects"`
	Page        string    `json:"page"`
	DateAdded   time.Time `json:"date_added"`
	WelcomeSent bool      `json:"welcome_sent"`
	BetaSent    bool      `json:"beta_sent"`
	WelcomeNote string    `json:"welcome_note,omitempty"`
	BetaNote    string    `json:"beta_note,omitempty"`
}

// Factory
func NewSignup(timestamp, email, projects, page string, now time.Time) (*Signup, error) {
	s := &Signup{
		ID:        uuid.New().String(),
		Timestamp: timestamp,
		Email:     strings.TrimSpace(email),
		Projects:  projects,
		Page:      page,
		DateAdded: now,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Signup) Validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return ErrEmailRequired
	}
	return nil
}

// NormalizeEmail é a chave de unicidade: "  A@X.com " e "a@x.com" são o mesmo inscrito.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Signup) Sent(kind NotificationKind) bool {
	if kind == NotificationBeta {
		return s.BetaSent
	}
	return s.WelcomeSent
}

// Row monta a linha da planilha, uma célula por coluna do mapeamento.
func (s *Signup) Row(columns ColumnMap) []string {
	row := make([]string, ColumnCount)
	row[columns.Timestamp] = s.Timestamp
	row[columns.Email] = s.Email
	row[columns.Projects] = s.Projects
	row[columns.Page] = s.Page
	row[columns.DateAdded] = s.DateAdded.UTC().Format(time.RFC3339)
	row[columns.WelcomeSent] = YesNo(s.WelcomeSent)
	row[columns.BetaSent] = YesNo(s.BetaSent)
	return row
}

func YesNo(b bool) string {
	if b {
		return SentYes
	}
	return SentNo
}

// SentNote é a nota de auditoria gravada na célula de envio.
func SentNote(at time.Time) string {
	return "Sent: " + at.Format(time.RFC1123)
}

type SignupRepositoryInterface interface {
	// EnsureHeader prepara o store vazio (header / tabela); senão não faz nada.
	EnsureHeader(ctx context.Context) error
	ListEmails(ctx context.Context) ([]string, error)
	Append(ctx context.Context, s *Signup) error
	// ListAll devolve todos os inscritos na ordem de inserção.
	ListAll(ctx context.Context) ([]*Signup, error)
	FindByEmail(ctx context.Context, email string) (*Signup, error)
	MarkSent(ctx context.Context, id string, kind NotificationKind, note string) error
}
