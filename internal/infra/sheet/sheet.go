// Package sheet guarda a waitlist numa tabela em memória no formato da planilha:
// uma linha de header seguida de uma linha de sete células por inscrito.
package sheet

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

type cellRef struct {
	row, col int
}

type Sheet struct {
	mu      sync.RWMutex
	columns entity.ColumnMap
	rows    [][]string
	ids     []string // ids[i] pertence a rows[i+1]
	index   map[string]int
	notes   map[cellRef]string
}

func New(columns entity.ColumnMap) *Sheet {
	return &Sheet{
		columns: columns,
		index:   make(map[string]int),
		notes:   make(map[cellRef]string),
	}
}

func (s *Sheet) EnsureHeader(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rows) > 0 {
		return nil
	}
	s.rows = append(s.rows, s.columns.Header())
	return nil
}

func (s *Sheet) ListEmails(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emails := make([]string, 0, len(s.ids))
	for i := 1; i < len(s.rows); i++ {
		emails = append(emails, s.rows[i][s.columns.Email])
	}
	return emails, nil
}

func (s *Sheet) Append(ctx context.Context, signup *entity.Signup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rows) == 0 {
		s.rows = append(s.rows, s.columns.Header())
	}
	key := entity.NormalizeEmail(signup.Email)
	for i := 1; i < len(s.rows); i++ {
		if entity.NormalizeEmail(s.rows[i][s.columns.Email]) == key {
			return entity.ErrEmailAlreadyExists
		}
	}

	s.rows = append(s.rows, signup.Row(s.columns))
	s.ids = append(s.ids, signup.ID)
	s.index[signup.ID] = len(s.rows) - 1
	return nil
}

func (s *Sheet) ListAll(ctx context.Context) ([]*entity.Signup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	signups := make([]*entity.Signup, 0, len(s.ids))
	for i, id := range s.ids {
		signups = append(signups, s.signupAt(i+1, id))
	}
	return signups, nil
}

func (s *Sheet) FindByEmail(ctx context.Context, email string) (*entity.Signup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := entity.NormalizeEmail(email)
	for i, id := range s.ids {
		if entity.NormalizeEmail(s.rows[i+1][s.columns.Email]) == key {
			return s.signupAt(i+1, id), nil
		}
	}
	return nil, entity.ErrSignupNotFound
}

func (s *Sheet) MarkSent(ctx context.Context, id string, kind entity.NotificationKind, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.index[id]
	if !ok {
		return entity.ErrSignupNotFound
	}
	col := s.columns.SentColumn(kind)
	s.rows[row][col] = entity.SentYes
	s.notes[cellRef{row, col}] = note
	return nil
}

// Rows devolve uma cópia da planilha, header incluso.
func (s *Sheet) Rows() [][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// Note devolve a nota de uma célula, endereçada a partir de 1 como na planilha.
func (s *Sheet) Note(row, col int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes[cellRef{row - 1, col - 1}]
}

func (s *Sheet) signupAt(row int, id string) *entity.Signup {
	cells := s.rows[row]
	c := s.columns
	return &entity.Signup{
		ID:          id,
		Timestamp:   cells[c.Timestamp],
		Email:       cells[c.Email],
		Projects:    cells[c.Projects],
		Page:        cells[c.Page],
		DateAdded:   parseDate(cells[c.DateAdded]),
		WelcomeSent: cells[c.WelcomeSent] == entity.SentYes,
		BetaSent:    cells[c.BetaSent] == entity.SentYes,
		WelcomeNote: s.notes[cellRef{row, c.WelcomeSent}],
		BetaNote:    s.notes[cellRef{row, c.BetaSent}],
	}
}

func parseDate(cell string) time.Time {
	t, err := time.Parse(time.RFC3339, cell)
	if err != nil {
		return time.Time{}
	}
	return t
}
