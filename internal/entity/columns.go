package entity

import "fmt"

const ColumnCount = 7

// Header da planilha, na ordem padrão das colunas.
var SignupHeader = []string{
	"Timestamp",
	"Email",
	"Projects",
	"Page",
	"Date Added",
	"Welcome Email Sent",
	"Beta Email Sent",
}

// ColumnMap liga cada campo do inscrito à sua coluna (base zero) na planilha.
type ColumnMap struct {
	Timestamp   int
	Email       int
	Projects    int
	Page        int
	DateAdded   int
	WelcomeSent int
	BetaSent    int
}

func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		Timestamp:   0,
		Email:       1,
		Projects:    2,
		Page:        3,
		DateAdded:   4,
		WelcomeSent: 5,
		BetaSent:    6,
	}
}

func (c ColumnMap) indexes() []int {
	return []int{c.Timestamp, c.Email, c.Projects, c.Page, c.DateAdded, c.WelcomeSent, c.BetaSent}
}

// Validate exige que o mapeamento seja uma permutação de 0..6.
func (c ColumnMap) Validate() error {
	seen := make(map[int]bool, ColumnCount)
	for _, idx := range c.indexes() {
		if idx < 0 || idx >= ColumnCount {
			return fmt.Errorf("column index %d out of range 0-%d", idx, ColumnCount-1)
		}
		if seen[idx] {
			return fmt.Errorf("column index %d used twice", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Header devolve a linha de header na ordem do mapeamento.
func (c ColumnMap) Header() []string {
	header := make([]string, ColumnCount)
	for i, idx := range c.indexes() {
		header[idx] = SignupHeader[i]
	}
	return header
}

func (c ColumnMap) SentColumn(kind NotificationKind) int {
	if kind == NotificationBeta {
		return c.BetaSent
	}
	return c.WelcomeSent
}
