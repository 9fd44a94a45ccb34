package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/lock"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/sheet"
	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

var fixedNow = time.Date(2026, 1, 10, 15, 4, 5, 0, time.UTC)

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, email entity.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type stubRenderer struct{}

func (stubRenderer) Render(kind entity.NotificationKind) (string, string, error) {
	return "subject " + string(kind), "<p>" + string(kind) + "</p>", nil
}

func newNotifyUC(repo entity.SignupRepositoryInterface, n usecase.Notifier) *usecase.SendNotificationUseCase {
	uc := usecase.NewSendNotificationUseCase(repo, n, stubRenderer{}, "reply@rhydle.app", "RHYDLE Team", zap.NewNop())
	uc.Now = func() time.Time { return fixedNow }
	return uc
}

func newRegisterUC(repo entity.SignupRepositoryInterface, n usecase.Notifier) *usecase.RegisterSignupUseCase {
	uc := usecase.NewRegisterSignupUseCase(repo, newNotifyUC(repo, n), lock.NewLocalLocker(), zap.NewNop())
	uc.Now = func() time.Time { return fixedNow }
	return uc
}

func newSheet() *sheet.Sheet {
	return sheet.New(entity.DefaultColumnMap())
}

// seed grava inscritos direto no store, sem passar pelo welcome.
func seed(s *sheet.Sheet, emails ...string) []*entity.Signup {
	ctx := context.Background()
	s.EnsureHeader(ctx)
	var out []*entity.Signup
	for _, e := range emails {
		signup, err := entity.NewSignup("2026-01-01T00:00:00Z", e, "", "landing", fixedNow)
		if err != nil {
			panic(err)
		}
		if err := s.Append(ctx, signup); err != nil {
			panic(err)
		}
		out = append(out, signup)
	}
	return out
}
