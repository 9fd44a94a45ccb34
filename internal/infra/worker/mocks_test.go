package worker

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) RequestSweep(ctx context.Context, origin string) error {
	args := m.Called(ctx, origin)
	return args.Error(0)
}

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) Execute(ctx context.Context) (*usecase.SweepResult, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*usecase.SweepResult), args.Error(1)
	}
	return nil, args.Error(1)
}
