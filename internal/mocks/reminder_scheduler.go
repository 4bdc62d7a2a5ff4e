package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/pauselab/internal/model"
)

var _ model.ReminderScheduler = (*ReminderScheduler)(nil)

type ReminderScheduler struct {
	mock.Mock
}

func (m *ReminderScheduler) RequestPermission(ctx context.Context) (bool, error) {
	ret := m.Called(ctx)
	return ret.Bool(0), ret.Error(1)
}

func (m *ReminderScheduler) ScheduleDailyReminders(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

func (m *ReminderScheduler) CancelAll(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}
