package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/pauselab/internal/model"
)

var _ model.UserDataRepository = (*UserDataRepository)(nil)

type UserDataRepository struct {
	mock.Mock
}

func (m *UserDataRepository) Load(ctx context.Context) (model.UserData, model.LoadResult) {
	ret := m.Called(ctx)
	return ret.Get(0).(model.UserData), ret.Get(1).(model.LoadResult)
}

func (m *UserDataRepository) Save(ctx context.Context, data model.UserData) error {
	ret := m.Called(ctx, data)
	return ret.Error(0)
}

func (m *UserDataRepository) Clear(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}
