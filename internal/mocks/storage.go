package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/pauselab/internal/model"
)

var _ model.Storage = (*Storage)(nil)

type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	ret := m.Called(ctx, key, reader)
	return ret.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ret := m.Called(ctx, key)
	var rc io.ReadCloser
	if v := ret.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, ret.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	ret := m.Called(ctx, key)
	return ret.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	ret := m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}
