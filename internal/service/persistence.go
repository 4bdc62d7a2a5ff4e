package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/pauselab/internal/logger"
	"github.com/dtroode/pauselab/internal/model"
)

// DefaultStorageKey is where the user record lives in the key-value store.
const DefaultStorageKey = "@beolab_user_data"

// DefaultLoadTimeout bounds the startup read.
const DefaultLoadTimeout = 3 * time.Second

var _ model.UserDataRepository = (*Persistence)(nil)

// Persistence reads and writes the single serialized user record.
type Persistence struct {
	store       model.KeyValueStore
	key         string
	loadTimeout time.Duration
	logger      *logger.Logger
}

func NewPersistence(store model.KeyValueStore, key string, loadTimeout time.Duration, logger *logger.Logger) *Persistence {
	if key == "" {
		key = DefaultStorageKey
	}
	if loadTimeout <= 0 {
		loadTimeout = DefaultLoadTimeout
	}

	return &Persistence{
		store:       store,
		key:         key,
		loadTimeout: loadTimeout,
		logger:      logger,
	}
}

type readResult struct {
	value []byte
	err   error
}

// Load returns the stored record decoded over the defaults. Any failure,
// including a read slower than the load timeout, yields pure defaults.
func (p *Persistence) Load(ctx context.Context) (model.UserData, model.LoadResult) {
	ctx, cancel := context.WithTimeout(ctx, p.loadTimeout)
	defer cancel()

	// Buffered so a store that ignores ctx cannot leak the reader.
	ch := make(chan readResult, 1)
	go func() {
		value, err := p.store.Get(ctx, p.key)
		ch <- readResult{value: value, err: err}
	}()

	var res readResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		p.logger.Warn("Persistence: load timed out, using defaults", "timeout", p.loadTimeout)
		return model.DefaultUserData(), model.LoadTimeout
	}

	if errors.Is(res.err, model.ErrNotFound) {
		p.logger.Debug("Persistence: no stored record, using defaults")
		return model.DefaultUserData(), model.LoadMissing
	}
	if errors.Is(res.err, context.DeadlineExceeded) {
		p.logger.Warn("Persistence: load timed out, using defaults", "timeout", p.loadTimeout)
		return model.DefaultUserData(), model.LoadTimeout
	}
	if res.err != nil {
		p.logger.Error("Persistence: failed to read record, using defaults", "error", res.err)
		return model.DefaultUserData(), model.LoadFailed
	}

	data, err := decodeUserData(res.value)
	if err != nil {
		p.logger.Error("Persistence: stored record is corrupt, using defaults", "error", err)
		return model.DefaultUserData(), model.LoadCorrupt
	}

	return data, model.LoadFound
}

func (p *Persistence) Save(ctx context.Context, data model.UserData) error {
	value, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode user data: %w", err)
	}

	if err := p.store.Set(ctx, p.key, value); err != nil {
		p.logger.Error("Persistence: failed to save record", "error", err)
		return fmt.Errorf("failed to save user data: %w", err)
	}

	return nil
}

func (p *Persistence) Clear(ctx context.Context) error {
	if err := p.store.Delete(ctx, p.key); err != nil {
		p.logger.Error("Persistence: failed to clear record", "error", err)
		return fmt.Errorf("failed to clear user data: %w", err)
	}

	return nil
}

// decodeUserData unmarshals over the defaults so keys missing from older
// records keep their default values.
func decodeUserData(value []byte) (model.UserData, error) {
	data := model.DefaultUserData()
	if err := json.Unmarshal(value, &data); err != nil {
		return model.UserData{}, err
	}
	data.Normalize()
	return data, nil
}
