package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/haxball-league/internal/domain/settings"
)

type SettingsRepository struct {
	mu  sync.RWMutex
	cfg settings.Settings
}

func NewSettingsRepository(initial settings.Settings) *SettingsRepository {
	return &SettingsRepository{cfg: initial}
}

func (r *SettingsRepository) Get(_ context.Context) (settings.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg, nil
}

func (r *SettingsRepository) Save(_ context.Context, cfg settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	return nil
}
