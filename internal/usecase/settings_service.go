package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

// ConfigureInput carries the ids set by the administrative /config action.
type ConfigureInput struct {
	FreeAgentRoleID  string
	PlayerRoleID     string
	ManagerRoleID    string
	OfferChannelID   string
	WelcomeChannelID string
	WelcomeImageURL  string
}

type SettingsService struct {
	repo   settings.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewSettingsService(repo settings.Repository, logger *logging.Logger) *SettingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SettingsService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *SettingsService) Configure(ctx context.Context, input ConfigureInput) (out settings.Settings, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.Configure")
	defer func() { endSpan(span, err) }()

	cfg := settings.Settings{
		FreeAgentRoleID:  strings.TrimSpace(input.FreeAgentRoleID),
		PlayerRoleID:     strings.TrimSpace(input.PlayerRoleID),
		ManagerRoleID:    strings.TrimSpace(input.ManagerRoleID),
		OfferChannelID:   strings.TrimSpace(input.OfferChannelID),
		WelcomeChannelID: strings.TrimSpace(input.WelcomeChannelID),
		WelcomeImageURL:  strings.TrimSpace(input.WelcomeImageURL),
		UpdatedAt:        s.now().UTC(),
	}
	if err := cfg.Validate(); err != nil {
		return settings.Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if cfg.WelcomeImageURL != "" && !isHTTPURL(cfg.WelcomeImageURL) {
		return settings.Settings{}, fmt.Errorf("%w: welcome image must be an http(s) url", ErrInvalidInput)
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return settings.Settings{}, persistenceErr("save settings", err)
	}

	s.logger.InfoContext(ctx, "settings updated",
		"manager_role_id", cfg.ManagerRoleID,
		"free_agent_role_id", cfg.FreeAgentRoleID,
		"offer_channel_id", cfg.OfferChannelID,
	)
	return cfg, nil
}

// Get returns the stored settings even when they are incomplete.
func (s *SettingsService) Get(ctx context.Context) (settings.Settings, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return settings.Settings{}, persistenceErr("load settings", err)
	}
	return cfg, nil
}

func loadConfigured(ctx context.Context, repo settings.Repository) (settings.Settings, error) {
	cfg, err := repo.Get(ctx)
	if err != nil {
		return settings.Settings{}, persistenceErr("load settings", err)
	}
	if !cfg.Configured() {
		return settings.Settings{}, ErrConfigurationMissing
	}
	return cfg, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
