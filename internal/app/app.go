package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/riskibarqy/haxball-league/internal/config"
	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/roster"
	"github.com/riskibarqy/haxball-league/internal/domain/settings"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/infrastructure/discord"
	cacherepo "github.com/riskibarqy/haxball-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/haxball-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/haxball-league/internal/infrastructure/repository/sqldb"
	"github.com/riskibarqy/haxball-league/internal/interfaces/discordbot"
	"github.com/riskibarqy/haxball-league/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/haxball-league/internal/platform/cache"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
	"github.com/riskibarqy/haxball-league/internal/platform/resilience"
	"github.com/riskibarqy/haxball-league/internal/usecase"
)

// App is the running process: the read API and, when enabled, the Discord
// bot sharing one store.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	server *http.Server
	bot    *discordbot.Bot
	close  func() error
}

type repositories struct {
	settings settings.Repository
	teams    team.Repository
	offers   transfer.Repository
	history  history.Repository
	close    func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	readTeams, readOffers, readHistory := repos.teams, repos.offers, repos.history
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		readTeams = cacherepo.NewTeamRepository(repos.teams, store)
		readOffers = cacherepo.NewTransferRepository(repos.offers, store)
		readHistory = cacherepo.NewHistoryRepository(repos.history, store)
		repos.teams = cacherepo.NewTeamWriter(repos.teams, store)
		repos.offers = cacherepo.NewTransferWriter(repos.offers, store)
		repos.history = cacherepo.NewHistoryWriter(repos.history, store)
	}
	queryService := usecase.NewQueryService(readTeams, readOffers, readHistory)

	var (
		directory roster.Directory
		announcer usecase.OfferAnnouncer
		bot       *discordbot.Bot
	)
	breaker := resilience.New(resilience.Config{
		Enabled:          cfg.DiscordCircuitEnabled,
		FailureThreshold: cfg.DiscordCircuitFailureCount,
		OpenTimeout:      cfg.DiscordCircuitOpenTimeout,
		HalfOpenProbes:   cfg.DiscordCircuitHalfOpenMax,
	},
		resilience.CountIf(discord.IsOutage),
		resilience.OnStateChange(func(from, to resilience.State) {
			logger.Warn("discord circuit breaker changed state", "from", from, "to", to)
		}),
	)

	var discordDirectory *discord.Directory
	session, err := newDiscordSession(cfg)
	if err != nil {
		_ = repos.close()
		return nil, err
	}
	if session != nil {
		discordDirectory = discord.NewDirectory(session, cfg.DiscordGuildID, breaker, logger)
		directory = discordDirectory
		announcer = discordbot.NewAnnouncer(session, breaker)
	} else {
		directory = memory.NewDirectory()
		announcer = newLogAnnouncer(logger)
	}

	authority := usecase.NewRosterAuthority(directory, repos.teams)
	settingsService := usecase.NewSettingsService(repos.settings, logger)
	teamService := usecase.NewTeamService(repos.teams, repos.settings, authority, logger)
	transferService := usecase.NewTransferService(
		repos.settings,
		repos.teams,
		repos.offers,
		authority,
		directory,
		announcer,
		logger,
	)

	if session != nil {
		handler := discordbot.NewHandler(settingsService, teamService, transferService, logger)
		bot, err = discordbot.New(session, handler, discordDirectory, discordbot.Options{
			GuildID:       cfg.DiscordGuildID,
			Workers:       cfg.DiscordWorkers,
			ActionTimeout: cfg.DiscordActionTimeout,
		}, logger)
		if err != nil {
			_ = repos.close()
			return nil, err
		}
	}

	router := httpapi.NewRouter(httpapi.NewHandler(queryService, logger), logger, cfg.CORSAllowedOrigins)
	server, err := httpapi.NewServer(cfg.HTTPAddr, router, cfg.ReadTimeout, cfg.WriteTimeout)
	if err != nil {
		_ = repos.close()
		return nil, err
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		server: server,
		bot:    bot,
		close:  repos.close,
	}, nil
}

// Run serves until ctx is cancelled or a component fails, then shuts
// everything down within cfg.WriteTimeout.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.bot != nil {
		if err := a.bot.Start(gctx); err != nil {
			_ = a.server.Close()
			_ = g.Wait()
			_ = a.close()
			return err
		}
	} else {
		a.logger.Warn("discord bot disabled", "reason", "DISCORD_ENABLED=false")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.WriteTimeout)
		defer cancel()
		return a.shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if a.bot != nil {
		if err := a.bot.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	a.logger.Info("app stopped")
	return errors.Join(errs...)
}

// newDiscordSession returns nil when the bot is disabled.
func newDiscordSession(cfg config.Config) (*discordgo.Session, error) {
	if !cfg.DiscordEnabled {
		return nil, nil
	}
	return discordbot.NewSession(cfg.DiscordToken)
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBDriver == config.DBDriverMemory {
		logger.Warn("using in-memory store", "reason", "DB_DRIVER=memory")
		historyRepo := memory.NewHistoryRepository()
		return repositories{
			settings: memory.NewSettingsRepository(settings.Settings{}),
			teams:    memory.NewTeamRepository(),
			offers:   memory.NewTransferRepository(historyRepo),
			history:  historyRepo,
			close:    func() error { return nil },
		}, nil
	}

	if cfg.DBAutoMigrate {
		if err := sqldb.MigrateUp(cfg.DBDriver, cfg.DBURL); err != nil {
			return repositories{}, fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("database migrations applied", "driver", cfg.DBDriver)
	}

	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBURL, dbTraceOptions(cfg.DBURL)...)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("database connected", "driver", cfg.DBDriver, "db", dbNameFromURL(cfg.DBURL))

	return repositories{
		settings: sqldb.NewSettingsRepository(db),
		teams:    sqldb.NewTeamRepository(db),
		offers:   sqldb.NewTransferRepository(db),
		history:  sqldb.NewHistoryRepository(db),
		close:    db.Close,
	}, nil
}
