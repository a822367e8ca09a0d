package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/wepcomic/wepcomic-term/internal/api/anilist"
	"github.com/wepcomic/wepcomic-term/internal/api/backend"
	"github.com/wepcomic/wepcomic-term/internal/api/consumet"
	"github.com/wepcomic/wepcomic-term/internal/api/mangadex"
	"github.com/wepcomic/wepcomic-term/internal/config"
	"github.com/wepcomic/wepcomic-term/internal/database"
	"github.com/wepcomic/wepcomic-term/internal/favorites"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/session"
	"github.com/wepcomic/wepcomic-term/internal/source"
)

// appContext wires the clients and local state for one command invocation.
type appContext struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.Database
	session *session.Manager

	backend *backend.Client
	sources *source.Aggregator
}

// newAppContext loads configuration, opens the local database and restores
// the session.
func newAppContext(c *cli.Context) (*appContext, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if format := c.String("log-format"); format != "" {
		cfg.Logging.Format = format
	}

	logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: logger.ParseLogFormat(cfg.Logging.Format),
	})
	log := logger.Get()

	db, err := database.New(cfg.DatabasePath(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	sess, err := session.NewManager(db, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	backendClient := backend.NewClient(cfg.Backend.URL, sess, log)
	metadataClient := mangadex.NewClient(cfg.Backend.URL+"/mangadex", cfg.MangaDex.URL, log)
	scraperClient := consumet.NewClient(cfg.Consumet.URL, log)
	anilistClient := anilist.NewClient("", log)

	return &appContext{
		cfg:     cfg,
		log:     log,
		db:      db,
		session: sess,
		backend: backendClient,
		sources: source.NewAggregator(backendClient, metadataClient, scraperClient, anilistClient, log),
	}, nil
}

// Close releases the local database.
func (a *appContext) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close local database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// favoritesManager builds the favorites manager for the active identity and
// loads the stored set.
func (a *appContext) favoritesManager(c *cli.Context) (*favorites.Manager, error) {
	store := favorites.StoreFor(a.session, a.backend, a.db)
	manager := favorites.NewManager(store, a.log)
	if err := manager.Load(c.Context); err != nil {
		return nil, err
	}
	return manager, nil
}

// contentPrefs returns the persisted NSFW flag and content language.
func (a *appContext) contentPrefs() (bool, string) {
	showNSFW := a.db.GetPreference(database.PrefShowNSFW, "false") == "true"
	language := a.db.GetPreference(database.PrefLanguage, "es")
	return showNSFW, language
}
