package cmd

import (
	"github.com/civicdesk/civicdesk/internal/api"
	"github.com/civicdesk/civicdesk/internal/config"
	"github.com/civicdesk/civicdesk/internal/log"
	"github.com/civicdesk/civicdesk/internal/secstore"
	"github.com/civicdesk/civicdesk/internal/session"
)

// app bundles the wired-up client stack for a command invocation
type app struct {
	config  *config.Config
	logger  *log.Logger
	store   *secstore.Store
	client  *api.Client
	session *session.Manager
}

// newApp loads config, opens the secure store, and wires the API client and
// session manager. Every command goes through here so the whole CLI shares
// one construction path.
func newApp() (*app, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: log.ParseFormat(cfg.LogFormat),
		Output: log.OutputStderr(),
	})
	log.SetDefaultLogger(logger)

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	store, err := secstore.Open(dir, logger)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg.BaseURL, store, logger)
	if err != nil {
		return nil, err
	}
	client.WithTimeout(cfg.HTTPTimeout())

	return &app{
		config:  cfg,
		logger:  logger,
		store:   store,
		client:  client,
		session: session.NewManager(client, store, logger),
	}, nil
}
