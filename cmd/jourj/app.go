package main

import (
	"log/slog"
	"path/filepath"

	"github.com/malotru/jourj/internal/addrbook"
	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/feed"
	"github.com/malotru/jourj/internal/i18n"
	"github.com/malotru/jourj/internal/notify"
	"github.com/malotru/jourj/internal/settings"
	"github.com/malotru/jourj/internal/storage"
	"github.com/malotru/jourj/internal/sync"
)

// AppOptions carries everything needed to wire an App.
type AppOptions struct {
	DataDir string
	Lang    string
	Mode    string
	VCFPath string
	WebURL  string
	WebUser string
	Port    string
}

// App holds the wired application graph shared by all commands.
type App struct {
	DataDir      string
	Settings     *settings.Store
	Store        *storage.DB
	Book         *addrbook.Book
	Extractor    *contacts.Extractor
	Translator   *i18n.Translator
	FeedServer   *feed.Server
	Refresher    *feed.Refresher
	Orchestrator *sync.Orchestrator
}

// NewApp opens the stores and wires the dependency graph.
func NewApp(opts AppOptions) (*App, error) {
	settingsStore, err := settings.Open(filepath.Join(opts.DataDir, config.SettingsDirName))
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(filepath.Join(opts.DataDir, config.DBFileName))
	if err != nil {
		return nil, err
	}

	translator := i18n.New(opts.Lang)

	book := addrbook.New(addrbook.Config{
		Mode:      opts.Mode,
		LocalPath: opts.VCFPath,
		WebURL:    opts.WebURL,
		WebUser:   opts.WebUser,
	}, addrbook.NewHTTPFetcher())

	clock := contacts.RealClock{}
	extractor := &contacts.Extractor{
		Source: book,
		Clock:  clock,
		Groups: translator,
	}

	port := opts.Port
	if port == "" {
		port = config.DefaultPort
	}
	feedServer := feed.NewServer(port)
	refresher := &feed.Refresher{
		Snapshots: store,
		Settings:  settingsStore,
		Builder: &feed.Builder{
			Clock:    clock,
			Summary:  translator.EventSummary,
			LeadDays: settingsStore.LeadDays(),
		},
		Server: feedServer,
	}

	outbox, err := notify.NewOutbox(opts.DataDir)
	if err != nil {
		return nil, err
	}

	app := &App{
		DataDir:    opts.DataDir,
		Settings:   settingsStore,
		Store:      store,
		Book:       book,
		Extractor:  extractor,
		Translator: translator,
		FeedServer: feedServer,
		Refresher:  refresher,
	}
	app.Orchestrator = &sync.Orchestrator{
		Source:     book,
		Extractor:  extractor,
		Store:      store,
		Settings:   settingsStore,
		Notifier:   outbox,
		Widget:     refresher,
		NotifTitle: translator.NotifTitle,
		NotifBody:  translator.NotifBody,
	}
	return app, nil
}

// Close releases the stores.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			slog.Warn(config.MsgAppStop,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		}
	}
}
