package main

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/config"
	"github.com/noon-labs/namecycler/monitor"
	"github.com/noon-labs/namecycler/rotator"
	"github.com/noon-labs/namecycler/telegram"
)

const drainTimeout = 5 * time.Second

type syncer interface {
	Sync() error
}

// app owns every long-lived component of the process.
type app struct {
	cfg    *config.Config
	logger common.Logger

	client  *telegram.Client
	rotator *rotator.Rotator
	poller  *telegram.Poller
	feed    *monitor.Feed
	health  *monitor.Health
	server  *monitor.Server

	drainOnce sync.Once
}

func newApp(ctx context.Context, cfg *config.Config, logger common.Logger) (*app, error) {
	logger = common.OrNop(logger)

	client, err := telegram.NewClient(cfg.Bot.Token,
		telegram.WithBaseURL(cfg.Bot.APIURL),
		telegram.WithPollTimeout(cfg.Bot.PollTimeout),
		telegram.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	metrics := monitor.NewMetrics()
	feed := monitor.NewFeed(logger)
	health := monitor.NewHealth()

	rot, err := rotator.New(ctx, rotator.NewSetter(client, client, logger),
		rotator.WithLogger(logger),
		rotator.WithBaseName(cfg.Names.Base),
		rotator.WithObserver(monitor.Multi{metrics, feed, health}),
	)
	if err != nil {
		client.Close()
		return nil, err
	}

	server := monitor.NewServer(monitor.ServerConfig{
		HTTPAddr: cfg.Status.HTTPAddr,
		GRPCAddr: cfg.Status.GRPCAddr,
	}, metrics, feed, health, rot, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		rotator: rot,
		poller:  telegram.NewPoller(client, rot, logger),
		feed:    feed,
		health:  health,
		server:  server,
	}, nil
}

// run blocks until ctx is cancelled or a component fails. The shutdown
// drain always runs before it returns.
func (a *app) run(ctx context.Context) error {
	defer a.shutdown()

	me, err := a.client.GetMe(ctx)
	if err != nil {
		return common.NewNamecyclerError("bot identity check failed", common.ErrTypeAPI, err)
	}
	a.logger.Info("Bot authorized",
		"username", me.Username,
		"token", a.client.MaskedToken(),
		"base_name", a.cfg.Names.Base,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.poller.Run(gctx)
	})
	g.Go(func() error {
		return a.server.Run(gctx)
	})

	return g.Wait()
}

// shutdown stops the rename loop and releases transport resources. Only
// the first call does anything.
func (a *app) shutdown() {
	a.drainOnce.Do(func() {
		a.logger.Info("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := a.rotator.Shutdown(ctx); err != nil {
			a.logger.Warn("Rename loop did not stop in time", "error", err)
		}

		a.feed.Close()
		a.health.Shutdown()
		a.client.Close()
		a.logger.Info("Shutdown complete")

		if s, ok := a.logger.(syncer); ok {
			_ = s.Sync()
		}
	})
}
