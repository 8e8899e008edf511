package telegram

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"

	"github.com/noon-labs/namecycler/common"
)

// BusinessConnectionHandler receives business connection changes.
type BusinessConnectionHandler interface {
	HandleBusinessConnection(conn BusinessConnection)
}

// UpdateSource is the long-poll half of the Bot API.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
}

// Poller drives the update loop. Handlers run on the poller goroutine, one
// update at a time.
type Poller struct {
	source    UpdateSource
	handler   BusinessConnectionHandler
	reconnect common.ReconnectConfig
	logger    common.Logger
	offset    int64
}

func NewPoller(source UpdateSource, handler BusinessConnectionHandler, logger common.Logger) *Poller {
	return &Poller{
		source:    source,
		handler:   handler,
		reconnect: common.DefaultReconnectConfig(),
		logger:    common.OrNop(logger),
	}
}

// SetReconnectConfig overrides the delays used after failed polls.
func (p *Poller) SetReconnectConfig(cfg common.ReconnectConfig) {
	p.reconnect = cfg
}

// Offset is the next update id the poller will ask for.
func (p *Poller) Offset() int64 {
	return p.offset
}

// Run polls until ctx is cancelled. It only returns nil.
func (p *Poller) Run(ctx context.Context) error {
	bo := newPollBackoff(p.reconnect)
	p.logger.Info("Polling for updates")

	for {
		if ctx.Err() != nil {
			p.logger.Info("Polling stopped", "reason", ctx.Err())
			return nil
		}

		updates, err := p.source.GetUpdates(ctx, p.offset)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				continue
			}

			delay := bo.NextBackOff()
			p.logger.Error("Polling failed", "error", err, "retry_in", delay)
			_ = common.Sleep(ctx, delay)
			continue
		}
		bo.Reset()

		for _, u := range updates {
			p.dispatch(u)
		}
	}
}

// newPollBackoff builds a deterministic exponential backoff from cfg.
func newPollBackoff(cfg common.ReconnectConfig) *backoff.ExponentialBackOff {
	def := common.DefaultReconnectConfig()
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = def.Multiplier
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialBackoff
	b.MaxInterval = cfg.MaxBackoff
	b.Multiplier = cfg.Multiplier
	b.RandomizationFactor = 0
	b.Reset()
	return b
}

func (p *Poller) dispatch(u Update) {
	if u.UpdateID >= p.offset {
		p.offset = u.UpdateID + 1
	}

	if u.BusinessConnection == nil {
		p.logger.Debug("Ignoring update", "updateId", u.UpdateID)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Update handler panic recovered", "updateId", u.UpdateID, "panic", r)
		}
	}()
	p.handler.HandleBusinessConnection(*u.BusinessConnection)
}
