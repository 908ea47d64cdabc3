// Package pruner implements the session-boundary collaborator contemplated
// by the matching engine: a cooperatively-cancellable background goroutine
// that periodically removes every GoodForDay order from a book. It is kept
// separate from internal/book so the pruner's goroutine lifecycle is never
// entangled with the book's own lifecycle.
package pruner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Book is the narrow surface the pruner needs: a single callable that
// cancels every GoodForDay order.
type Book interface {
	PruneGFD()
}

// Pruner runs PruneGFD on book every interval until Stop is called.
type Pruner struct {
	book     Book
	interval time.Duration
	log      zerolog.Logger

	t *tomb.Tomb
}

// New builds a Pruner that will call book.PruneGFD() once per interval once
// Start is called.
func New(book Book, interval time.Duration) *Pruner {
	return &Pruner{
		book:     book,
		interval: interval,
		log:      log.Logger,
	}
}

// Start launches the pruner's goroutine. ctx bounds the pruner's lifetime
// in addition to Stop: cancelling ctx has the same effect as calling Stop.
func (p *Pruner) Start(ctx context.Context) {
	p.t, _ = tomb.WithContext(ctx)
	p.t.Go(p.run)
}

// Stop signals the pruner to exit and blocks until its goroutine has
// returned. Callers tearing down a Book should call Stop before discarding
// it, so the pruner never observes a torn-down book mid-cycle.
func (p *Pruner) Stop() error {
	p.t.Kill(nil)
	err := p.t.Wait()
	if err == context.Canceled || err == context.DeadlineExceeded {
		// The tomb records ctx's error when ctx ends the pruner; that is
		// an ordinary shutdown, the same as Stop.
		return nil
	}
	return err
}

func (p *Pruner) run() error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info().Dur("interval", p.interval).Msg("session pruner starting")
	for {
		select {
		case <-p.t.Dying():
			p.log.Info().Msg("session pruner stopping")
			return nil
		case <-ticker.C:
			p.log.Debug().Msg("pruning good-for-day orders")
			p.book.PruneGFD()
		}
	}
}
