package bot

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"bigtwo/internal/event"
	"bigtwo/internal/game"
)

// TriggerConfig bounds bot reaction time.
type TriggerConfig struct {
	// ThinkMin/ThinkMax bound the jittered delay before a bot acts, so bot
	// moves read as deliberate rather than instantaneous.
	ThinkMin time.Duration
	ThinkMax time.Duration
	// DecideTimeout is the hard budget for a Brain decision; past it the
	// bot is forced to pass.
	DecideTimeout time.Duration
}

// DefaultTriggerConfig matches the documented bounds: 100-500ms think time,
// 5s decision budget.
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		ThinkMin:      100 * time.Millisecond,
		ThinkMax:      500 * time.Millisecond,
		DecideTimeout: 5 * time.Second,
	}
}

// Trigger is the dispatcher handler that turns turn-change events into
// synthetic bot moves.
type Trigger struct {
	registry *Registry
	games    *game.Store
	bus      *event.Bus
	cfg      TriggerConfig
	log      *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewTrigger wires the bot trigger over the shared stores and bus.
func NewTrigger(registry *Registry, games *game.Store, bus *event.Bus, cfg TriggerConfig, log *zap.Logger) *Trigger {
	return &Trigger{
		registry: registry,
		games:    games,
		bus:      bus,
		cfg:      cfg,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name implements event.Handler.
func (t *Trigger) Name() string { return "bot-trigger" }

// Handle reacts to events that can put a bot on turn.
func (t *Trigger) Handle(ctx context.Context, topic string, ev event.Event) error {
	var next string
	switch p := ev.Payload.(type) {
	case event.GameStartedPayload:
		next = p.Snapshot.Turn
	case event.TurnChangedPayload:
		next = p.ID
	default:
		return nil
	}

	brain, ok := t.registry.Brain(topic, next)
	if !ok {
		return nil
	}

	select {
	case <-time.After(t.thinkDelay()):
	case <-ctx.Done():
		return ctx.Err()
	}

	// A human may have acted while the bot was thinking; the game may also
	// be gone entirely. Both are expected races, not failures.
	g, ok := t.games.Get(topic)
	if !ok {
		t.log.Debug("bot woke to a deleted game", zap.String("room", topic))
		return nil
	}
	snap := g.Snapshot()
	if !snap.OnTurn(next) {
		t.log.Debug("bot lost the turn while thinking",
			zap.String("room", topic), zap.String("bot", next))
		return nil
	}

	move := t.decide(ctx, brain, snap, next)
	t.bus.Publish(topic, event.Event{
		Kind:    event.TryPlayMove,
		Payload: event.TryPlayMovePayload{ID: next, Cards: move.Cards},
	})
	return nil
}

// decide runs the brain under the hard decision budget. On timeout or error
// the bot degrades to a forced pass rather than stalling the game.
func (t *Trigger) decide(ctx context.Context, brain Brain, snap *game.Snapshot, botID string) Move {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.DecideTimeout)
	defer cancel()

	type outcome struct {
		move Move
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		m, err := brain.Decide(snap, botID)
		done <- outcome{move: m, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			t.log.Warn("bot decision failed, passing",
				zap.String("bot", botID), zap.Error(out.err))
			return Move{Pass: true}
		}
		return out.move
	case <-ctx.Done():
		t.log.Warn("bot decision timed out, forcing pass", zap.String("bot", botID))
		return Move{Pass: true}
	}
}

func (t *Trigger) thinkDelay() time.Duration {
	t.rngMu.Lock()
	defer t.rngMu.Unlock()
	spread := t.cfg.ThinkMax - t.cfg.ThinkMin
	if spread <= 0 {
		return t.cfg.ThinkMin
	}
	return t.cfg.ThinkMin + time.Duration(t.rng.Int63n(int64(spread)))
}
