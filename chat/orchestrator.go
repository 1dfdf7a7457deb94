package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"aidbg/config"
	"aidbg/model"
	"aidbg/provider"
	"aidbg/tools"
)

// ErrTurnInFlight is returned by Send while a previous turn is still
// running. The front end surfaces this as the send/cancel toggle.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// ProviderFactory builds the remote call capability for a profile. Swapped
// out in tests.
type ProviderFactory func(profile config.Profile) (provider.Provider, error)

// Turn is the explicit per-turn state: the accumulator with its
// dispatched-span set, and the cooperative cancel flag. Created at send,
// discarded when the turn ends; nothing about a turn is ambient.
type Turn struct {
	acc       *Accumulator
	cancelled atomic.Bool
	done      chan struct{}
}

// Orchestrator glues the transcript, stores, tool executor and provider
// together and drives one turn at a time. Fragment application and event
// delivery happen on the turn goroutine, so everything the sink sees is
// strictly ordered with respect to fragment arrival.
type Orchestrator struct {
	mu   sync.Mutex
	turn *Turn

	transcript  *model.Transcript
	profiles    *config.ProfileStore
	registry    *tools.Registry
	runner      ToolRunner
	newProvider ProviderFactory
	sink        model.EventSink
	log         *zap.Logger

	profileName    string
	requestTimeout time.Duration
}

// Options configures a new Orchestrator. Profiles, Registry, Runner and
// Sink are required; the rest has working defaults.
type Options struct {
	Transcript     *model.Transcript
	Profiles       *config.ProfileStore
	Registry       *tools.Registry
	Runner         ToolRunner
	NewProvider    ProviderFactory
	Sink           model.EventSink
	ProfileName    string
	RequestTimeout time.Duration // 0 = unbounded
	Logger         *zap.Logger
}

func New(opts Options) *Orchestrator {
	if opts.Transcript == nil {
		opts.Transcript = model.NewTranscript("")
	}
	if opts.ProfileName == "" {
		opts.ProfileName = "default"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewProvider == nil {
		opts.NewProvider = func(p config.Profile) (provider.Provider, error) {
			return provider.NewOpenAIProvider(p.BaseURL, p.APIKey, p.Model, p.Temperature)
		}
	}

	return &Orchestrator{
		transcript:     opts.Transcript,
		profiles:       opts.Profiles,
		registry:       opts.Registry,
		runner:         opts.Runner,
		newProvider:    opts.NewProvider,
		sink:           opts.Sink,
		log:            opts.Logger,
		profileName:    opts.ProfileName,
		requestTimeout: opts.RequestTimeout,
	}
}

// Send starts a new turn for userText. It returns ErrTurnInFlight while a
// turn is active and nil for empty input (nothing to do). The turn itself
// runs on its own goroutine; progress arrives through the event sink.
func (o *Orchestrator) Send(userText string) error {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil
	}

	o.mu.Lock()
	if o.turn != nil {
		o.mu.Unlock()
		return ErrTurnInFlight
	}
	turn := &Turn{
		acc:  NewAccumulator(o.runner, o.log),
		done: make(chan struct{}),
	}
	o.turn = turn
	o.mu.Unlock()

	profile, err := o.activeProfile()
	if err != nil {
		o.clearTurn()
		return err
	}

	p, err := o.newProvider(profile)
	if err != nil {
		o.clearTurn()
		return err
	}

	o.transcript.Append(model.Message{Role: model.RoleUser, Content: userText})
	o.transcript.SetSystem(o.renderedSystemPrompt(profile))
	messages := o.transcript.Messages()

	go o.runTurn(turn, p, messages)
	return nil
}

func (o *Orchestrator) runTurn(turn *Turn, p provider.Provider, messages []model.Message) {
	// The slot frees only after the transcript is finalized and TurnEnded
	// has been delivered; a Send accepted after this goroutine's last
	// transcript write therefore never overlaps it. done closes last so
	// Wait covers the whole teardown.
	defer close(turn.done)
	defer o.clearTurn()

	o.sink.Handle(model.TurnStartedEvent{})
	turn.acc.BeginTurn()

	ctx := context.Background()
	if o.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.requestTimeout)
		defer cancel()
	}

	err := p.Chat(ctx, messages, func(delta string) error {
		// Cooperative cancellation: the remote call keeps running, its
		// remaining output is discarded rather than applied.
		if turn.cancelled.Load() {
			return nil
		}
		for _, ev := range turn.acc.OnFragment(ctx, delta) {
			o.sink.Handle(ev)
		}
		return nil
	})

	if err != nil {
		classified := provider.Classify(err)
		o.log.Warn("turn failed", zap.Error(classified))
		o.sink.Handle(model.TurnEndedEvent{Err: classified})
		return
	}

	final := turn.acc.EndTurn()
	if final.Content != "" {
		o.transcript.Append(final)
	}
	o.sink.Handle(model.TurnEndedEvent{Message: final})
}

func (o *Orchestrator) clearTurn() {
	o.mu.Lock()
	o.turn = nil
	o.mu.Unlock()
}

// Cancel flags the active turn, if any. It does not terminate the in-flight
// remote call or a running tool subprocess; both complete and are ignored.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.turn != nil {
		o.turn.cancelled.Store(true)
	}
}

// Busy reports whether a turn is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.turn != nil
}

// Wait blocks until the active turn, if any, has ended. Intended for
// line-oriented front ends and tests.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	turn := o.turn
	o.mu.Unlock()
	if turn != nil {
		<-turn.done
	}
}

// Transcript exposes the conversation history. Callers must not use it
// while a turn is in flight; the turn goroutine owns it until then.
func (o *Orchestrator) Transcript() *model.Transcript {
	return o.transcript
}

// SetProfile switches the active configuration profile for future turns.
func (o *Orchestrator) SetProfile(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profileName = name
}

func (o *Orchestrator) ProfileName() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profileName
}

// ReplaceHistory rebuilds the transcript from human-edited display text,
// prepending the active profile's rendered system prompt.
func (o *Orchestrator) ReplaceHistory(text string) error {
	if o.Busy() {
		return ErrTurnInFlight
	}

	profile, err := o.activeProfile()
	if err != nil {
		return err
	}

	o.transcript.Replace(model.ParseDisplayText(text, o.renderedSystemPrompt(profile)))
	return nil
}

// Clear drops the conversation, keeping a fresh system message when the
// active profile defines one.
func (o *Orchestrator) Clear() error {
	if o.Busy() {
		return ErrTurnInFlight
	}

	profile, err := o.activeProfile()
	if err != nil {
		return err
	}

	o.transcript.Clear(o.renderedSystemPrompt(profile))
	return nil
}

func (o *Orchestrator) activeProfile() (config.Profile, error) {
	name := o.ProfileName()
	p, ok, err := o.profiles.Get(name)
	if err != nil {
		return config.Profile{}, err
	}
	if !ok {
		return config.Profile{}, errors.New("profile not found: " + name)
	}
	return p, nil
}

// renderedSystemPrompt substitutes the current tool catalog into the
// profile's template. Re-rendered at every send so registry edits take
// effect on the next turn.
func (o *Orchestrator) renderedSystemPrompt(profile config.Profile) string {
	defs, err := o.registry.LoadAll()
	if err != nil {
		o.log.Warn("tool registry unavailable", zap.Error(err))
		defs = nil
	}
	return tools.RenderSystemPrompt(profile.SystemPrompt, defs)
}
