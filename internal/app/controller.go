package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"guess-the-app/internal/domain"
)

// MaxNameLength is the longest accepted player name, in characters.
const MaxNameLength = 20

// Notifier receives fire-and-forget session events.
type Notifier interface {
	Notify(event domain.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event domain.Event)

func (f NotifierFunc) Notify(event domain.Event) { f(event) }

// Option configures a Controller.
type Option func(*Controller)

// WithClock swaps the tick source used by round timers.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRand makes shuffling deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithRoundBudget sets the ticks per question and the tick length. Zero
// values keep the defaults.
func WithRoundBudget(ticks int, interval time.Duration) Option {
	return func(c *Controller) {
		if ticks > 0 {
			c.budget = ticks
		}
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithNotifier registers a permanent listener.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.addSubscriber(n) }
}

// WithLogger sets the structured logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// Controller is the quiz state machine for one player. All state changes
// happen under mu; the round timer's goroutine is the only other caller.
type Controller struct {
	id       string
	bank     []domain.Question
	prefs    *Preferences
	ledger   *Ledger
	clock    Clock
	rng      *rand.Rand
	budget   int
	interval time.Duration
	log      logrus.FieldLogger

	subMu       sync.Mutex
	subscribers map[int]Notifier
	nextSub     int

	mu          sync.Mutex
	phase       domain.Phase
	name        string
	sound       bool
	questions   []domain.Question
	index       int
	score       int
	lastCorrect bool
	remaining   int
	round       uint64
	resolved    bool
	timer       *RoundTimer
	summary     *domain.Summary
	outbox      []domain.Event
	flushing    bool
}

// NewController loads persisted preferences and positions the session at
// NameEntry, or at Start when a player name is already known.
func NewController(ctx context.Context, bank domain.Bank, prefs *Preferences, opts ...Option) *Controller {
	c := &Controller{
		id:          uuid.NewString(),
		bank:        bank.Questions,
		prefs:       prefs,
		clock:       SystemClock{},
		budget:      DefaultRoundBudget,
		interval:    DefaultTickInterval,
		log:         logrus.StandardLogger(),
		subscribers: make(map[int]Notifier),
		phase:       domain.PhaseNameEntry,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("session_id", c.id)

	c.ledger = NewLedger(ctx, prefs)
	c.sound = prefs.SoundEnabled(ctx)
	if name, ok := prefs.PlayerName(ctx); ok {
		c.name = name
		c.phase = domain.PhaseStart
	}
	c.remaining = c.budget
	return c
}

// ID identifies the session.
func (c *Controller) ID() string {
	return c.id
}

// Subscribe registers a listener until the returned cancel func is called.
func (c *Controller) Subscribe(n Notifier) func() {
	id := c.addSubscriber(n)
	return func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
}

func (c *Controller) addSubscriber(n Notifier) int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = n
	return id
}

// SubmitName confirms the player name and moves NameEntry → Start.
func (c *Controller) SubmitName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return domain.ErrInvalidName
	}

	c.mu.Lock()
	if c.phase != domain.PhaseNameEntry {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	c.name = name
	c.prefs.SetPlayerName(ctx, name)
	events := []domain.Event{c.eventLocked(domain.EventNameConfirmed)}
	events = append(events, c.setPhaseLocked(domain.PhaseStart))
	c.queueLocked(events)
	c.mu.Unlock()

	c.log.WithField("player", name).Info("player name confirmed")
	c.flush()
	return nil
}

// Start shuffles a fresh question set and opens the first round. A bank with
// no questions is refused with ErrInvalidBank.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.phase != domain.PhaseStart {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	if len(c.bank) == 0 {
		c.mu.Unlock()
		return domain.ErrInvalidBank
	}
	c.questions = BuildSession(c.rng, c.bank)
	c.index = 0
	c.score = 0
	c.summary = nil
	events := []domain.Event{c.eventLocked(domain.EventSessionStarted)}
	events = append(events, c.enterQuestionLocked()...)
	c.queueLocked(events)
	c.mu.Unlock()

	c.log.WithField("questions", len(c.bank)).Info("session started")
	c.flush()
	return nil
}

// SubmitAnswer resolves the current round. Only the first resolution of a
// round counts; later calls, including ones racing a timeout, return false.
func (c *Controller) SubmitAnswer(correct bool) bool {
	c.mu.Lock()
	if c.phase != domain.PhaseQuestion || c.resolved {
		c.mu.Unlock()
		return false
	}
	events := c.resolveLocked(correct, false)
	c.queueLocked(events)
	c.mu.Unlock()

	c.flush()
	return true
}

// Answer resolves the current round with the option shown under optionID.
func (c *Controller) Answer(optionID int) (bool, error) {
	c.mu.Lock()
	switch {
	case c.phase == domain.PhaseResult:
		c.mu.Unlock()
		return false, nil
	case c.phase != domain.PhaseQuestion:
		c.mu.Unlock()
		return false, domain.ErrIllegalTransition
	case c.resolved:
		c.mu.Unlock()
		return false, nil
	}

	var chosen *domain.Option
	for i := range c.questions[c.index].Options {
		if c.questions[c.index].Options[i].ID == optionID {
			chosen = &c.questions[c.index].Options[i]
			break
		}
	}
	if chosen == nil {
		c.mu.Unlock()
		return false, domain.ErrOptionNotFound
	}
	events := c.resolveLocked(chosen.Correct, false)
	c.queueLocked(events)
	c.mu.Unlock()

	c.flush()
	return true, nil
}

// Advance moves on after a correct answer: to the next question, or to
// ThankYou after recording the best score when the last one was answered.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != domain.PhaseResult || !c.lastCorrect {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}

	var events []domain.Event
	if c.index < len(c.questions)-1 {
		c.index++
		events = append(events, c.enterQuestionLocked()...)
		c.queueLocked(events)
		c.mu.Unlock()
		c.flush()
		return nil
	}

	total := len(c.questions)
	_, updated, err := c.ledger.RecordBest(ctx, c.score, total)
	if err != nil {
		c.log.WithError(err).Error("best score not recorded")
	}
	summary := Summarize(c.score, total, updated)
	c.summary = &summary
	events = append(events, c.setPhaseLocked(domain.PhaseThankYou))
	events = append(events, c.eventLocked(domain.EventSessionCompleted))
	score := c.score
	c.queueLocked(events)
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"score":    score,
		"total":    total,
		"new_best": updated,
	}).Info("session completed")
	c.flush()
	return nil
}

// Retry reopens the same question after an incorrect answer.
func (c *Controller) Retry() error {
	c.mu.Lock()
	if c.phase != domain.PhaseResult || c.lastCorrect {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	events := c.enterQuestionLocked()
	c.queueLocked(events)
	c.mu.Unlock()

	c.flush()
	return nil
}

// Restart returns to Start keeping the player name and best score.
func (c *Controller) Restart() error {
	c.mu.Lock()
	if c.phase != domain.PhaseThankYou {
		c.mu.Unlock()
		return domain.ErrIllegalTransition
	}
	c.index = 0
	c.score = 0
	c.questions = nil
	c.summary = nil
	c.lastCorrect = false
	c.remaining = c.budget
	events := []domain.Event{c.setPhaseLocked(domain.PhaseStart)}
	c.queueLocked(events)
	c.mu.Unlock()

	c.flush()
	return nil
}

// ToggleSound flips and persists the sound preference.
func (c *Controller) ToggleSound(ctx context.Context) bool {
	c.mu.Lock()
	c.sound = !c.sound
	enabled := c.sound
	c.prefs.SetSoundEnabled(ctx, enabled)
	events := []domain.Event{c.eventLocked(domain.EventSoundToggled)}
	c.queueLocked(events)
	c.mu.Unlock()

	c.flush()
	return enabled
}

// Close stops any running round timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

// Snapshot returns what the current phase needs to render.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	best, hasBest := c.ledger.Best()
	snap := domain.Snapshot{
		SessionID:      c.id,
		Phase:          c.phase,
		PlayerName:     c.name,
		TotalQuestions: len(c.bank),
		Remaining:      c.remaining,
		Score:          c.score,
		BestScore:      best,
		HasBestScore:   hasBest,
		LastCorrect:    c.lastCorrect,
		SoundEnabled:   c.sound,
	}
	if c.phase == domain.PhaseQuestion || c.phase == domain.PhaseResult {
		q := c.questions[c.index]
		snap.QuestionNumber = c.index + 1
		snap.Prompt = q.Prompt
		snap.Theme = q.Theme
	}
	if c.phase == domain.PhaseQuestion {
		q := c.questions[c.index]
		snap.Options = make([]domain.OptionView, len(q.Options))
		for i, opt := range q.Options {
			snap.Options[i] = domain.OptionView{ID: opt.ID, Text: opt.Text}
		}
	}
	if c.summary != nil {
		summary := *c.summary
		snap.Summary = &summary
	}
	return snap
}

// enterQuestionLocked opens a round and publishes the full budget as its
// first tick.
func (c *Controller) enterQuestionLocked() []domain.Event {
	c.stopTimerLocked()
	c.round++
	c.resolved = false

	gen := c.round
	timer := NewRoundTimer(c.clock, c.budget, c.interval)
	c.timer = timer
	c.remaining = timer.Budget()
	events := []domain.Event{
		c.setPhaseLocked(domain.PhaseQuestion),
		c.eventLocked(domain.EventTick),
	}
	timer.Start(func(remaining int) bool {
		return c.onTick(gen, remaining)
	})
	return events
}

// onTick runs on the timer goroutine. It reports whether the timer should
// keep ticking.
func (c *Controller) onTick(gen uint64, remaining int) bool {
	c.mu.Lock()
	if gen != c.round || c.resolved || c.phase != domain.PhaseQuestion {
		c.mu.Unlock()
		return false
	}
	c.remaining = remaining
	number := c.index + 1
	events := []domain.Event{c.eventLocked(domain.EventTick)}
	if remaining <= 0 {
		events = append(events, c.resolveLocked(false, true)...)
	}
	c.queueLocked(events)
	c.mu.Unlock()

	if remaining <= 0 {
		c.log.WithField("question", number).Info("round timed out")
	}
	c.flush()
	return remaining > 0
}

func (c *Controller) resolveLocked(correct, timedOut bool) []domain.Event {
	c.resolved = true
	c.stopTimerLocked()
	c.lastCorrect = correct
	kind := domain.EventAnsweredIncorrectly
	if correct {
		c.score++
		kind = domain.EventAnsweredCorrectly
	}
	answered := c.eventLocked(kind)
	answered.TimedOut = timedOut
	changed := c.setPhaseLocked(domain.PhaseResult)
	changed.TimedOut = timedOut
	return []domain.Event{answered, changed}
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) setPhaseLocked(phase domain.Phase) domain.Event {
	c.phase = phase
	return c.eventLocked(domain.EventPhaseChanged)
}

func (c *Controller) eventLocked(kind domain.EventKind) domain.Event {
	return domain.Event{
		Kind:         kind,
		SessionID:    c.id,
		Phase:        c.phase,
		Score:        c.score,
		Remaining:    c.remaining,
		SoundEnabled: c.sound,
	}
}

// queueLocked appends events to the outbox in the order state changed.
func (c *Controller) queueLocked(events []domain.Event) {
	c.outbox = append(c.outbox, events...)
}

// flush delivers queued events outside the state lock. One goroutine drains
// the outbox at a time, so listeners see events in state order; a call made
// while another goroutine is draining leaves its events to that goroutine.
// A panicking listener is logged and skipped.
func (c *Controller) flush() {
	c.mu.Lock()
	if c.flushing {
		c.mu.Unlock()
		return
	}
	c.flushing = true
	for len(c.outbox) > 0 {
		batch := c.outbox
		c.outbox = nil
		c.mu.Unlock()
		c.deliver(batch)
		c.mu.Lock()
	}
	c.flushing = false
	c.mu.Unlock()
}

func (c *Controller) deliver(events []domain.Event) {
	c.subMu.Lock()
	listeners := make([]Notifier, 0, len(c.subscribers))
	for i := 0; i < c.nextSub; i++ {
		if n, ok := c.subscribers[i]; ok {
			listeners = append(listeners, n)
		}
	}
	c.subMu.Unlock()

	for _, event := range events {
		for _, n := range listeners {
			c.safeNotify(n, event)
		}
	}
}

func (c *Controller) safeNotify(n Notifier, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("event", event.Kind).Errorf("notifier panicked: %v", r)
		}
	}()
	n.Notify(event)
}
