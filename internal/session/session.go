// Package session runs one exam: it owns the question position, the
// per-question countdown, narration, answer collection and the final
// scoring pass.
//
// Every state change goes through the Controller's mutex. The timer's
// countdown, narration completion and region resolution run on their own
// goroutines and report back through entry points that re-check, under the
// lock, that they still belong to the current question.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/narration"
	"github.com/kavin/cogniquest/internal/navigator"
	"github.com/kavin/cogniquest/internal/questionbank"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/scoring"
	"github.com/kavin/cogniquest/internal/store"
	"github.com/kavin/cogniquest/internal/timer"
)

// Per-question duration limits.
const (
	DefaultDuration = 60 * time.Second
	MinDuration     = 10 * time.Second
	MaxDuration     = 120 * time.Second
	DurationStep    = 5 * time.Second
)

// DefaultRegionTimeout bounds region resolution.
const DefaultRegionTimeout = 3 * time.Second

// Config holds the exam settings.
type Config struct {
	// Duration is the countdown for each question.
	Duration time.Duration

	// HighSchool is the subject's education flag.
	HighSchool bool

	Bands scoring.Bands

	// RegionTimeout bounds how long the finish step waits for the region.
	RegionTimeout time.Duration

	// NarrationDelay is the pause after each narrated utterance.
	NarrationDelay time.Duration

	// Now returns the wall clock. Scoring uses it for date questions.
	Now func() time.Time
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Duration:       DefaultDuration,
		HighSchool:     true,
		Bands:          scoring.DefaultBands(),
		RegionTimeout:  DefaultRegionTimeout,
		NarrationDelay: narration.PostUtteranceDelay,
		Now:            time.Now,
	}
}

// ClampDuration rounds d to the nearest step and keeps it within limits.
func ClampDuration(d time.Duration) time.Duration {
	d = (d + DurationStep/2).Truncate(DurationStep)
	return min(max(d, MinDuration), MaxDuration)
}

// Deps are the collaborators a Controller drives. Loader is required; the
// rest fall back to inert implementations.
type Deps struct {
	Loader   questionbank.Loader
	Narrator narration.Narrator
	Resolver region.Resolver
	Clock    timer.Clock
	Events   store.EventRepo
	Logger   *slog.Logger
}

// Controller coordinates a single exam.
type Controller struct {
	cfg      Config
	loader   questionbank.Loader
	narrator narration.Narrator
	resolver region.Resolver
	events   store.EventRepo
	log      *slog.Logger

	mu        sync.Mutex
	id        string
	questions []exam.Question
	loaded    bool
	loadErr   error
	started   bool
	closed    bool
	nav       navigator.Navigator
	tm        *timer.Timer
	epoch     uint64
	answers   exam.Answers

	script    []string
	utterance int
	token     uint64

	region     *region.Info
	regionDone chan struct{}

	startedAt time.Time
	outcome   *Outcome
	done      chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	subs   []*subscriber
}

// New creates a controller. Zero-valued config fields take their defaults.
func New(cfg Config, deps Deps) *Controller {
	def := DefaultConfig()
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.Bands == (scoring.Bands{}) {
		cfg.Bands = def.Bands
	}
	if cfg.RegionTimeout <= 0 {
		cfg.RegionTimeout = def.RegionTimeout
	}
	if cfg.NarrationDelay < 0 {
		cfg.NarrationDelay = 0
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if deps.Narrator == nil {
		deps.Narrator = narration.NewPlayer(narration.SilentSpeaker{})
	}
	if deps.Resolver == nil {
		deps.Resolver = region.StaticResolver{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:        cfg,
		loader:     deps.Loader,
		narrator:   deps.Narrator,
		resolver:   deps.Resolver,
		events:     deps.Events,
		id:         uuid.NewString(),
		answers:    make(exam.Answers),
		utterance:  -1,
		regionDone: make(chan struct{}),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
	c.log = deps.Logger.With("session", c.id)
	c.tm = timer.New(deps.Clock, timer.Callbacks{
		OnTick:   c.onTick,
		OnExpire: c.onExpire,
	})
	return c
}

// ID returns the session id used in the journal.
func (c *Controller) ID() string { return c.id }

// Start loads the questions and enters the first one. A load failure is
// returned wrapped in ErrLoad and leaves the controller unstarted.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.started:
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.mu.Unlock()

	questions, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}
	if err != nil {
		c.loadErr = fmt.Errorf("%w: %w", ErrLoad, err)
		c.log.Error("question load failed", "error", err)
		c.journalSession(store.ActionLoadFailed, -1, err.Error())
		c.publishLocked(Event{Kind: EventLoadFailed, Err: c.loadErr})
		return c.loadErr
	}

	c.questions = questions
	c.loaded = true
	c.loadErr = nil
	c.started = true
	c.startedAt = c.cfg.Now()
	c.nav.Start(len(questions))

	c.log.Info("exam started", "questions", len(questions), "duration", c.cfg.Duration, "high_school", c.cfg.HighSchool)
	c.journalSession(store.ActionStarted, -1, fmt.Sprintf("questions=%d duration=%s", len(questions), c.cfg.Duration))

	go c.resolveRegion()
	c.enterQuestionLocked(EventStarted)
	return nil
}

func (c *Controller) load(ctx context.Context) ([]exam.Question, error) {
	if c.loader == nil {
		return nil, fmt.Errorf("no question loader configured")
	}
	questions, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, questionbank.ErrEmptyBank
	}
	return questions, nil
}

func (c *Controller) resolveRegion() {
	defer close(c.regionDone)

	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.RegionTimeout)
	defer cancel()

	info, err := c.resolver.Resolve(ctx)
	if err != nil {
		c.log.Warn("region unavailable, region questions will be unscored", "error", err)
		return
	}
	if info == nil {
		c.log.Info("region unknown")
		return
	}

	c.mu.Lock()
	c.region = info
	c.mu.Unlock()
	c.log.Info("region resolved", "region", info.Abbreviation)
}

// Next leaves the current question. On the last question it finishes the
// exam and scoring starts in the background; wait on Done for the result.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	c.advanceLocked()
	return nil
}

// Back returns to the previous question with a fresh countdown.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	if !c.nav.Back() {
		return ErrAtFirstQuestion
	}
	c.enterQuestionLocked(EventBack)
	return nil
}

// SetNarrating forces the narrating phase on or off. Turning it off resumes
// the countdown and drops any completion still pending from the current
// narration.
func (c *Controller) SetNarrating(narrating bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}

	wasNarrating := c.nav.Phase() == navigator.Narrating
	c.nav.SetNarrating(narrating)
	switch {
	case narrating && !wasNarrating:
		c.tm.Pause()
	case !narrating && wasNarrating:
		c.token++
		c.narrator.Stop()
		c.utterance = -1
		if epoch, ok := c.tm.Resume(); ok {
			c.epoch = epoch
		}
		c.publishLocked(c.eventLocked(EventNarrationFinished))
	}
	return nil
}

// UpdateAnswer records a for question id, replacing any earlier answer. The
// answer variant must belong to the question's type.
func (c *Controller) UpdateAnswer(id int, a exam.Answer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	return c.updateAnswerLocked(id, a)
}

// SubmitDrawing records the clock drawing for the current question and
// advances.
func (c *Controller) SubmitDrawing(a exam.ClockDrawingAnswer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}

	q := c.questions[c.nav.Index()]
	if err := c.updateAnswerLocked(q.ID, a); err != nil {
		return err
	}
	c.advanceLocked()
	return nil
}

func (c *Controller) updateAnswerLocked(id int, a exam.Answer) error {
	q, ok := c.questionLocked(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
	}
	if !q.Type.AcceptsAnswer() {
		return fmt.Errorf("%w: question %d (%s)", ErrNoAnswerAccepted, id, q.Type)
	}
	if a == nil || a.QuestionType() != q.Type {
		return fmt.Errorf("%w: question %d is %s", ErrAnswerMismatch, id, q.Type)
	}

	c.answers[id] = a
	c.journalAnswer(q, a)
	return nil
}

// OnUtterance notes that narration has begun the i-th utterance. Wire it
// into the narrator's utterance hook.
func (c *Controller) OnUtterance(i int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nav.Phase() != navigator.Narrating {
		return
	}
	c.utterance = i
	e := c.eventLocked(EventUtterance)
	e.Utterance = text
	c.publishLocked(e)
}

// Done is closed once the exam has been scored.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Outcome returns the result once scoring has completed.
func (c *Controller) Outcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID: c.id,
		Loaded:    c.loaded,
		LoadErr:   c.loadErr,
		Started:   c.started,
		Index:     c.nav.Index(),
		Total:     c.nav.Total(),
		Phase:     c.nav.Phase(),
		Direction: c.nav.Direction(),
		Remaining: c.tm.Remaining(),
		Duration:  c.cfg.Duration,
		Answers:   c.answers.Clone(),
		Script:    append([]string(nil), c.script...),
		Utterance: c.utterance,
	}
	if c.started {
		s.Question = c.questions[c.nav.Index()]
	}
	if c.outcome != nil {
		o := *c.outcome
		s.Outcome = &o
	}
	return s
}

// Close stops the countdown and narration and ends every subscription. An
// exam closed before finishing is journaled as abandoned.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	c.tm.Stop()
	c.token++
	c.narrator.Stop()
	if c.started && !c.nav.Finished() {
		c.journalSession(store.ActionAbandoned, c.nav.Index(), "")
		c.log.Info("exam abandoned", "index", c.nav.Index())
	}
	c.cancel()

	for _, s := range c.subs {
		close(s.ch)
	}
	c.subs = nil
}

func (c *Controller) activeLocked() error {
	switch {
	case c.closed:
		return ErrClosed
	case !c.started:
		return ErrNotStarted
	case c.nav.Finished():
		return ErrFinished
	}
	return nil
}

func (c *Controller) questionLocked(id int) (exam.Question, bool) {
	for _, q := range c.questions {
		if q.ID == id {
			return q, true
		}
	}
	return exam.Question{}, false
}

func (c *Controller) advanceLocked() {
	if c.nav.Next() == navigator.Done {
		c.finishLocked()
		return
	}
	c.enterQuestionLocked(EventAdvanced)
}

// enterQuestionLocked cancels whatever the previous question left running,
// starts a fresh countdown and, for narrated questions, starts narration
// with the countdown paused.
func (c *Controller) enterQuestionLocked(kind EventKind) {
	c.token++
	c.narrator.Stop()
	c.utterance = -1
	c.script = nil

	q := c.questions[c.nav.Index()]
	c.journalSession(store.ActionQuestionEntered, c.nav.Index(), c.nav.Direction().String())

	c.epoch = c.tm.Start(c.cfg.Duration)
	c.journalTimer(q.ID, "started")
	c.publishLocked(c.eventLocked(kind))

	if !q.Type.Narrated() {
		c.nav.SetNarrating(false)
		return
	}

	script := narration.Script(q)
	c.script = script
	c.nav.SetNarrating(true)
	c.tm.Pause()
	c.journalTimer(q.ID, "paused")
	c.journalNarration(q.ID, "started", c.token, len(script))
	c.publishLocked(c.eventLocked(EventNarrationStarted))

	token := c.token
	c.narrator.Speak(c.ctx, script, c.cfg.NarrationDelay, func() { c.narrationDone(token) })
}

func (c *Controller) narrationDone(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	qid := 0
	if c.started {
		qid = c.questions[c.nav.Index()].ID
	}
	if c.closed || token != c.token || c.nav.Phase() != navigator.Narrating {
		c.journalNarration(qid, "stale", token, 0)
		return
	}

	c.nav.SetNarrating(false)
	c.utterance = -1
	if epoch, ok := c.tm.Resume(); ok {
		c.epoch = epoch
		c.journalTimer(qid, "resumed")
	}
	c.journalNarration(qid, "finished", token, len(c.script))
	c.publishLocked(c.eventLocked(EventNarrationFinished))
}

func (c *Controller) onTick(epoch uint64, remaining time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch || c.nav.Finished() {
		return
	}
	e := c.eventLocked(EventTick)
	e.Remaining = remaining
	c.publishLocked(e)
}

func (c *Controller) onExpire(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch || c.nav.Finished() {
		return
	}
	c.journalTimer(c.questions[c.nav.Index()].ID, "expired")
	c.advanceLocked()
}

// finishLocked stops everything tied to the last question and scores in the
// background once the region is known or its timeout has passed.
func (c *Controller) finishLocked() {
	c.tm.Stop()
	c.token++
	c.narrator.Stop()
	c.utterance = -1
	c.script = nil

	c.journalSession(store.ActionFinished, c.nav.Index(), "")
	c.publishLocked(c.eventLocked(EventFinishing))

	finishedAt := c.cfg.Now()
	go c.score(finishedAt)
}

func (c *Controller) score(finishedAt time.Time) {
	wait := time.NewTimer(c.cfg.RegionTimeout)
	select {
	case <-c.regionDone:
	case <-wait.C:
		c.log.Warn("region resolution timed out, scoring without it")
	}
	wait.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	in := scoring.Input{
		Questions:  c.questions,
		Answers:    c.answers.Clone(),
		HighSchool: c.cfg.HighSchool,
		Region:     c.region,
		Now:        finishedAt,
	}
	res := scoring.Score(in)
	o := &Outcome{
		SessionID:  c.id,
		Questions:  c.questions,
		Answers:    in.Answers,
		Score:      res,
		Details:    scoring.Explain(in),
		Band:       c.cfg.Bands.Interpret(res.Total, c.cfg.HighSchool),
		HighSchool: c.cfg.HighSchool,
		Region:     c.region,
		MaxTotal:   exam.MaxTotal(c.questions),
		StartedAt:  c.startedAt,
		FinishedAt: finishedAt,
	}
	c.outcome = o

	c.log.Info("exam scored", "total", res.Total, "max", o.MaxTotal, "band", string(o.Band), "unscored", len(res.Unscored))
	c.publishLocked(Event{Kind: EventFinished, Index: c.nav.Index()})
	close(c.done)
}

func (c *Controller) eventLocked(kind EventKind) Event {
	e := Event{
		Kind:      kind,
		Index:     c.nav.Index(),
		Direction: c.nav.Direction(),
		Remaining: c.tm.Remaining(),
	}
	if c.started {
		e.QuestionID = c.questions[c.nav.Index()].ID
	}
	return e
}

// Journal writes are best effort. A failing store never interrupts an exam.

func (c *Controller) journalSession(action string, index int, detail string) {
	if c.events == nil {
		return
	}
	data := store.SessionEventData{
		SessionID:     c.id,
		Action:        action,
		QuestionIndex: index,
		Detail:        detail,
		At:            c.cfg.Now(),
	}
	if index >= 0 && index < len(c.questions) {
		data.QuestionID = c.questions[index].ID
		data.Direction = c.nav.Direction().String()
	}
	c.logJournal("session", c.events.AppendSessionEvent(context.Background(), data))
}

func (c *Controller) journalAnswer(q exam.Question, a exam.Answer) {
	if c.events == nil {
		return
	}
	payload, err := json.Marshal(exam.EncodeAnswer(q.ID, a))
	if err != nil {
		c.logJournal("answer", err)
		return
	}
	c.logJournal("answer", c.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:    c.id,
		QuestionID:   q.ID,
		QuestionType: string(q.Type),
		Payload:      string(payload),
		At:           c.cfg.Now(),
	}))
}

func (c *Controller) journalTimer(questionID int, action string) {
	if c.events == nil {
		return
	}
	c.logJournal("timer", c.events.AppendTimerEvent(context.Background(), store.TimerEventData{
		SessionID:  c.id,
		QuestionID: questionID,
		Action:     action,
		Epoch:      c.tm.Epoch(),
		Remaining:  c.tm.Remaining(),
		At:         c.cfg.Now(),
	}))
}

func (c *Controller) journalNarration(questionID int, action string, token uint64, utterances int) {
	if c.events == nil {
		return
	}
	c.logJournal("narration", c.events.AppendNarrationEvent(context.Background(), store.NarrationEventData{
		SessionID:  c.id,
		QuestionID: questionID,
		Action:     action,
		Token:      token,
		Utterances: utterances,
		At:         c.cfg.Now(),
	}))
}

func (c *Controller) logJournal(kind string, err error) {
	if err != nil {
		c.log.Warn("journal write failed", "kind", kind, "error", err)
	}
}
