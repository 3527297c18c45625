// Package flood periodically sends a generated message for every human member of a channel,
// no more often than a cooldown persisted across restarts
package flood

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/gadling/hob"
	"github.com/gadling/hob/brain"
	"github.com/gadling/hob/option"
)

// Defaults
const (
	DefaultCooldown = 72 * time.Hour
	DefaultJitter   = 2 * time.Minute
)

// Mode of a flood
type Mode int

// Flood modes. Manual floods bypass the cooldown
const (
	Automatic Mode = iota
	Manual
)

func (m Mode) String() string {
	if m == Manual {
		return "manual"
	}

	return "automatic"
}

// Outcome of a flood
type Outcome int

// Flood outcomes
const (
	Averted Outcome = iota
	Served
)

func (o Outcome) String() string {
	if o == Served {
		return "served"
	}

	return "averted"
}

// Report summarizes a flood
type Report struct {
	Outcome     Outcome
	Delivered   int
	Failed      int
	SkippedBots int
}

// Directory is implemented by any value that can list channels and their members
type Directory interface {
	ListChannels(ctx context.Context) (channels []slack.Channel, err error)
	ListChannelMembers(ctx context.Context, channelID string) (members []string, err error)
}

// UserInfoFinder is implemented by any value that can look up users
type UserInfoFinder interface {
	GetUserInfo(ctx context.Context, userID string) (user *slack.User, err error)
}

// Poster is implemented by any value that can post messages
type Poster interface {
	PostMessage(ctx context.Context, channelID string, text string, options ...slack.MsgOption) (timestamp string, err error)
}

// CooldownStorer persists when channels were last flooded
type CooldownStorer = brain.CooldownStorer

// Clock tells the time and waits
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Logger is implemented by any value that has the Printf and Debugf methods
type Logger interface {
	Printf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}

type discardLogger struct{}

func (discardLogger) Printf(format string, v ...interface{}) {}
func (discardLogger) Debugf(format string, v ...interface{}) {}

// Generator returns the text sent for a member of the flooded channel
type Generator func(userID string) string

// Scheduler floods a home channel on polls and any channel on demand
type Scheduler struct {
	directory Directory
	users     UserInfoFinder
	poster    Poster
	cooldowns CooldownStorer
	generate  Generator

	clock    Clock
	logger   Logger
	limiter  *rate.Limiter
	cooldown time.Duration
	jitter   time.Duration

	rndLock sync.Mutex
	rnd     *rand.Rand

	homeLock sync.RWMutex
	home     option.Option[string]
}

// Option defines an option of a Scheduler
type Option func(s *Scheduler)

// WithCooldown sets the minimum time between two automatic floods of a channel
func WithCooldown(cooldown time.Duration) Option {
	return func(s *Scheduler) {
		s.cooldown = cooldown
	}
}

// WithJitter sets the upper bound of the random delay before each poll
func WithJitter(jitter time.Duration) Option {
	return func(s *Scheduler) {
		s.jitter = jitter
	}
}

// WithClock sets the clock used to tell the time and wait
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithRateLimit sets the rate at which messages of a flood are posted
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(s *Scheduler) {
		s.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithRand sets the source of the poll jitter
func WithRand(rnd *rand.Rand) Option {
	return func(s *Scheduler) {
		s.rnd = rnd
	}
}

// New returns a new Scheduler. Messages are posted at most once per second unless
// WithRateLimit says otherwise
func New(directory Directory, users UserInfoFinder, poster Poster, cooldowns CooldownStorer, generate Generator, opts ...Option) (s *Scheduler) {
	s = &Scheduler{
		directory: directory,
		users:     users,
		poster:    poster,
		cooldowns: cooldowns,
		generate:  generate,
		clock:     realClock{},
		logger:    discardLogger{},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		cooldown:  DefaultCooldown,
		jitter:    DefaultJitter,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Home returns the channel flooded by polls, if automatic floods are enabled
func (s *Scheduler) Home() option.Option[string] {
	s.homeLock.RLock()
	defer s.homeLock.RUnlock()

	return s.home
}

// ScheduleAutoFlood enables automatic floods of the channel named channelName. A channel that
// can't be found leaves automatic floods disabled. The cooldown is initialized to now if the
// channel has none so that the first flood after a deploy still waits for it
func (s *Scheduler) ScheduleAutoFlood(ctx context.Context, channelName string) (err error) {
	channelID, err := hob.FindChannelByName(ctx, s.directory, channelName)
	if err != nil {
		s.logger.Printf("Can't flood channel [%s], automatic floods are disabled: %v", channelName, err)
		return err
	}

	if err = s.cooldowns.EnsureCooldown(ctx, channelID, s.clock.Now()); err != nil {
		s.logger.Printf("Can't initialize the cooldown of channel [%s], automatic floods are disabled: %v", channelName, err)
		return errors.Wrapf(err, "failed to initialize cooldown of [%s]", channelName)
	}

	s.homeLock.Lock()
	s.home = option.Some(channelID)
	s.homeLock.Unlock()

	s.logger.Printf("Automatic floods of [%s] (%s) enabled with a cooldown of %s", channelName, channelID, s.cooldown)

	return nil
}

// Poll waits for a random jitter and then runs an automatic flood of the home channel. Errors
// and panics are logged so that the next poll still happens
func (s *Scheduler) Poll(ctx context.Context) {
	home, enabled := s.Home().Get()
	if !enabled {
		s.logger.Debugf("Automatic floods disabled, skipping poll")
		return
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Printf("Recovered from panic flooding [%s]: %v", home, p)
		}
	}()

	if j := s.nextJitter(); j > 0 {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(j):
		}
	}

	r, err := s.FloodChannel(ctx, home, Automatic)
	if err != nil {
		s.logger.Printf("Failed to flood [%s]: %v", home, err)
		return
	}

	if r.Outcome == Averted {
		s.logger.Debugf("Flood of [%s] averted", home)
		return
	}

	s.logger.Printf("Flooded [%s]: %d delivered, %d failed, %d bots skipped", home, r.Delivered, r.Failed, r.SkippedBots)
}

func (s *Scheduler) nextJitter() time.Duration {
	if s.jitter <= 0 {
		return 0
	}

	s.rndLock.Lock()
	defer s.rndLock.Unlock()

	return time.Duration(s.rnd.Int63n(int64(s.jitter)))
}

// FloodChannel sends a generated message for every human member of channelID. Automatic
// floods are averted until the cooldown is over. The new last served time is recorded before
// anything is sent and nothing is sent if it can't be
func (s *Scheduler) FloodChannel(ctx context.Context, channelID string, mode Mode) (r Report, err error) {
	now := s.clock.Now()

	last, err := s.cooldowns.LastServed(ctx, channelID)
	if err != nil {
		return r, errors.Wrapf(err, "failed to read cooldown of [%s]", channelID)
	}

	if t, ok := last.Get(); ok && mode == Automatic && now.Before(t.Add(s.cooldown)) {
		return Report{Outcome: Averted}, nil
	}

	if err = s.cooldowns.UpsertLastServed(ctx, channelID, now); err != nil {
		return r, errors.Wrapf(err, "failed to record cooldown of [%s]", channelID)
	}

	s.logger.Printf("Flooding [%s] (%s)...", channelID, mode)

	members, err := s.directory.ListChannelMembers(ctx, channelID)
	if err != nil {
		return Report{Outcome: Served}, err
	}

	return s.fanOut(ctx, channelID, members), nil
}

func (s *Scheduler) fanOut(ctx context.Context, channelID string, members []string) (r Report) {
	var wg sync.WaitGroup
	var lock sync.Mutex

	r.Outcome = Served
	tally := func(count *int) {
		lock.Lock()
		*count++
		lock.Unlock()
	}

	for _, member := range members {
		wg.Add(1)

		go func(userID string) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					s.logger.Printf("Recovered from panic serving [%s] on [%s]: %v", userID, channelID, p)
					tally(&r.Failed)
				}
			}()

			u, err := s.users.GetUserInfo(ctx, userID)
			if err != nil {
				s.logger.Printf("Skipping [%s], failed to look it up: %v", userID, err)
				tally(&r.Failed)
				return
			}

			if u.IsBot {
				tally(&r.SkippedBots)
				return
			}

			text := s.generate(userID)
			if err = s.limiter.Wait(ctx); err != nil {
				s.logger.Printf("Gave up serving [%s] on [%s]: %v", userID, channelID, err)
				tally(&r.Failed)
				return
			}

			if _, err = s.poster.PostMessage(ctx, channelID, text); err != nil {
				s.logger.Printf("Failed to serve [%s] on [%s]: %v", userID, channelID, err)
				tally(&r.Failed)
				return
			}

			tally(&r.Delivered)
		}(member)
	}

	wg.Wait()

	return r
}
