package plugins_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gadling/hob/brain"
	"github.com/gadling/hob/option"
)

// mockKarmaStorer holds a mock implementation of brain.KarmaStorer
type mockKarmaStorer struct {
	mock.Mock
}

// BumpKarma mocks an implementation of BumpKarma
func (ms *mockKarmaStorer) BumpKarma(ctx context.Context, thing string, change brain.KarmaChange) (value int, err error) {
	args := ms.Called(thing, change)

	return args.Int(0), args.Error(1)
}

// KarmaFor mocks an implementation of KarmaFor
func (ms *mockKarmaStorer) KarmaFor(ctx context.Context, thing string) (karma option.Option[int], err error) {
	args := ms.Called(thing)

	return args.Get(0).(option.Option[int]), args.Error(1)
}

// Leaderboard mocks an implementation of Leaderboard
func (ms *mockKarmaStorer) Leaderboard(ctx context.Context, order brain.Order, count int) (records []brain.KarmaRecord, err error) {
	args := ms.Called(order, count)

	return args.Get(0).([]brain.KarmaRecord), args.Error(1)
}

// mockFactStorer holds a mock implementation of brain.FactStorer
type mockFactStorer struct {
	mock.Mock
}

// Learn mocks an implementation of Learn
func (ms *mockFactStorer) Learn(ctx context.Context, thing string, fact string) (err error) {
	args := ms.Called(thing, fact)

	return args.Error(0)
}

// Forget mocks an implementation of Forget
func (ms *mockFactStorer) Forget(ctx context.Context, thing string, fact string) (changed int, err error) {
	args := ms.Called(thing, fact)

	return args.Int(0), args.Error(1)
}

// ForgetAll mocks an implementation of ForgetAll
func (ms *mockFactStorer) ForgetAll(ctx context.Context, thing string) (changed int, err error) {
	args := ms.Called(thing)

	return args.Int(0), args.Error(1)
}

// Lookup mocks an implementation of Lookup
func (ms *mockFactStorer) Lookup(ctx context.Context, thing string) (facts []string, err error) {
	args := ms.Called(thing)

	return args.Get(0).([]string), args.Error(1)
}

// Search mocks an implementation of Search
func (ms *mockFactStorer) Search(ctx context.Context, term string) (facts []brain.Fact, err error) {
	args := ms.Called(term)

	return args.Get(0).([]brain.Fact), args.Error(1)
}

// Dump mocks an implementation of Dump
func (ms *mockFactStorer) Dump(ctx context.Context) (facts []brain.Fact, err error) {
	args := ms.Called()

	return args.Get(0).([]brain.Fact), args.Error(1)
}

// Mentioning mocks an implementation of Mentioning
func (ms *mockFactStorer) Mentioning(ctx context.Context, text string) (facts []brain.Fact, err error) {
	args := ms.Called(text)

	return args.Get(0).([]brain.Fact), args.Error(1)
}

// mockCooldownStorer holds a mock implementation of brain.CooldownStorer
type mockCooldownStorer struct {
	mock.Mock
}

// LastServed mocks an implementation of LastServed
func (ms *mockCooldownStorer) LastServed(ctx context.Context, channelID string) (lastServedAt option.Option[time.Time], err error) {
	args := ms.Called(channelID)

	return args.Get(0).(option.Option[time.Time]), args.Error(1)
}

// UpsertLastServed mocks an implementation of UpsertLastServed
func (ms *mockCooldownStorer) UpsertLastServed(ctx context.Context, channelID string, t time.Time) (err error) {
	args := ms.Called(channelID, t)

	return args.Error(0)
}

// EnsureCooldown mocks an implementation of EnsureCooldown
func (ms *mockCooldownStorer) EnsureCooldown(ctx context.Context, channelID string, t time.Time) (err error) {
	args := ms.Called(channelID, t)

	return args.Error(0)
}
