// Package pgbrain implements the brain interfaces over postgres
package pgbrain

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"

	"github.com/gadling/hob/brain"
	"github.com/gadling/hob/option"
)

const (
	driverName        = "postgres"
	connectRetries    = 5
	connectRetryDelay = 500 * time.Millisecond
)

// schema is applied in order by Migrate
var schema = []string{
	`CREATE TABLE IF NOT EXISTS facts (
		id SERIAL PRIMARY KEY,
		thing TEXT NOT NULL,
		fact TEXT NOT NULL,
		inactive BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (thing, fact)
	)`,
	`CREATE TABLE IF NOT EXISTS karma (
		id SERIAL PRIMARY KEY,
		thing TEXT NOT NULL UNIQUE,
		value INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS flood_cooldowns (
		recipient_channel_id TEXT PRIMARY KEY,
		last_served_at TIMESTAMPTZ NOT NULL
	)`,
}

// karmaUpdates holds the statement applying each karma change
var karmaUpdates = map[brain.KarmaChange]string{
	brain.Increment: `UPDATE karma SET value = value + 1 WHERE thing = $1 RETURNING value`,
	brain.Decrement: `UPDATE karma SET value = value - 1 WHERE thing = $1 RETURNING value`,
}

var leaderboardQueries = map[brain.Order]string{
	brain.Top:    `SELECT thing, value FROM karma ORDER BY value DESC, thing LIMIT $1`,
	brain.Bottom: `SELECT thing, value FROM karma ORDER BY value ASC, thing LIMIT $1`,
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Brain implements brain.FactStorer, brain.KarmaStorer and brain.CooldownStorer over postgres
type Brain struct {
	db *sql.DB
}

// New returns a Brain using an already opened database
func New(db *sql.DB) (b *Brain) {
	return &Brain{db: db}
}

// Open opens the database at databaseURL and waits for it to accept connections, retrying
// with an exponential backoff
func Open(ctx context.Context, databaseURL string) (b *Brain, err error) {
	if databaseURL == "" {
		return nil, errors.New("a database url is required")
	}

	db, err := sql.Open(driverName, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err = ping(ctx, db, retry.NewExponential(connectRetryDelay)); err != nil {
		db.Close()
		return nil, err
	}

	return New(db), nil
}

func ping(ctx context.Context, db *sql.DB, backoff retry.Backoff) (err error) {
	err = retry.Do(ctx, retry.WithMaxRetries(connectRetries, backoff), func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})

	return errors.Wrap(err, "failed to connect to database")
}

// Close closes the database
func (b *Brain) Close() (err error) {
	return b.db.Close()
}

// Migrate creates the tables that don't exist yet
func (b *Brain) Migrate(ctx context.Context) (err error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start migration")
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit migration")
}

// Learn adds the fact to thing or reactivates it if it was forgotten
func (b *Brain) Learn(ctx context.Context, thing string, fact string) (err error) {
	_, err = b.db.ExecContext(ctx, `INSERT INTO facts (thing, fact) VALUES ($1, $2)
		ON CONFLICT (thing, fact) DO UPDATE SET inactive = FALSE`, thing, fact)

	return errors.Wrapf(err, "failed to insert [%s] == [%s]", thing, fact)
}

// Forget marks a single fact of thing as inactive
func (b *Brain) Forget(ctx context.Context, thing string, fact string) (changed int, err error) {
	res, err := b.db.ExecContext(ctx, `UPDATE facts SET inactive = TRUE WHERE thing = $1 AND fact = $2 AND inactive = FALSE`, thing, fact)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete [%s] == [%s]", thing, fact)
	}

	return rowsAffected(res)
}

// ForgetAll marks every fact of thing as inactive
func (b *Brain) ForgetAll(ctx context.Context, thing string) (changed int, err error) {
	res, err := b.db.ExecContext(ctx, `UPDATE facts SET inactive = TRUE WHERE thing = $1 AND inactive = FALSE`, thing)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete facts for [%s]", thing)
	}

	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (changed int, err error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count changed facts")
	}

	return int(n), nil
}

// Lookup returns the active facts of thing, sorted and limited to brain.LookupLimit
func (b *Brain) Lookup(ctx context.Context, thing string) (facts []string, err error) {
	rows, err := b.db.QueryContext(ctx, `SELECT fact FROM facts WHERE thing = $1 AND inactive = FALSE ORDER BY fact LIMIT $2`, thing, brain.LookupLimit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lookup [%s]", thing)
	}
	defer rows.Close()

	facts = make([]string, 0)
	for rows.Next() {
		var fact string
		if err = rows.Scan(&fact); err != nil {
			return nil, errors.Wrapf(err, "failed to lookup [%s]", thing)
		}

		facts = append(facts, fact)
	}

	return facts, errors.Wrapf(rows.Err(), "failed to lookup [%s]", thing)
}

// Search returns up to brain.SearchLimit active facts whose thing or fact contain term, ignoring case
func (b *Brain) Search(ctx context.Context, term string) (facts []brain.Fact, err error) {
	if len(term) < brain.MinSearchTermSize {
		return nil, brain.ErrQueryTooShort
	}

	return b.queryFacts(ctx, `SELECT thing, fact, inactive FROM facts
		WHERE (thing ILIKE $1 OR fact ILIKE $1) AND inactive = FALSE
		ORDER BY thing, fact LIMIT $2`, "%"+likeEscaper.Replace(term)+"%", brain.SearchLimit)
}

// Mentioning returns the active facts whose thing or fact contain text, ignoring case
func (b *Brain) Mentioning(ctx context.Context, text string) (facts []brain.Fact, err error) {
	return b.queryFacts(ctx, `SELECT thing, fact, inactive FROM facts
		WHERE (thing ILIKE $1 OR fact ILIKE $1) AND inactive = FALSE
		ORDER BY thing, fact`, "%"+likeEscaper.Replace(text)+"%")
}

// Dump returns up to brain.DumpLimit facts, inactive ones included
func (b *Brain) Dump(ctx context.Context) (facts []brain.Fact, err error) {
	return b.queryFacts(ctx, `SELECT thing, fact, inactive FROM facts ORDER BY thing, fact, inactive LIMIT $1`, brain.DumpLimit)
}

func (b *Brain) queryFacts(ctx context.Context, query string, args ...interface{}) (facts []brain.Fact, err error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query facts")
	}
	defer rows.Close()

	facts = make([]brain.Fact, 0)
	for rows.Next() {
		var f brain.Fact
		if err = rows.Scan(&f.Thing, &f.Fact, &f.Inactive); err != nil {
			return nil, errors.Wrap(err, "failed to read facts")
		}

		facts = append(facts, f)
	}

	return facts, errors.Wrap(rows.Err(), "failed to read facts")
}

// BumpKarma applies the change to the karma of thing in a serializable transaction
func (b *Brain) BumpKarma(ctx context.Context, thing string, change brain.KarmaChange) (value int, err error) {
	update, ok := karmaUpdates[change]
	if !ok {
		return 0, errors.Errorf("unknown karma change [%d]", change)
	}

	tx, err := b.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to update karma %s for [%s]", change, thing)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `INSERT INTO karma (thing, value) VALUES ($1, 0) ON CONFLICT (thing) DO NOTHING`, thing); err != nil {
		return 0, errors.Wrapf(err, "failed to update karma %s for [%s]", change, thing)
	}

	if err = tx.QueryRowContext(ctx, update, thing).Scan(&value); err != nil {
		return 0, errors.Wrapf(err, "failed to update karma %s for [%s]", change, thing)
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrapf(err, "failed to update karma %s for [%s]", change, thing)
	}

	return value, nil
}

// KarmaFor returns the karma of thing or None if it never got any
func (b *Brain) KarmaFor(ctx context.Context, thing string) (karma option.Option[int], err error) {
	var value int
	err = b.db.QueryRowContext(ctx, `SELECT value FROM karma WHERE thing = $1`, thing).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return option.None[int](), nil
	}

	if err != nil {
		return karma, errors.Wrapf(err, "failed to lookup karma for [%s]", thing)
	}

	return option.Some(value), nil
}

// Leaderboard returns up to count records with the highest (brain.Top) or lowest (brain.Bottom) karma
func (b *Brain) Leaderboard(ctx context.Context, order brain.Order, count int) (records []brain.KarmaRecord, err error) {
	rows, err := b.db.QueryContext(ctx, leaderboardQueries[order], count)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query karma leaderboard")
	}
	defer rows.Close()

	records = make([]brain.KarmaRecord, 0)
	for rows.Next() {
		var r brain.KarmaRecord
		if err = rows.Scan(&r.Thing, &r.Value); err != nil {
			return nil, errors.Wrap(err, "failed to read karma leaderboard")
		}

		records = append(records, r)
	}

	return records, errors.Wrap(rows.Err(), "failed to read karma leaderboard")
}

// LastServed returns when channelID was last served or None if it never was
func (b *Brain) LastServed(ctx context.Context, channelID string) (lastServedAt option.Option[time.Time], err error) {
	var t time.Time
	err = b.db.QueryRowContext(ctx, `SELECT last_served_at FROM flood_cooldowns WHERE recipient_channel_id = $1`, channelID).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return option.None[time.Time](), nil
	}

	if err != nil {
		return lastServedAt, errors.Wrapf(err, "failed to read cooldown of channel [%s]", channelID)
	}

	return option.Some(t), nil
}

// UpsertLastServed records that channelID was served at t
func (b *Brain) UpsertLastServed(ctx context.Context, channelID string, t time.Time) (err error) {
	_, err = b.db.ExecContext(ctx, `INSERT INTO flood_cooldowns (recipient_channel_id, last_served_at) VALUES ($1, $2)
		ON CONFLICT (recipient_channel_id) DO UPDATE SET last_served_at = EXCLUDED.last_served_at`, channelID, t)

	return errors.Wrapf(err, "failed to record cooldown of channel [%s]", channelID)
}

// EnsureCooldown records t as the last served time of channelID unless one is already recorded
func (b *Brain) EnsureCooldown(ctx context.Context, channelID string, t time.Time) (err error) {
	_, err = b.db.ExecContext(ctx, `INSERT INTO flood_cooldowns (recipient_channel_id, last_served_at) VALUES ($1, $2)
		ON CONFLICT (recipient_channel_id) DO NOTHING`, channelID, t)

	return errors.Wrapf(err, "failed to initialize cooldown of channel [%s]", channelID)
}
