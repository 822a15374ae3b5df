package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// cycleStartKey is the Redis key caching the rotation anchor. The
// anchor is read on every eligibility and booking evaluation but only
// ever changes through the admin settings screen, which makes it the
// one piece of state worth caching: the cache is filled on read and
// deleted on write, never expired by guesswork.
const cycleStartKey = "config:cycle_start"

// cycleStartTTL bounds staleness if an invalidation is lost (e.g. the
// admin update raced a Redis restart).
const cycleStartTTL = time.Hour

// noAnchor is the cached marker for "no config row exists yet".
const noAnchor = "none"

// ConfigRepo provides access to the single system_config row holding
// the rotation cycle anchor, with a Redis read-through cache. The
// Redis client may be nil, in which case every read goes to MySQL.
type ConfigRepo struct {
	db  *sql.DB
	rdb *redis.Client
}

// NewConfigRepo returns a new ConfigRepo bound to the given database
// and optional Redis client.
func NewConfigRepo(db *sql.DB, rdb *redis.Client) *ConfigRepo {
	return &ConfigRepo{db: db, rdb: rdb}
}

// CycleStart returns the configured rotation anchor, or the zero time
// when no anchor has been set. The zero value is a valid state that
// the rotation resolver treats as "week 1 everywhere".
func (r *ConfigRepo) CycleStart(ctx context.Context) (time.Time, error) {
	if r.rdb != nil {
		if v, err := r.rdb.Get(ctx, cycleStartKey).Result(); err == nil {
			if v == noAnchor {
				return time.Time{}, nil
			}
			if t, perr := time.ParseInLocation("2006-01-02", v, time.UTC); perr == nil {
				return t, nil
			}
			// Unparseable cache entry: fall through to the database.
		}
	}

	var t time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT cycle_start_date FROM system_config ORDER BY id LIMIT 1`,
	).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		r.cache(ctx, noAnchor)
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t = StartOfDayUTC(t)
	r.cache(ctx, t.Format("2006-01-02"))
	return t, nil
}

// SetCycleStart upserts the anchor and invalidates the cache. Monday
// validation belongs to the handler; this layer stores what it is
// given at day granularity.
func (r *ConfigRepo) SetCycleStart(ctx context.Context, t time.Time) error {
	day := t.Format("2006-01-02")
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var id uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM system_config ORDER BY id LIMIT 1 FOR UPDATE`).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO system_config (cycle_start_date) VALUES (?)`, day); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE system_config SET cycle_start_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			day, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	if r.rdb != nil {
		_ = r.rdb.Del(ctx, cycleStartKey).Err()
	}
	return nil
}

func (r *ConfigRepo) cache(ctx context.Context, v string) {
	if r.rdb == nil {
		return
	}
	_ = r.rdb.Set(ctx, cycleStartKey, v, cycleStartTTL).Err()
}
