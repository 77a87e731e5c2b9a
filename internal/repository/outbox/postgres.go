package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/db"
)

// Record is a pending or sent event row.
type Record struct {
	ID        int64           `json:"id"`
	EventID   string          `json:"eventId"`
	Topic     string          `json:"topic"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	SentAt    *time.Time      `json:"sentAt,omitempty"`
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert writes an event through the given executor, normally the checkout
// transaction, so the event commits or rolls back with the order.
func Insert(ctx context.Context, ex execer, eventID, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, `INSERT INTO outbox (event_id, topic, key, payload) VALUES ($1, $2, $3, $4)`, eventID, topic, key, data)
	return db.Classify(err)
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// FetchPending returns unsent records oldest first.
func (s *Store) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, event_id::text, topic, key, payload, created_at, sent_at
FROM outbox
WHERE sent_at IS NULL
ORDER BY id
LIMIT $1
`, limit)
	if err != nil {
		return nil, db.Classify(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var rec Record
		err := row.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt)
		return rec, err
	})
	return out, db.Classify(err)
}

func (s *Store) MarkSent(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET sent_at = now() WHERE id = ANY($1)`, ids)
	return db.Classify(err)
}
