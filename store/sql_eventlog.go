package store

import (
	"context"
	"fmt"
	"time"

	"catalog/domain"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
)

const (
	eventTable       = "domain_events"
	colEventID       = "event_id"
	colEventType     = "event_type"
	colAggregateID   = "aggregate_id"
	colAggregateVer  = "aggregate_version"
	colOccurredOn    = "occurred_on"
	colEventMetadata = "metadata"
)

type eventRow struct {
	EventID          string    `db:"event_id"`
	EventType        string    `db:"event_type"`
	AggregateID      string    `db:"aggregate_id"`
	AggregateVersion int64     `db:"aggregate_version"`
	OccurredOn       time.Time `db:"occurred_on"`
	Metadata         string    `db:"metadata"`
}

// SQLEventLog stores events in the domain_events table.
type SQLEventLog struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

var _ domain.EventLog = (*SQLEventLog)(nil)

// NewSQLEventLog builds an event log over db. dialect is a goqu dialect name
// ("postgres" or "sqlite3").
func NewSQLEventLog(db *sqlx.DB, dialect string) *SQLEventLog {
	return &SQLEventLog{db: db, dialect: goqu.Dialect(dialect)}
}

func (l *SQLEventLog) Append(ctx context.Context, env domain.EventEnvelope) error {
	meta, err := json.MarshalToString(env.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	row := eventRow{
		EventID:          env.EventID,
		EventType:        env.EventType,
		AggregateID:      env.AggregateID,
		AggregateVersion: env.AggregateVersion,
		OccurredOn:       env.OccurredOn.UTC(),
		Metadata:         meta,
	}
	query, args, err := l.dialect.Insert(eventTable).Prepared(true).Rows(row).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert event %s: %w", env.EventID, err)
	}
	return nil
}

func (l *SQLEventLog) ForAggregate(ctx context.Context, aggregateID string) ([]domain.EventEnvelope, error) {
	query, args, err := l.dialect.From(eventTable).
		Prepared(true).
		Select(colEventID, colEventType, colAggregateID, colAggregateVer, colOccurredOn, colEventMetadata).
		Where(goqu.C(colAggregateID).Eq(aggregateID)).
		Order(goqu.C(colOccurredOn).Asc(), goqu.C(colEventID).Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var rows []eventRow
	if err := l.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events for %s: %w", aggregateID, err)
	}
	out := make([]domain.EventEnvelope, 0, len(rows))
	for _, r := range rows {
		meta := map[string]string{}
		if r.Metadata != "" {
			if err := json.UnmarshalFromString(r.Metadata, &meta); err != nil {
				return nil, fmt.Errorf("decode metadata of %s: %w", r.EventID, err)
			}
		}
		out = append(out, domain.EventEnvelope{
			EventID:          r.EventID,
			EventType:        r.EventType,
			AggregateID:      r.AggregateID,
			AggregateVersion: r.AggregateVersion,
			OccurredOn:       r.OccurredOn.UTC(),
			Metadata:         meta,
		})
	}
	return out, nil
}
