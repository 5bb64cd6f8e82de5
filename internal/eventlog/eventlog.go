package eventlog

import (
	"context"
	"database/sql"
	"time"
)

// Event types appended by the portal.
const (
	TypeAttemptSubmitted = "AttemptSubmitted"
	TypeReportGenerated  = "ReportGenerated"
	TypeQuizPublished    = "QuizPublished"
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string // natural key, e.g. attempt id
	DataJSON  string
	CreatedAt int64
}

// EventRepo appends portal events to the append-only event_log table.
// Offsets are assigned by the database.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	site := e.SiteID
	if site == "" {
		site = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		site, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
