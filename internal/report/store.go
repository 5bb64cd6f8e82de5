package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrReportNotFound = errors.New("report not found")

type ListOpts struct {
	StudentID string
	QuizID    string
	Limit     int
	Offset    int
}

type Store interface {
	PutReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (Report, error)
	ListReports(ctx context.Context, opts ListOpts) ([]Report, error)
}

// SQLStore persists reports with the breakdown lists in JSON columns.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutReport(ctx context.Context, r Report) error {
	topics, _ := json.Marshal(r.TopicScores)
	weak, _ := json.Marshal(r.WeakAreas)
	suggested, _ := json.Marshal(r.SuggestedTopics)
	_, err := s.db.ExecContext(ctx, `INSERT INTO reports
		(id,student_id,quiz_id,attempt_id,score,total_questions,topic_scores_json,weak_areas_json,suggested_json,generated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		r.ID, r.StudentID, r.QuizID, r.AttemptID, r.Score, r.TotalQuestions,
		string(topics), string(weak), string(suggested), r.GeneratedAt)
	return err
}

func (s *SQLStore) GetReport(ctx context.Context, id string) (Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,student_id,quiz_id,attempt_id,score,total_questions,topic_scores_json,weak_areas_json,suggested_json,generated_at
		FROM reports WHERE id=$1`, id)
	return scanReport(row)
}

func (s *SQLStore) ListReports(ctx context.Context, opts ListOpts) ([]Report, error) {
	q := `SELECT id,student_id,quiz_id,attempt_id,score,total_questions,topic_scores_json,weak_areas_json,suggested_json,generated_at FROM reports`
	var conds []string
	var args []any
	if opts.StudentID != "" {
		args = append(args, opts.StudentID)
		conds = append(conds, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if opts.QuizID != "" {
		args = append(args, opts.QuizID)
		conds = append(conds, fmt.Sprintf("quiz_id=$%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY generated_at DESC"
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	q += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, opts.Offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanReport(row rowScanner) (Report, error) {
	var r Report
	var topics, weak, suggested string
	err := row.Scan(&r.ID, &r.StudentID, &r.QuizID, &r.AttemptID, &r.Score, &r.TotalQuestions,
		&topics, &weak, &suggested, &r.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrReportNotFound
		}
		return Report{}, err
	}
	if err := json.Unmarshal([]byte(topics), &r.TopicScores); err != nil {
		return Report{}, fmt.Errorf("report %s topic scores: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(weak), &r.WeakAreas); err != nil {
		return Report{}, fmt.Errorf("report %s weak areas: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(suggested), &r.SuggestedTopics); err != nil {
		return Report{}, fmt.Errorf("report %s suggestions: %w", r.ID, err)
	}
	return r, nil
}

// MemoryStore backs tests.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: map[string]Report{}}
}

func (m *MemoryStore) PutReport(_ context.Context, r Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = r
	return nil
}

func (m *MemoryStore) GetReport(_ context.Context, id string) (Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return Report{}, ErrReportNotFound
	}
	return r, nil
}

func (m *MemoryStore) ListReports(_ context.Context, opts ListOpts) ([]Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Report{}
	for _, r := range m.reports {
		if opts.StudentID != "" && r.StudentID != opts.StudentID {
			continue
		}
		if opts.QuizID != "" && r.QuizID != opts.QuizID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt > out[j].GeneratedAt })
	if opts.Offset >= len(out) {
		return []Report{}, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}
