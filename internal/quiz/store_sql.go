package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLStore persists the portal records through database/sql. Nested lists
// (question ids, options, answers) ride in JSON columns; the $n placeholder
// style works with both the pgx stdlib driver and modernc sqlite.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	classes, _ := json.Marshal(q.ClassIDs)
	topics, _ := json.Marshal(q.TopicIDs)
	questions, _ := json.Marshal(q.QuestionIDs)
	_, err := s.db.ExecContext(ctx, `INSERT INTO quizzes
		(id,title,description,created_by,class_ids_json,topic_ids_json,question_ids_json,time_limit_min,published,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
		  title=EXCLUDED.title, description=EXCLUDED.description,
		  class_ids_json=EXCLUDED.class_ids_json, topic_ids_json=EXCLUDED.topic_ids_json,
		  question_ids_json=EXCLUDED.question_ids_json, time_limit_min=EXCLUDED.time_limit_min,
		  published=EXCLUDED.published`,
		q.ID, q.Title, q.Description, q.CreatedBy,
		string(classes), string(topics), string(questions),
		q.TimeLimitMin, q.Published, q.CreatedAt)
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,created_by,class_ids_json,topic_ids_json,question_ids_json,time_limit_min,published,created_at
		FROM quizzes WHERE id=$1`, id)
	return scanQuiz(row)
}

func (s *SQLStore) SetPublished(ctx context.Context, id string, published bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE quizzes SET published=$1 WHERE id=$2`, published, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error) {
	// Visibility filters that depend on JSON membership (class assignment)
	// are applied in Go; the table stays small enough that a scan is fine.
	q := `SELECT id,title,description,created_by,class_ids_json,topic_ids_json,question_ids_json,time_limit_min,published,created_at
		FROM quizzes ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []QuizSummary{}
	for rows.Next() {
		qz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		if !visibleTo(qz, opts) {
			continue
		}
		if opts.Q != "" && !strings.Contains(strings.ToLower(qz.Title), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, summarize(qz))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return window(out, opts.Limit, opts.Offset), nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanQuiz(r rowScanner) (Quiz, error) {
	var q Quiz
	var classes, topics, questions string
	err := r.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedBy,
		&classes, &topics, &questions, &q.TimeLimitMin, &q.Published, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(classes), &q.ClassIDs); err != nil {
		return Quiz{}, fmt.Errorf("quiz %s class ids: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(topics), &q.TopicIDs); err != nil {
		return Quiz{}, fmt.Errorf("quiz %s topic ids: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(questions), &q.QuestionIDs); err != nil {
		return Quiz{}, fmt.Errorf("quiz %s question ids: %w", q.ID, err)
	}
	return q, nil
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	options, _ := json.Marshal(q.Options)
	key, _ := json.Marshal(q.AnswerKey)
	_, err := s.db.ExecContext(ctx, `INSERT INTO questions
		(id,text,type,options_json,answer_key_json,explanation,difficulty,topic_id,image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
		  text=EXCLUDED.text, type=EXCLUDED.type, options_json=EXCLUDED.options_json,
		  answer_key_json=EXCLUDED.answer_key_json, explanation=EXCLUDED.explanation,
		  difficulty=EXCLUDED.difficulty, topic_id=EXCLUDED.topic_id, image_url=EXCLUDED.image_url`,
		q.ID, q.Text, q.Type, string(options), string(key),
		q.Explanation, q.Difficulty, q.TopicID, q.ImageURL)
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,text,type,options_json,answer_key_json,explanation,difficulty,topic_id,image_url
		FROM questions WHERE id=$1`, id)
	return scanQuestion(row)
}

func (s *SQLStore) GetQuestions(ctx context.Context, ids []string) ([]Question, error) {
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		q, err := s.GetQuestion(ctx, id)
		if errors.Is(err, ErrQuestionNotFound) {
			continue // dangling reference, tolerated
		}
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func scanQuestion(r rowScanner) (Question, error) {
	var q Question
	var options, key string
	err := r.Scan(&q.ID, &q.Text, &q.Type, &options, &key,
		&q.Explanation, &q.Difficulty, &q.TopicID, &q.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrQuestionNotFound
		}
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return Question{}, fmt.Errorf("question %s options: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(key), &q.AnswerKey); err != nil {
		return Question{}, fmt.Errorf("question %s answer key: %w", q.ID, err)
	}
	return q, nil
}

func (s *SQLStore) PutTopic(ctx context.Context, t Topic) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO topics (id,name,subject) VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, subject=EXCLUDED.subject`,
		t.ID, t.Name, t.Subject)
	return err
}

func (s *SQLStore) GetTopic(ctx context.Context, id string) (Topic, error) {
	var t Topic
	err := s.db.QueryRowContext(ctx, `SELECT id,name,subject FROM topics WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.Subject)
	if errors.Is(err, sql.ErrNoRows) {
		return Topic{}, ErrTopicNotFound
	}
	return t, err
}

func (s *SQLStore) ListTopics(ctx context.Context) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,subject FROM topics ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Topic{}
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutClass(ctx context.Context, c Class) error {
	students, _ := json.Marshal(c.StudentIDs)
	_, err := s.db.ExecContext(ctx, `INSERT INTO classes (id,name,grade,teacher_id,student_ids_json)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET
		  name=EXCLUDED.name, grade=EXCLUDED.grade,
		  teacher_id=EXCLUDED.teacher_id, student_ids_json=EXCLUDED.student_ids_json`,
		c.ID, c.Name, c.Grade, c.TeacherID, string(students))
	return err
}

func (s *SQLStore) GetClass(ctx context.Context, id string) (Class, error) {
	var c Class
	var students string
	err := s.db.QueryRowContext(ctx, `SELECT id,name,grade,teacher_id,student_ids_json FROM classes WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Grade, &c.TeacherID, &students)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Class{}, ErrClassNotFound
		}
		return Class{}, err
	}
	if err := json.Unmarshal([]byte(students), &c.StudentIDs); err != nil {
		return Class{}, fmt.Errorf("class %s students: %w", c.ID, err)
	}
	return c, nil
}

func (s *SQLStore) ListClasses(ctx context.Context, teacherID string) ([]Class, error) {
	var rows *sql.Rows
	var err error
	if teacherID == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT id,name,grade,teacher_id,student_ids_json FROM classes ORDER BY name`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id,name,grade,teacher_id,student_ids_json FROM classes WHERE teacher_id=$1 ORDER BY name`, teacherID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Class{}
	for rows.Next() {
		var c Class
		var students string
		if err := rows.Scan(&c.ID, &c.Name, &c.Grade, &c.TeacherID, &students); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(students), &c.StudentIDs); err != nil {
			return nil, fmt.Errorf("class %s students: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) SaveAttempt(ctx context.Context, a Attempt) error {
	answers, _ := json.Marshal(a.Answers)
	var submitted sql.NullInt64
	if a.SubmittedAt != nil {
		submitted = sql.NullInt64{Int64: *a.SubmittedAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO attempts
		(id,quiz_id,student_id,status,score,answers_json,started_at,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
		  status=EXCLUDED.status, score=EXCLUDED.score,
		  answers_json=EXCLUDED.answers_json, submitted_at=EXCLUDED.submitted_at`,
		a.ID, a.QuizID, a.StudentID, a.Status, a.Score, string(answers), a.StartedAt, submitted)
	return err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_id,student_id,status,score,answers_json,started_at,submitted_at
		FROM attempts WHERE id=$1`, id)
	return scanAttempt(row)
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	q := `SELECT id,quiz_id,student_id,status,score,answers_json,started_at,submitted_at FROM attempts`
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if opts.QuizID != "" {
		add("quiz_id=$%d", opts.QuizID)
	}
	if opts.StudentID != "" {
		add("student_id=$%d", opts.StudentID)
	}
	if opts.Status != "" {
		add("status=$%d", opts.Status)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY started_at DESC"
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
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAttempt(r rowScanner) (Attempt, error) {
	var a Attempt
	var answers string
	var submitted sql.NullInt64
	err := r.Scan(&a.ID, &a.QuizID, &a.StudentID, &a.Status, &a.Score, &answers, &a.StartedAt, &submitted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	if submitted.Valid {
		v := submitted.Int64
		a.SubmittedAt = &v
	}
	if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
		return Attempt{}, fmt.Errorf("attempt %s answers: %w", a.ID, err)
	}
	return a, nil
}
