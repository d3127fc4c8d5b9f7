package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/kuisku/kuisku/internal/quiz"
)

const questionsTable = "questions"

type questionRepo struct {
	db *sql.DB
}

type questionRow struct {
	ID            int64     `sql:"id"`
	Level         string    `sql:"level"`
	Topic         string    `sql:"topic"`
	Question      string    `sql:"question"`
	Options       string    `sql:"options"`
	CorrectAnswer string    `sql:"correct_answer"`
	Source        string    `sql:"source"`
	CreatedAt     time.Time `sql:"created_at"`
}

func (row questionRow) toQuestion() (Question, error) {
	var opts []string
	if err := json.Unmarshal([]byte(row.Options), &opts); err != nil {
		return Question{}, fmt.Errorf("decode options of question %d: %w", row.ID, err)
	}
	return Question{
		ID:        row.ID,
		Level:     row.Level,
		Topic:     row.Topic,
		Source:    row.Source,
		CreatedAt: row.CreatedAt,
		ValidatedItem: quiz.ValidatedItem{
			Question:      row.Question,
			Options:       opts,
			CorrectAnswer: row.CorrectAnswer,
		},
	}, nil
}

func (r *questionRepo) ReplaceLevel(ctx context.Context, level, source string, questions []QuestionInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args := builder.Delete(questionsTable).Where(entsql.EQ("level", level)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear level %q: %w", level, err)
	}
	if err := insertQuestions(ctx, tx, level, source, questions); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *questionRepo) Add(ctx context.Context, level, source string, questions []QuestionInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertQuestions(ctx, tx, level, source, questions); err != nil {
		return err
	}
	return tx.Commit()
}

func insertQuestions(ctx context.Context, tx *sql.Tx, level, source string, questions []QuestionInput) error {
	if len(questions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	ins := builder.Insert(questionsTable).
		Columns("level", "topic", "question", "options", "correct_answer", "source", "created_at")
	for i, q := range questions {
		if err := q.Check(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		ins.Values(level, q.Topic, q.Question, string(opts), q.CorrectAnswer, source, now)
	}
	query, args := ins.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	return nil
}

func (r *questionRepo) Count(ctx context.Context, level string) (int, error) {
	sel := builder.Select(entsql.Count("*")).From(builder.Table(questionsTable))
	if level != "" {
		sel.Where(entsql.EQ("level", level))
	}
	query, args := sel.Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *questionRepo) Sample(ctx context.Context, level string, n int, rnd *rand.Rand) ([]Question, error) {
	if n <= 0 {
		return nil, nil
	}

	sel := builder.Select("id").From(builder.Table(questionsTable)).OrderBy("id")
	if level != "" {
		sel.Where(entsql.EQ("level", level))
	}
	var ids []struct {
		ID int64 `sql:"id"`
	}
	if err := scanSelect(ctx, r.db, sel, &ids); err != nil {
		return nil, fmt.Errorf("list question ids: %w", err)
	}

	rnd.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > n {
		ids = ids[:n]
	}
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	order := make(map[int64]int, len(ids))
	for i, id := range ids {
		args[i] = id.ID
		order[id.ID] = i
	}

	var rows []questionRow
	sel = builder.Select("id", "level", "topic", "question", "options", "correct_answer", "source", "created_at").
		From(builder.Table(questionsTable)).
		Where(entsql.In("id", args...))
	if err := scanSelect(ctx, r.db, sel, &rows); err != nil {
		return nil, fmt.Errorf("load sampled questions: %w", err)
	}

	out := make([]Question, len(rows))
	for _, row := range rows {
		q, err := row.toQuestion()
		if err != nil {
			return nil, err
		}
		out[order[row.ID]] = q
	}
	return out, nil
}
