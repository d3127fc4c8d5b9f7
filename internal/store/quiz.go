package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/kuisku/kuisku/internal/quiz"
)

const (
	quizzesTable = "quizzes"
	takenTable   = "taken_questions"
)

var quizColumns = []string{"id", "player", "level", "topic", "total", "score", "finished", "created_at"}

type quizRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

type quizRow struct {
	ID        string    `sql:"id"`
	Player    string    `sql:"player"`
	Level     string    `sql:"level"`
	Topic     string    `sql:"topic"`
	Total     int       `sql:"total"`
	Score     int       `sql:"score"`
	Finished  bool      `sql:"finished"`
	CreatedAt time.Time `sql:"created_at"`
}

func (row quizRow) toQuiz() Quiz {
	return Quiz{
		ID:        row.ID,
		Player:    row.Player,
		Level:     row.Level,
		Topic:     row.Topic,
		Total:     row.Total,
		Score:     row.Score,
		Finished:  row.Finished,
		CreatedAt: row.CreatedAt,
	}
}

type takenRow struct {
	ID            int64  `sql:"id"`
	QuizID        string `sql:"quiz_id"`
	Position      int    `sql:"position"`
	Question      string `sql:"question"`
	Options       string `sql:"options"`
	CorrectAnswer string `sql:"correct_answer"`
	Answer        string `sql:"answer"`
	Answered      bool   `sql:"answered"`
	IsCorrect     bool   `sql:"is_correct"`
}

func (row takenRow) toTaken() (TakenQuestion, error) {
	var opts []string
	if err := json.Unmarshal([]byte(row.Options), &opts); err != nil {
		return TakenQuestion{}, fmt.Errorf("decode options of taken question %d: %w", row.ID, err)
	}
	return TakenQuestion{
		ID:        row.ID,
		QuizID:    row.QuizID,
		Position:  row.Position,
		Answer:    row.Answer,
		Answered:  row.Answered,
		IsCorrect: row.IsCorrect,
		ValidatedItem: quiz.ValidatedItem{
			Question:      row.Question,
			Options:       opts,
			CorrectAnswer: row.CorrectAnswer,
		},
	}, nil
}

func (r *quizRepo) Create(ctx context.Context, in QuizInput) (*Quiz, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("create quiz: no questions")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	query, args := builder.Insert(quizzesTable).
		Columns("id", "player", "level", "topic", "total", "score", "finished", "created_at").
		Values(id, in.Player, in.Level, in.Topic, len(in.Items), 0, false, time.Now().UTC()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert quiz: %w", err)
	}

	ins := builder.Insert(takenTable).
		Columns("quiz_id", "position", "question", "options", "correct_answer")
	for i, item := range in.Items {
		if err := item.Check(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		opts, err := json.Marshal(item.Options)
		if err != nil {
			return nil, fmt.Errorf("encode options: %w", err)
		}
		ins.Values(id, i, item.Question, string(opts), item.CorrectAnswer)
	}
	query, args = ins.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert taken questions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *quizRepo) RecordAnswer(ctx context.Context, takenID int64, answer string) (bool, error) {
	sel := builder.Select("id", "quiz_id", "position", "question", "options", "correct_answer",
		"answer", "answered", "is_correct").
		From(builder.Table(takenTable)).
		Where(entsql.EQ("id", takenID))
	var rows []takenRow
	if err := scanSelect(ctx, r.db, sel, &rows); err != nil {
		return false, fmt.Errorf("load taken question %d: %w", takenID, err)
	}
	if len(rows) == 0 {
		return false, fmt.Errorf("taken question %d not found", takenID)
	}
	taken, err := rows[0].toTaken()
	if err != nil {
		return false, err
	}

	correct := quiz.CheckAnswer(answer, taken.ValidatedItem)
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return false, err
	}

	query, args := builder.Update(takenTable).
		Set("answer", answer).
		Set("answered", true).
		Set("is_correct", correct).
		Set("sequence", seqNum).
		Where(entsql.EQ("id", takenID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("record answer: %w", err)
	}
	return correct, nil
}

func (r *quizRepo) Finish(ctx context.Context, quizID string) (*Quiz, error) {
	sel := builder.Select(entsql.Count("*")).
		From(builder.Table(takenTable)).
		Where(entsql.And(entsql.EQ("quiz_id", quizID), entsql.EQ("is_correct", true)))
	query, args := sel.Query()
	var score int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&score); err != nil {
		return nil, fmt.Errorf("score quiz: %w", err)
	}

	query, args = builder.Update(quizzesTable).
		Set("score", score).
		Set("finished", true).
		Where(entsql.EQ("id", quizID)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finish quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("quiz %s not found", quizID)
	}
	return r.Get(ctx, quizID)
}

func (r *quizRepo) List(ctx context.Context, limit int) ([]Quiz, error) {
	sel := builder.Select(quizColumns...).
		From(builder.Table(quizzesTable)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid"))
	if limit > 0 {
		sel.Limit(limit)
	}
	var rows []quizRow
	if err := scanSelect(ctx, r.db, sel, &rows); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]Quiz, len(rows))
	for i, row := range rows {
		out[i] = row.toQuiz()
	}
	return out, nil
}

func (r *quizRepo) Get(ctx context.Context, quizID string) (*Quiz, error) {
	sel := builder.Select(quizColumns...).
		From(builder.Table(quizzesTable)).
		Where(entsql.EQ("id", quizID))
	var rows []quizRow
	if err := scanSelect(ctx, r.db, sel, &rows); err != nil {
		return nil, fmt.Errorf("get quiz %s: %w", quizID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	q := rows[0].toQuiz()

	sel = builder.Select("id", "quiz_id", "position", "question", "options", "correct_answer",
		"answer", "answered", "is_correct").
		From(builder.Table(takenTable)).
		Where(entsql.EQ("quiz_id", quizID)).
		OrderBy("position")
	var taken []takenRow
	if err := scanSelect(ctx, r.db, sel, &taken); err != nil {
		return nil, fmt.Errorf("get questions of quiz %s: %w", quizID, err)
	}
	for _, row := range taken {
		tq, err := row.toTaken()
		if err != nil {
			return nil, err
		}
		q.Questions = append(q.Questions, tq)
	}
	return &q, nil
}
