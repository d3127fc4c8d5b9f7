package store

import (
	"database/sql"
	"fmt"
)

// schema is applied on every Open. Statements must stay idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		topic TEXT NOT NULL DEFAULT '',
		question TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS questions_level ON questions (level)`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id TEXT PRIMARY KEY,
		player TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT '',
		topic TEXT NOT NULL DEFAULT '',
		total INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		finished INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS taken_questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quiz_id TEXT NOT NULL REFERENCES quizzes (id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		question TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		answer TEXT NOT NULL DEFAULT '',
		answered INTEGER NOT NULL DEFAULT 0,
		is_correct INTEGER NOT NULL DEFAULT 0,
		sequence INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS taken_questions_quiz ON taken_questions (quiz_id, position)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp DATETIME NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_purpose ON llm_request_events (purpose)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
	`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
