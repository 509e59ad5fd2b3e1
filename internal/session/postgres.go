package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresStore persists sessions in a Postgres table. History and the cached
// analysis artifacts are stored as JSON columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Create(ctx context.Context, s *Session) error {
	return r.save(ctx, s)
}

func (r *PostgresStore) Update(ctx context.Context, s *Session) error {
	return r.save(ctx, s)
}

func (r *PostgresStore) save(ctx context.Context, s *Session) error {
	messagesJSON, err := json.Marshal(s.Messages)
	if err != nil {
		return err
	}
	detailsJSON, err := json.Marshal(s.SymptomDetails)
	if err != nil {
		return err
	}
	researchJSON, err := json.Marshal(s.ResearchResults)
	if err != nil {
		return err
	}
	reportJSON, err := json.Marshal(s.Report)
	if err != nil {
		return err
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO sessions (id, messages, symptom_details, research_results, report, stage, question_count, analysis_complete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			messages = $2,
			symptom_details = $3,
			research_results = $4,
			report = $5,
			stage = $6,
			question_count = $7,
			analysis_complete = $8,
			updated_at = $10
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, messagesJSON, detailsJSON, researchJSON, reportJSON,
		s.Stage, s.QuestionCount, s.AnalysisComplete, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	query := `SELECT id, messages, symptom_details, research_results, report, stage, question_count, analysis_complete, created_at, updated_at FROM sessions WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var s Session
	var messagesJSON, detailsJSON, researchJSON, reportJSON []byte

	err := row.Scan(
		&s.ID,
		&messagesJSON,
		&detailsJSON,
		&researchJSON,
		&reportJSON,
		&s.Stage,
		&s.QuestionCount,
		&s.AnalysisComplete,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(messagesJSON) > 0 {
		if err := json.Unmarshal(messagesJSON, &s.Messages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
		}
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &s.SymptomDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal symptom details: %w", err)
		}
	}
	if len(researchJSON) > 0 {
		if err := json.Unmarshal(researchJSON, &s.ResearchResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal research results: %w", err)
		}
	}
	if len(reportJSON) > 0 {
		if err := json.Unmarshal(reportJSON, &s.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
	}
	if s.ResearchResults == nil {
		s.ResearchResults = map[string]string{}
	}
	if s.Report == nil {
		s.Report = map[string]string{}
	}

	return &s, nil
}

func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
