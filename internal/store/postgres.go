package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"scout-pipeline/internal/models"
)

// PostgresPlayerStore backs PlayerStore with a players table. Skills are
// stored as a JSONB column so the schema does not chase skill names.
type PostgresPlayerStore struct {
	db *sql.DB
}

func NewPostgresPlayerStore(db *sql.DB) *PostgresPlayerStore {
	return &PostgresPlayerStore{db: db}
}

func (s *PostgresPlayerStore) List(ctx context.Context) ([]models.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, team, position, description, skills FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (s *PostgresPlayerStore) Get(ctx context.Context, id int) (*models.Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, team, position, description, skills FROM players WHERE id = $1`, id)

	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresPlayerStore) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("player exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresPlayerStore) Create(ctx context.Context, p models.Player) error {
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, first_name, last_name, team, position, description, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.FirstName, p.LastName, p.Team, p.Position, p.Description, skills)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var skills []byte
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Team, &p.Position, &p.Description, &skills); err != nil {
		return nil, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &p.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}
	return &p, nil
}

// PostgresEvaluationStore backs EvaluationStore with an evaluations
// table keyed by player_id.
type PostgresEvaluationStore struct {
	db *sql.DB
}

func NewPostgresEvaluationStore(db *sql.DB) *PostgresEvaluationStore {
	return &PostgresEvaluationStore{db: db}
}

func (s *PostgresEvaluationStore) Get(ctx context.Context, playerID int) (*models.Evaluation, error) {
	var e models.Evaluation
	var strengths, weaknesses []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, full_name, team, position, overall_score, verdict, evaluation_date, strengths, weaknesses
		 FROM evaluations WHERE player_id = $1`, playerID).
		Scan(&e.PlayerID, &e.FullName, &e.Team, &e.Position, &e.OverallScore, &e.Verdict, &e.EvaluationDate, &strengths, &weaknesses)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	if err := json.Unmarshal(strengths, &e.Strengths); err != nil {
		return nil, fmt.Errorf("decode strengths: %w", err)
	}
	if err := json.Unmarshal(weaknesses, &e.Weaknesses); err != nil {
		return nil, fmt.Errorf("decode weaknesses: %w", err)
	}
	return &e, nil
}

func (s *PostgresEvaluationStore) Upsert(ctx context.Context, eval models.Evaluation) (bool, error) {
	strengths, err := json.Marshal(eval.Strengths)
	if err != nil {
		return false, fmt.Errorf("encode strengths: %w", err)
	}
	weaknesses, err := json.Marshal(eval.Weaknesses)
	if err != nil {
		return false, fmt.Errorf("encode weaknesses: %w", err)
	}

	// xmax = 0 only on freshly inserted rows, which tells us whether the
	// upsert created or replaced.
	var created bool
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO evaluations (player_id, full_name, team, position, overall_score, verdict, evaluation_date, strengths, weaknesses)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (player_id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   team = EXCLUDED.team,
		   position = EXCLUDED.position,
		   overall_score = EXCLUDED.overall_score,
		   verdict = EXCLUDED.verdict,
		   evaluation_date = EXCLUDED.evaluation_date,
		   strengths = EXCLUDED.strengths,
		   weaknesses = EXCLUDED.weaknesses
		 RETURNING (xmax = 0)`,
		eval.PlayerID, eval.FullName, eval.Team, eval.Position, eval.OverallScore,
		eval.Verdict, eval.EvaluationDate, strengths, weaknesses).
		Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert evaluation: %w", err)
	}
	return created, nil
}
