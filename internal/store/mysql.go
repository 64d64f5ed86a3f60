// Package store is the MySQL persistence layer. It backs every
// repository interface the interview flow consumes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/interview"
)

// Config holds the MySQL connection settings.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// MySQL implements the interview, reviewer and schedule stores on one
// shared connection pool.
type MySQL struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to MySQL and verifies the connection. parseTime is
// required so DATETIME columns scan into time.Time.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*MySQL, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Loc = time.Local

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	logger.Info("connected to mysql", zap.String("addr", mc.Addr), zap.String("database", cfg.Database))

	return &MySQL{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (s *MySQL) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when it does not exist yet. Safe to run on
// every start.
func (s *MySQL) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			id              BIGINT AUTO_INCREMENT PRIMARY KEY,
			name            VARCHAR(255) NOT NULL,
			description     TEXT,
			required_skills TEXT,
			is_active       TINYINT(1) NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id            BIGINT AUTO_INCREMENT PRIMARY KEY,
			position_id   BIGINT NOT NULL,
			level         INT NOT NULL,
			question_text TEXT NOT NULL,
			weight        DOUBLE NOT NULL DEFAULT 1,
			keywords      TEXT,
			model_answer  TEXT,
			INDEX idx_position_level (position_id, level)
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id        BIGINT AUTO_INCREMENT PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			email     VARCHAR(255) NOT NULL,
			phone     VARCHAR(50) NOT NULL DEFAULT '',
			UNIQUE KEY uniq_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS interview_sessions (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			candidate_id BIGINT NOT NULL,
			position_id  BIGINT NOT NULL,
			level        INT NOT NULL,
			score        DOUBLE NOT NULL DEFAULT 0,
			result       VARCHAR(10) NOT NULL DEFAULT 'None',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_candidate (candidate_id)
		)`,
		`CREATE TABLE IF NOT EXISTS interview_answers (
			id          BIGINT AUTO_INCREMENT PRIMARY KEY,
			session_id  BIGINT NOT NULL,
			question_id BIGINT NOT NULL,
			content     TEXT,
			score       DOUBLE NOT NULL DEFAULT 0,
			comment     TEXT,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_session (session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reviewers (
			id        BIGINT AUTO_INCREMENT PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL,
			email     VARCHAR(255) NOT NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS reviewer_positions (
			reviewer_id BIGINT NOT NULL,
			position_id BIGINT NOT NULL,
			PRIMARY KEY (reviewer_id, position_id),
			INDEX idx_position (position_id)
		)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id           BIGINT AUTO_INCREMENT PRIMARY KEY,
			candidate_id BIGINT NOT NULL,
			reviewer_id  BIGINT NOT NULL,
			position_id  BIGINT NOT NULL,
			start_time   DATETIME NOT NULL,
			note         VARCHAR(255) NOT NULL DEFAULT '',
			INDEX idx_reviewer_start (reviewer_id, start_time)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	s.logger.Debug("schema verified")
	return nil
}

// ActivePositionNames returns the open position names, trimmed and
// case-insensitively deduplicated, keeping first-seen order.
func (s *MySQL) ActivePositionNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM positions WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query active positions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan position name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}

	return dedupeNames(names), nil
}

// AllPositions returns every position record including inactive ones, so
// a name resolved at selection time can still be looked up.
func (s *MySQL) AllPositions(ctx context.Context) ([]interview.Position, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(required_skills, '')
		 FROM positions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	var out []interview.Position
	for rows.Next() {
		var p interview.Position
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.RequiredSkillsCSV); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// QuestionsFor returns up to limit questions for the position and level
// in question id order.
func (s *MySQL) QuestionsFor(ctx context.Context, positionID int64, level, limit int) ([]interview.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, position_id, level, question_text, weight,
		        COALESCE(keywords, ''), COALESCE(model_answer, '')
		 FROM questions
		 WHERE position_id = ? AND level = ?
		 ORDER BY id
		 LIMIT ?`,
		positionID, level, limit)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []interview.Question
	for rows.Next() {
		var q interview.Question
		if err := rows.Scan(&q.ID, &q.PositionID, &q.Level, &q.Text, &q.Weight, &q.KeywordsCSV, &q.ModelAnswer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// UpsertCandidate keys candidates by email. An existing record only has
// its empty fields filled, populated fields win over the new values.
func (s *MySQL) UpsertCandidate(ctx context.Context, c interview.Candidate) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM candidates WHERE email = ?`, c.Email).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO candidates (full_name, email, phone) VALUES (?, ?, ?)`,
			c.FullName, c.Email, c.Phone)
		if err != nil {
			return 0, fmt.Errorf("insert candidate: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("candidate insert id: %w", err)
		}
		s.logger.Debug("candidate created", zap.Int64("candidate_id", id))
		return id, nil

	case err != nil:
		return 0, fmt.Errorf("lookup candidate by email: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE candidates
		 SET full_name = COALESCE(NULLIF(full_name, ''), ?),
		     phone     = COALESCE(NULLIF(phone, ''), ?)
		 WHERE id = ?`,
		c.FullName, c.Phone, id)
	if err != nil {
		return 0, fmt.Errorf("fill candidate fields: %w", err)
	}

	s.logger.Debug("candidate updated", zap.Int64("candidate_id", id))
	return id, nil
}

// CreateSession inserts a session row and returns its id.
func (s *MySQL) CreateSession(ctx context.Context, sess interview.Session) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_sessions (candidate_id, position_id, level, score, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.CandidateID, sess.PositionID, sess.Level, sess.Score, string(sess.Result), sess.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return res.LastInsertId()
}

// FinalizeSession stores the final percentage and result.
func (s *MySQL) FinalizeSession(ctx context.Context, sessionID int64, score float64, result interview.Result) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE interview_sessions SET score = ?, result = ? WHERE id = ?`,
		score, string(result), sessionID)
	if err != nil {
		return fmt.Errorf("finalize session %d: %w", sessionID, err)
	}
	return nil
}

// InsertAnswer persists one scored answer.
func (s *MySQL) InsertAnswer(ctx context.Context, a interview.Answer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_answers (session_id, question_id, content, score, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.SessionID, a.QuestionID, a.Content, a.Score, a.Comment, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

// ActiveReviewersForPosition returns the active reviewers assigned to
// the position in id order. Assignments live in the reviewer_positions
// join table, one reviewer can cover several positions.
func (s *MySQL) ActiveReviewersForPosition(ctx context.Context, positionID int64) ([]interview.Reviewer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.full_name, r.email, r.is_active
		 FROM reviewers r
		 JOIN reviewer_positions rp ON rp.reviewer_id = r.id
		 WHERE rp.position_id = ? AND r.is_active = 1
		 ORDER BY r.id`,
		positionID)
	if err != nil {
		return nil, fmt.Errorf("query reviewers: %w", err)
	}
	defer rows.Close()

	var out []interview.Reviewer
	for rows.Next() {
		var r interview.Reviewer
		if err := rows.Scan(&r.ID, &r.FullName, &r.Email, &r.Active); err != nil {
			return nil, fmt.Errorf("scan reviewer: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PendingScheduleCount counts a reviewer's schedule entries starting at
// or after from.
func (s *MySQL) PendingScheduleCount(ctx context.Context, reviewerID int64, from time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedules WHERE reviewer_id = ? AND start_time >= ?`,
		reviewerID, from).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending schedules: %w", err)
	}
	return n, nil
}

// CreateSchedule inserts a schedule entry and returns its id.
func (s *MySQL) CreateSchedule(ctx context.Context, sched interview.Schedule) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO schedules (candidate_id, reviewer_id, position_id, start_time, note)
		 VALUES (?, ?, ?, ?, ?)`,
		sched.CandidateID, sched.ReviewerID, sched.PositionID, sched.StartTime, sched.Note)
	if err != nil {
		return 0, fmt.Errorf("insert schedule: %w", err)
	}
	return res.LastInsertId()
}
