package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pietervz/ipfire-tray/internal/domain"
)

type ThroughputRepository struct {
	db *sql.DB
}

func NewThroughputRepository(db *sql.DB) domain.ThroughputRepository {
	return &ThroughputRepository{db: db}
}

func (r *ThroughputRepository) InsertSamples(ctx context.Context, samples []domain.ThroughputSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO throughput_samples (down_kbs, up_kbs, total_down_kb, total_up_kb, recorded_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.ExecContext(ctx, s.DownKBs, s.UpKBs, s.TotalDownKB, s.TotalUpKB, s.RecordedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples: %w", err)
	}

	return nil
}

func (r *ThroughputRepository) History(ctx context.Context, since time.Time) ([]domain.ThroughputSample, error) {
	query := `
		SELECT id, down_kbs, up_kbs, total_down_kb, total_up_kb, recorded_at
		FROM throughput_samples
		WHERE recorded_at >= ?
		ORDER BY recorded_at ASC`

	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.ThroughputSample
	for rows.Next() {
		var s domain.ThroughputSample
		if err := rows.Scan(&s.ID, &s.DownKBs, &s.UpKBs, &s.TotalDownKB, &s.TotalUpKB, &s.RecordedAt); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

func (r *ThroughputRepository) Cleanup(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM throughput_samples WHERE recorded_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old samples: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve affected rows: %w", err)
	}

	return deleted, nil
}
