package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/thanawat/thailotto-api/interfaces"
	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

// queryable lets the repository run against either the pool or a
// transaction.
type queryable interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Compile-time check to ensure DrawRepository implements DrawStore
var _ interfaces.DrawStore = (*DrawRepository)(nil)

// DrawRepository stores draw results in the lottery_results table.
type DrawRepository struct {
	q queryable
}

// NewDrawRepository creates a new draw repository over the connection pool.
func NewDrawRepository(db *DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

const selectColumns = `
	draw_date, draw_date_thai, first_prize, front_3, last_3, last_2,
	prizes, running_numbers, is_latest, fetched_at
`

// GetByDate retrieves the cached draw for an ISO date, or nil when the
// date has never been cached.
func (r *DrawRepository) GetByDate(ctx context.Context, isoDate string) (*entities.DrawRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM lottery_results WHERE draw_date = $1`

	rec, err := scanRecord(r.q.QueryRow(ctx, query, isoDate))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for date %s: %w", isoDate, err)
	}

	return rec, nil
}

// GetLatest retrieves the row flagged as the latest draw, or nil.
func (r *DrawRepository) GetLatest(ctx context.Context) (*entities.DrawRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM lottery_results WHERE is_latest LIMIT 1`

	rec, err := scanRecord(r.q.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}

	return rec, nil
}

// ListPrevious returns up to limit non-latest draws, newest first.
func (r *DrawRepository) ListPrevious(ctx context.Context, limit int) ([]entities.DrawRecord, error) {
	query := `SELECT ` + selectColumns + `
		FROM lottery_results
		WHERE NOT is_latest
		ORDER BY draw_date DESC
		LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list previous draws: %w", err)
	}
	defer rows.Close()

	var records []entities.DrawRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan previous draw: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate previous draws: %w", err)
	}

	return records, nil
}

// Upsert inserts the record or replaces the row with the same draw date.
func (r *DrawRepository) Upsert(ctx context.Context, rec *entities.DrawRecord) error {
	prizes, err := json.Marshal(rec.Prizes)
	if err != nil {
		return fmt.Errorf("failed to marshal prizes for %s: %w", rec.DrawDate, err)
	}
	runningNumbers, err := json.Marshal(rec.RunningNumbers)
	if err != nil {
		return fmt.Errorf("failed to marshal running numbers for %s: %w", rec.DrawDate, err)
	}

	query := `
		INSERT INTO lottery_results (
			draw_date, draw_date_thai, first_prize, front_3, last_3, last_2,
			prizes, running_numbers, is_latest, fetched_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (draw_date) DO UPDATE SET
			draw_date_thai = EXCLUDED.draw_date_thai,
			first_prize = EXCLUDED.first_prize,
			front_3 = EXCLUDED.front_3,
			last_3 = EXCLUDED.last_3,
			last_2 = EXCLUDED.last_2,
			prizes = EXCLUDED.prizes,
			running_numbers = EXCLUDED.running_numbers,
			is_latest = EXCLUDED.is_latest,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err = r.q.Exec(ctx, query,
		rec.DrawDate,
		rec.DrawDateThai,
		rec.FirstPrize,
		rec.Front3,
		rec.Last3,
		rec.Last2,
		prizes,
		runningNumbers,
		rec.IsLatest,
		rec.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert draw %s: %w", rec.DrawDate, err)
	}

	return nil
}

// ClearLatestFlag unsets is_latest on whichever rows hold it. Must commit
// before a new latest row is written to keep at most one latest row.
func (r *DrawRepository) ClearLatestFlag(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `UPDATE lottery_results SET is_latest = false WHERE is_latest`)
	if err != nil {
		return fmt.Errorf("failed to clear latest flag: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (*entities.DrawRecord, error) {
	var (
		rec            entities.DrawRecord
		drawDate       time.Time
		prizes         []byte
		runningNumbers []byte
	)

	err := row.Scan(
		&drawDate,
		&rec.DrawDateThai,
		&rec.FirstPrize,
		&rec.Front3,
		&rec.Last3,
		&rec.Last2,
		&prizes,
		&runningNumbers,
		&rec.IsLatest,
		&rec.FetchedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.DrawDate = drawDate.Format("2006-01-02")

	if err := json.Unmarshal(prizes, &rec.Prizes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prizes: %w", err)
	}
	if err := json.Unmarshal(runningNumbers, &rec.RunningNumbers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal running numbers: %w", err)
	}

	return &rec, nil
}
