package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var battingLineColumns = []string{
	"row_position", "year", "first_name", "last_name", "ab", "pa", "batting_avg",
	"swing_percent", "k_percent", "bb_percent", "slg_percent", "on_base_percent", "home_run",
	"walk", "strikeout", "single", "double", "triple",
}

type RecordModel struct {
	db *sql.DB
}

// GetAll returns every stored batting line in original table order.
func (m RecordModel) GetAll() ([]Record, error) {
	stmt := `
		SELECT year, first_name, last_name, ab, pa, batting_avg, swing_percent, k_percent,
			bb_percent, slg_percent, on_base_percent, home_run, walk, strikeout, single,
			double, triple
		FROM batting_lines
		ORDER BY row_position`

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		err := rows.Scan(
			&r.Year,
			&r.FirstName,
			&r.LastName,
			&r.AtBats,
			&r.PlateApps,
			&r.BattingAvg,
			&r.SwingPercent,
			&r.KPercent,
			&r.BBPercent,
			&r.SlgPercent,
			&r.OnBasePercent,
			&r.HomeRun,
			&r.Walk,
			&r.Strikeout,
			&r.Single,
			&r.Double,
			&r.Triple,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ReplaceAll truncates batting_lines and bulk loads the table with COPY in one transaction.
func (m RecordModel) ReplaceAll(t *Table) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `TRUNCATE batting_lines`)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("batting_lines", battingLineColumns...))
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	for _, r := range t.records {
		_, err = stmt.ExecContext(ctx, r.ID, r.Year, r.FirstName, r.LastName, r.AtBats,
			r.PlateApps, r.BattingAvg, r.SwingPercent, r.KPercent, r.BBPercent, r.SlgPercent,
			r.OnBasePercent, r.HomeRun, r.Walk, r.Strikeout, r.Single, r.Double, r.Triple)
		if err != nil {
			_ = stmt.Close()
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return fmt.Errorf("copying record %d: %w", r.ID, err)
		}
	}

	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	if err = stmt.Close(); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	return tx.Commit()
}
