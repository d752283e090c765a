package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
)

const reportColumns = `id, object_id, object_name, reporter_id, reporter_name, reason, status, created_at`

func scanReport(row interface{ Scan(...any) error }) (models.Report, error) {
	var (
		r       models.Report
		st      string
		created string
	)
	if err := row.Scan(&r.ID, &r.ObjectID, &r.ObjectName, &r.ReporterID, &r.ReporterName, &r.Reason, &st, &created); err != nil {
		return r, err
	}
	r.Status = models.ReportStatus(st)
	r.CreatedAt = parseStamp(created)
	return r, nil
}

func (s *Store) SubmitReport(ctx context.Context, objectID, reporterID, reason string) (models.Ack, error) {
	obj, err := s.GetObject(ctx, objectID)
	if err != nil {
		return models.Ack{}, err
	}
	r := models.Report{
		ID:         uuid.NewString(),
		ObjectID:   objectID,
		ObjectName: obj.Name,
		ReporterID: reporterID,
		Reason:     strings.TrimSpace(reason),
		Status:     models.ReportPending,
		CreatedAt:  s.now(),
	}
	if u, err := s.UserByID(ctx, reporterID); err == nil {
		r.ReporterName = u.Name
	}
	_, err = s.exec(ctx, s.db, `INSERT INTO reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ObjectID, r.ObjectName, r.ReporterID, r.ReporterName, r.Reason, string(r.Status), s.stamp(r.CreatedAt))
	if err != nil {
		return models.Ack{}, fmt.Errorf("submit report: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("report submitted", "report_id", r.ID, "object_id", objectID)
	return models.Ack{ReportID: r.ID, ReceivedAt: r.CreatedAt}, nil
}

func (s *Store) ListReports(ctx context.Context) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetReport(ctx context.Context, id string) (models.Report, error) {
	r, err := scanReport(s.db.QueryRowContext(ctx, s.rebind(`SELECT `+reportColumns+` FROM reports WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("report %s: %w", id, backend.ErrNotFound)
	}
	return r, err
}

// ResolveReport applies the admin decision: keep leaves the object,
// remove deletes it and block also blocks the account that posted it.
func (s *Store) ResolveReport(ctx context.Context, id string, action models.ReportAction) error {
	var status models.ReportStatus
	switch action {
	case models.ActionKeep:
		status = models.ReportKept
	case models.ActionRemove:
		status = models.ReportRemoved
	case models.ActionBlock:
		status = models.ReportBlocked
	default:
		return fmt.Errorf("unknown report action %q", action)
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var objectID string
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT object_id FROM reports WHERE id = ?`), id).Scan(&objectID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("report %s: %w", id, backend.ErrNotFound)
		}
		if err != nil {
			return err
		}

		if action != models.ActionKeep {
			var owner string
			err := tx.QueryRowContext(ctx, s.rebind(`SELECT owner_id FROM objects WHERE id = ?`), objectID).Scan(&owner)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// already gone
			case err != nil:
				return err
			default:
				if action == models.ActionBlock {
					if _, err := s.exec(ctx, tx, `UPDATE users SET blocked = 1 WHERE id = ?`, owner); err != nil {
						return err
					}
				}
				if err := s.deleteObject(ctx, tx, objectID); err != nil {
					return err
				}
			}
		}

		_, err = s.exec(ctx, tx, `UPDATE reports SET status = ? WHERE id = ?`, string(status), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("resolve report: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("report resolved", "report_id", id, "action", action)
	return nil
}
