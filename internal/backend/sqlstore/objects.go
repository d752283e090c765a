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

const summaryColumns = `id, protocol_num, kind, name, category, location, date, status, owner_id`

func scanSummary(row interface{ Scan(...any) error }) (models.ObjectSummary, error) {
	var (
		o     models.ObjectSummary
		proto int64
		kind  string
		st    string
	)
	if err := row.Scan(&o.ID, &proto, &kind, &o.Name, &o.Category, &o.Location, &o.Date, &st, &o.OwnerID); err != nil {
		return o, err
	}
	o.Protocol = models.FormatProtocol(proto)
	o.Kind = models.ObjectKind(kind)
	o.Status = models.ObjectStatus(st)
	return o, nil
}

func (s *Store) SubmitObjectRegistration(ctx context.Context, reg models.Registration, images []models.Image) (models.Protocol, error) {
	id := uuid.NewString()
	now := s.now()
	var proto int64

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(protocol_num), 0) FROM objects`)
		if err := row.Scan(&proto); err != nil {
			return err
		}
		proto = max(proto+1, firstProtocol)

		_, err := s.exec(ctx, tx, `INSERT INTO objects (id, protocol_num, kind, name, name_search, category, location, location_detail,
            date, time, description, current_location, status, owner_id, allow_messages, enable_alert, visited_places, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, proto, string(reg.Kind), reg.Name, models.SearchKey(reg.Name), reg.Category, reg.Location, reg.LocationDetail,
			reg.Date, reg.Time, reg.Description, reg.CurrentLocation, string(models.StatusOpen), reg.OwnerID,
			boolInt(reg.AllowMessages), boolInt(reg.EnableAlert), joinPlaces(reg.VisitedPlaces), s.stamp(now))
		if err != nil {
			return err
		}
		if err := s.replaceImages(ctx, tx, id, images); err != nil {
			return err
		}
		event := "Registrado como objeto encontrado"
		if reg.Kind == models.KindLost {
			event = "Registrado como objeto perdido"
		}
		return s.addEvent(ctx, tx, id, event)
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("register object failed", "error", err)
		return "", fmt.Errorf("register object: %w", err)
	}

	p := models.FormatProtocol(proto)
	observability.LoggerFromContext(ctx).Info("object registered", "protocol", p, "kind", reg.Kind, "images", len(images))
	return p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// visited places never contain a newline, so it separates them.
func joinPlaces(p []string) string {
	return strings.Join(p, "\n")
}

func splitPlaces(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, "\n")
}

func (s *Store) replaceImages(ctx context.Context, tx *sql.Tx, objectID string, images []models.Image) error {
	if _, err := s.exec(ctx, tx, `DELETE FROM object_images WHERE object_id = ?`, objectID); err != nil {
		return err
	}
	for i, img := range images {
		_, err := s.exec(ctx, tx, `INSERT INTO object_images (object_id, position, name, mime, data_uri) VALUES (?, ?, ?, ?, ?)`,
			objectID, i, img.Name, img.MIME, img.DataURI)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) addEvent(ctx context.Context, q execer, objectID, event string) error {
	var next int
	row := q.QueryRowContext(ctx, s.rebind(`SELECT COALESCE(MAX(position), -1) + 1 FROM object_events WHERE object_id = ?`), objectID)
	if err := row.Scan(&next); err != nil {
		return err
	}
	_, err := s.exec(ctx, q, `INSERT INTO object_events (object_id, position, event, at) VALUES (?, ?, ?, ?)`,
		objectID, next, event, s.stamp(s.now()))
	return err
}

// ListObjects builds the WHERE clause from the non-empty filter fields.
func (s *Store) ListObjects(ctx context.Context, f models.ObjectFilter) ([]models.ObjectSummary, error) {
	var (
		where []string
		args  []any
	)
	// sqlite's LOWER only folds ASCII, so the folded name is stored
	if q := models.SearchKey(f.Query); q != "" {
		where = append(where, `name_search LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
	}
	if f.Kind != "" {
		where = append(where, `kind = ?`)
		args = append(args, string(f.Kind))
	}
	if len(f.Categories) > 0 {
		where = append(where, `category IN (`+placeholders(len(f.Categories))+`)`)
		for _, c := range f.Categories {
			args = append(args, c)
		}
	}
	if f.Location != "" {
		where = append(where, `location = ?`)
		args = append(args, f.Location)
	}
	if f.DateFrom != "" {
		where = append(where, `date >= ?`)
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, `date <= ?`)
		args = append(args, f.DateTo)
	}
	if len(f.Statuses) > 0 {
		where = append(where, `status IN (`+placeholders(len(f.Statuses))+`)`)
		for _, st := range f.Statuses {
			args = append(args, string(st))
		}
	}
	if f.OwnerID != "" {
		where = append(where, `owner_id = ?`)
		args = append(args, f.OwnerID)
	}

	query := `SELECT ` + summaryColumns + ` FROM objects`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC, protocol_num DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	var out []models.ObjectSummary
	for rows.Next() {
		o, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) GetObject(ctx context.Context, id string) (models.Object, error) {
	var (
		o       models.Object
		allow   int
		alert   int
		places  string
		created string
	)
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+summaryColumns+`, location_detail, time, description,
        current_location, allow_messages, enable_alert, visited_places, created_at FROM objects WHERE id = ?`), id)

	var (
		proto int64
		kind  string
		st    string
	)
	err := row.Scan(&o.ID, &proto, &kind, &o.Name, &o.Category, &o.Location, &o.Date, &st, &o.OwnerID,
		&o.LocationDetail, &o.Time, &o.Description, &o.CurrentLocation, &allow, &alert, &places, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return o, fmt.Errorf("object %s: %w", id, backend.ErrNotFound)
	}
	if err != nil {
		return o, fmt.Errorf("get object: %w", err)
	}
	o.Protocol = models.FormatProtocol(proto)
	o.Kind = models.ObjectKind(kind)
	o.Status = models.ObjectStatus(st)
	o.AllowMessages = allow != 0
	o.EnableAlert = alert != 0
	o.VisitedPlaces = splitPlaces(places)
	o.CreatedAt = parseStamp(created)

	imgs, err := s.db.QueryContext(ctx, s.rebind(`SELECT name, mime, data_uri FROM object_images WHERE object_id = ? ORDER BY position`), id)
	if err != nil {
		return o, err
	}
	defer imgs.Close()
	for imgs.Next() {
		var img models.Image
		if err := imgs.Scan(&img.Name, &img.MIME, &img.DataURI); err != nil {
			return o, err
		}
		o.Images = append(o.Images, img)
	}
	if err := imgs.Err(); err != nil {
		return o, err
	}

	events, err := s.db.QueryContext(ctx, s.rebind(`SELECT event, at FROM object_events WHERE object_id = ? ORDER BY position`), id)
	if err != nil {
		return o, err
	}
	defer events.Close()
	for events.Next() {
		var (
			ev models.TimelineEvent
			at string
		)
		if err := events.Scan(&ev.Event, &at); err != nil {
			return o, err
		}
		ev.At = parseStamp(at)
		o.Timeline = append(o.Timeline, ev)
	}
	return o, events.Err()
}

func (s *Store) UpdateObject(ctx context.Context, id string, reg models.Registration, images []models.Image) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, `UPDATE objects SET name = ?, name_search = ?, category = ?, location = ?, location_detail = ?,
            date = ?, time = ?, description = ?, current_location = ?, allow_messages = ?, enable_alert = ?,
            visited_places = ? WHERE id = ?`,
			reg.Name, models.SearchKey(reg.Name), reg.Category, reg.Location, reg.LocationDetail, reg.Date, reg.Time, reg.Description,
			reg.CurrentLocation, boolInt(reg.AllowMessages), boolInt(reg.EnableAlert), joinPlaces(reg.VisitedPlaces), id)
		if err != nil {
			return err
		}
		if err := mustAffect(res, "object", id); err != nil {
			return err
		}
		if images != nil {
			if err := s.replaceImages(ctx, tx, id, images); err != nil {
				return err
			}
		}
		return s.addEvent(ctx, tx, id, "Registro atualizado")
	})
}

func mustAffect(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, backend.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteObject(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.deleteObject(ctx, tx, id)
	})
}

func (s *Store) deleteObject(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := s.exec(ctx, tx, `DELETE FROM objects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "object", id); err != nil {
		return err
	}
	if _, err := s.exec(ctx, tx, `DELETE FROM object_images WHERE object_id = ?`, id); err != nil {
		return err
	}
	_, err = s.exec(ctx, tx, `DELETE FROM object_events WHERE object_id = ?`, id)
	return err
}

func (s *Store) MarkReturned(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, `UPDATE objects SET status = ? WHERE id = ?`, string(models.StatusReturned), id)
		if err != nil {
			return err
		}
		if err := mustAffect(res, "object", id); err != nil {
			return err
		}
		return s.addEvent(ctx, tx, id, "Objeto devolvido ao dono")
	})
}

func (s *Store) FetchMatches(ctx context.Context, userID string) ([]models.ObjectSummary, error) {
	all, err := s.ListObjects(ctx, models.ObjectFilter{})
	if err != nil {
		return nil, err
	}
	var own, others []models.ObjectSummary
	for _, o := range all {
		if o.OwnerID == userID {
			own = append(own, o)
		} else {
			others = append(others, o)
		}
	}
	return backend.Matches(own, others), nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT
        COUNT(*),
        COALESCE(SUM(CASE WHEN status <> ? AND kind = ? THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN status <> ? AND kind = ? THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
        FROM objects`),
		string(models.StatusReturned), string(models.KindLost),
		string(models.StatusReturned), string(models.KindFound),
		string(models.StatusReturned))
	if err := row.Scan(&st.TotalObjects, &st.Lost, &st.Found, &st.Returned); err != nil {
		return st, fmt.Errorf("object stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM reports WHERE status = ?`), string(models.ReportPending)).Scan(&st.PendingReports); err != nil {
		return st, fmt.Errorf("report stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&st.Users); err != nil {
		return st, fmt.Errorf("user stats: %w", err)
	}
	return st, nil
}
