package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"clipshelf/application/ports"
	"clipshelf/application/projections"
	"clipshelf/domain/core/valueobjects"
	"clipshelf/pkg/errors"
)

// ProjectionStore persists the read models. Absent records come back as
// (nil, nil); errors are reserved for storage failures.
type ProjectionStore struct {
	db *sql.DB
}

var _ ports.ProjectionStore = (*ProjectionStore)(nil)

func NewProjectionStore(db *sql.DB) *ProjectionStore {
	return &ProjectionStore{db: db}
}

func (s *ProjectionStore) GetList(ctx context.Context, id string) (*projections.ListProjection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, icon, color, description, created_at, updated_at
		 FROM list_projections WHERE id = ?`, id)
	record, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

func (s *ProjectionStore) PutList(ctx context.Context, record *projections.ListProjection) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO list_projections (id, name, icon, color, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			icon = excluded.icon,
			color = excluded.color,
			description = excluded.description,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		record.ID, record.Name, record.Icon, record.Color, record.Description,
		formatTime(record.CreatedAt), formatTime(record.UpdatedAt))
	if err != nil {
		return errors.Wrap(err, "failed to put list projection")
	}
	return nil
}

func (s *ProjectionStore) DeleteList(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM list_projections WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "failed to delete list projection")
	}
	return nil
}

func (s *ProjectionStore) AllLists(ctx context.Context) ([]*projections.ListProjection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, icon, color, description, created_at, updated_at
		 FROM list_projections ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query list projections")
	}
	defer rows.Close()

	var result []*projections.ListProjection
	for rows.Next() {
		record, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (s *ProjectionStore) GetItem(ctx context.Context, id string) (*projections.ItemProjection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, url, image, description, item_type, json_ld, created_at, updated_at
		 FROM item_projections WHERE id = ?`, id)
	record, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

func (s *ProjectionStore) GetItemByURL(ctx context.Context, url string) (*projections.ItemProjection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, url, image, description, item_type, json_ld, created_at, updated_at
		 FROM item_projections WHERE url = ? LIMIT 1`, url)
	record, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

func (s *ProjectionStore) PutItem(ctx context.Context, record *projections.ItemProjection) error {
	jsonLD := ""
	if record.JSONLD != nil {
		data, err := json.Marshal(record.JSONLD)
		if err != nil {
			return errors.Wrap(err, "failed to marshal item json-ld")
		}
		jsonLD = string(data)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO item_projections (id, name, url, image, description, item_type, json_ld, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			image = excluded.image,
			description = excluded.description,
			item_type = excluded.item_type,
			json_ld = excluded.json_ld,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		record.ID, record.Name, record.URL, record.Image, record.Description,
		record.ItemType, jsonLD, formatTime(record.CreatedAt), formatTime(record.UpdatedAt))
	if err != nil {
		return errors.Wrap(err, "failed to put item projection")
	}
	return nil
}

func (s *ProjectionStore) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM item_projections WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "failed to delete item projection")
	}
	return nil
}

func (s *ProjectionStore) AllItems(ctx context.Context) ([]*projections.ItemProjection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, url, image, description, item_type, json_ld, created_at, updated_at
		 FROM item_projections ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query item projections")
	}
	defer rows.Close()

	var result []*projections.ItemProjection
	for rows.Next() {
		record, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (s *ProjectionStore) PutTriple(ctx context.Context, triple valueobjects.Triple) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO triples (subject, predicate, object, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(subject, predicate, object) DO NOTHING`,
		triple.Subject, string(triple.Predicate), triple.Object, formatTime(triple.CreatedAt))
	if err != nil {
		return errors.Wrap(err, "failed to put triple")
	}
	return nil
}

func (s *ProjectionStore) DeleteTriple(ctx context.Context, subject string, predicate valueobjects.Predicate, object string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM triples WHERE subject = ? AND predicate = ? AND object = ?`,
		subject, string(predicate), object)
	if err != nil {
		return errors.Wrap(err, "failed to delete triple")
	}
	return nil
}

func (s *ProjectionStore) DeleteTriplesBySubjectPredicate(ctx context.Context, subject string, predicate valueobjects.Predicate) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM triples WHERE subject = ? AND predicate = ?`,
		subject, string(predicate))
	if err != nil {
		return errors.Wrap(err, "failed to delete triples by subject and predicate")
	}
	return nil
}

func (s *ProjectionStore) TriplesBySubject(ctx context.Context, subject string) ([]valueobjects.Triple, error) {
	return s.queryTriples(ctx,
		`SELECT subject, predicate, object, created_at FROM triples WHERE subject = ?`, subject)
}

func (s *ProjectionStore) TriplesByObject(ctx context.Context, object string) ([]valueobjects.Triple, error) {
	return s.queryTriples(ctx,
		`SELECT subject, predicate, object, created_at FROM triples WHERE object = ?`, object)
}

func (s *ProjectionStore) ClearProjections(ctx context.Context) error {
	for _, table := range []string{"list_projections", "item_projections", "triples"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return errors.Wrap(err, "failed to clear projections")
		}
	}
	return nil
}

func (s *ProjectionStore) queryTriples(ctx context.Context, query string, arg string) ([]valueobjects.Triple, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query triples")
	}
	defer rows.Close()

	var result []valueobjects.Triple
	for rows.Next() {
		var subject, predicate, object, createdAt string
		if err := rows.Scan(&subject, &predicate, &object, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan triple row")
		}
		result = append(result, valueobjects.Triple{
			Subject:   subject,
			Predicate: valueobjects.Predicate(predicate),
			Object:    object,
			CreatedAt: parseTime(createdAt),
		})
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanList(row rowScanner) (*projections.ListProjection, error) {
	var record projections.ListProjection
	var createdAt, updatedAt string
	err := row.Scan(&record.ID, &record.Name, &record.Icon, &record.Color,
		&record.Description, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan list projection")
	}
	record.CreatedAt = parseTime(createdAt)
	record.UpdatedAt = parseTime(updatedAt)
	return &record, nil
}

func scanItem(row rowScanner) (*projections.ItemProjection, error) {
	var record projections.ItemProjection
	var jsonLD, createdAt, updatedAt string
	err := row.Scan(&record.ID, &record.Name, &record.URL, &record.Image,
		&record.Description, &record.ItemType, &jsonLD, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan item projection")
	}
	if jsonLD != "" {
		if err := json.Unmarshal([]byte(jsonLD), &record.JSONLD); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal item json-ld")
		}
	}
	record.CreatedAt = parseTime(createdAt)
	record.UpdatedAt = parseTime(updatedAt)
	return &record, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
