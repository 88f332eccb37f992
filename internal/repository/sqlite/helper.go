package sqlite

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/repository"
	"github.com/Riddhikharpe/house-helpers/internal/repository/xlsx"
)

var _ repository.HelperRepository = (*Store)(nil)

// Append inserts one helper row. The xid primary key sorts by creation
// time, but QueryAll orders by rowid so insertion order is exact.
func (s *Store) Append(ctx context.Context, record *model.HelperRecord) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO helpers (id, name, age, gender, address, contact, experience, photo_path, rate, registration_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		xid.New().String(),
		record.Name,
		record.Age,
		string(record.Gender),
		record.Address,
		record.Contact,
		record.Experience,
		record.PhotoPath,
		record.Rate,
		record.RegistrationDate,
	)
	if err != nil {
		return apperror.Storage("inserting helper", err)
	}
	return nil
}

func (s *Store) QueryAll(ctx context.Context) ([]model.HelperRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name, age, gender, address, contact, experience, photo_path, rate, registration_date
		 FROM helpers
		 ORDER BY rowid`,
	)
	if err != nil {
		return nil, apperror.Storage("listing helpers", err)
	}
	defer rows.Close()

	var records []model.HelperRecord
	for rows.Next() {
		var h model.HelperRecord
		var gender string
		if err := rows.Scan(
			&h.Name, &h.Age, &gender, &h.Address, &h.Contact,
			&h.Experience, &h.PhotoPath, &h.Rate, &h.RegistrationDate,
		); err != nil {
			return nil, apperror.Storage("scanning helper row", err)
		}
		h.Gender = model.Gender(gender)
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Storage("iterating helpers", err)
	}

	return records, nil
}

// Export renders every row into a spreadsheet with the same layout the
// xlsx store keeps on disk.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	records, err := s.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := xlsx.Encode(&buf, records); err != nil {
		return nil, apperror.Storage("exporting helpers", fmt.Errorf("sqlite: %w", err))
	}
	return buf.Bytes(), nil
}
