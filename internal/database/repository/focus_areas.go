package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hushapp/hush/internal/database"
)

// FocusAreaRepo handles focus areas.
type FocusAreaRepo struct {
	db *sql.DB
}

func NewFocusAreaRepo(db *sql.DB) *FocusAreaRepo { return &FocusAreaRepo{db: db} }

// List returns all focus areas, newest first.
func (r *FocusAreaRepo) List(ctx context.Context) ([]FocusArea, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, title, latitude, longitude, address, created_at
	FROM focus_areas
	ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FocusArea
	for rows.Next() {
		var a FocusArea
		if err := rows.Scan(&a.ID, &a.Title, &a.Latitude, &a.Longitude, &a.Address, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *FocusAreaRepo) Get(ctx context.Context, id string) (*FocusArea, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, title, latitude, longitude, address, created_at
	FROM focus_areas WHERE id = ?`, id)
	var a FocusArea
	if err := row.Scan(&a.ID, &a.Title, &a.Latitude, &a.Longitude, &a.Address, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Save inserts a new focus area and returns it with id and createdAt set.
func (r *FocusAreaRepo) Save(ctx context.Context, title string, lat, lon float64, address string) (FocusArea, error) {
	a := FocusArea{
		ID:        uuid.NewString(),
		Title:     title,
		Latitude:  lat,
		Longitude: lon,
		Address:   address,
		CreatedAt: database.Now(),
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO focus_areas(id, title, latitude, longitude, address, created_at)
	VALUES(?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Latitude, a.Longitude, a.Address, a.CreatedAt)
	if err != nil {
		return FocusArea{}, err
	}
	return a, nil
}

// Rename updates the title, the one mutable field.
func (r *FocusAreaRepo) Rename(ctx context.Context, id, title string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE focus_areas SET title = ? WHERE id = ?`, title, id)
	return err
}

func (r *FocusAreaRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM focus_areas WHERE id = ?`, id)
	return err
}
