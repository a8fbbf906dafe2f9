package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/stagedoor/internal/model"
)

// DrinkRepo manages the coffee shop menu.  Recipes are stored as JSON.
type DrinkRepo struct {
	db *sql.DB
}

func NewDrinkRepo(db *sql.DB) *DrinkRepo { return &DrinkRepo{db: db} }

// Create inserts d; a duplicate title is a conflict.
func (r *DrinkRepo) Create(ctx context.Context, d *model.Drink) error {
	recipe, err := encodeRecipe(d.Recipe)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO drinks (title, recipe) VALUES (?, ?)`, d.Title, recipe)
	if err != nil {
		return writeErr("drink", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// GetByID returns the drink or ErrDrinkNotFound.
func (r *DrinkRepo) GetByID(ctx context.Context, id int64) (*model.Drink, error) {
	var (
		d      model.Drink
		recipe string
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, title, recipe FROM drinks WHERE id = ?`, id).Scan(&d.ID, &d.Title, &recipe)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrinkNotFound
		}
		return nil, err
	}
	if d.Recipe, err = decodeRecipe(recipe); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns the whole menu ordered by id.
func (r *DrinkRepo) List(ctx context.Context) ([]model.Drink, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, recipe FROM drinks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Drink, 0)
	for rows.Next() {
		var (
			d      model.Drink
			recipe string
		)
		if err := rows.Scan(&d.ID, &d.Title, &recipe); err != nil {
			return nil, err
		}
		if d.Recipe, err = decodeRecipe(recipe); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update stores the title and recipe of d.
func (r *DrinkRepo) Update(ctx context.Context, d *model.Drink) error {
	recipe, err := encodeRecipe(d.Recipe)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE drinks SET title = ?, recipe = ? WHERE id = ?`, d.Title, recipe, d.ID)
	if err != nil {
		return writeErr("drink", err)
	}
	return affected(res, ErrDrinkNotFound)
}

// Delete removes a drink.
func (r *DrinkRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drinks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, ErrDrinkNotFound)
}

func encodeRecipe(recipe []model.Ingredient) (string, error) {
	if recipe == nil {
		recipe = []model.Ingredient{}
	}
	b, err := json.Marshal(recipe)
	if err != nil {
		return "", fmt.Errorf("encode recipe: %w", err)
	}
	return string(b), nil
}

func decodeRecipe(raw string) ([]model.Ingredient, error) {
	out := []model.Ingredient{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	return out, nil
}
