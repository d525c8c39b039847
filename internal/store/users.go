package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var userColumns = []string{"id", "name", "overall_level", "total_xp", "locale", "created_at", "updated_at"}

type userRepo struct {
	db dbtx
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if u.Locale == "" {
		u.Locale = "en"
	}

	ins := sqlite().Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.OverallLevel, u.TotalXP, u.Locale, toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) Get(ctx context.Context, id string) (*User, error) {
	sel := sqlite().Select(userColumns...).
		From(entsql.Table("users")).
		Where(entsql.EQ("id", id))

	u, err := scanUser(selectRow(ctx, r.db, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]User, error) {
	sel := sqlite().Select(userColumns...).
		From(entsql.Table("users")).
		OrderBy("created_at", "id")

	rows, err := selectRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepo) SetLevel(ctx context.Context, id string, level int) (bool, error) {
	upd := sqlite().Update("users").
		Set("overall_level", level).
		Set("updated_at", toMillis(time.Now())).
		Where(entsql.EQ("id", id))

	res, err := execQuery(ctx, r.db, upd)
	if err != nil {
		return false, fmt.Errorf("set user level: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set user level: %w", err)
	}
	return n > 0, nil
}

func (r *userRepo) AddXP(ctx context.Context, id string, xp int) error {
	upd := sqlite().Update("users").
		Add("total_xp", xp).
		Set("updated_at", toMillis(time.Now())).
		Where(entsql.EQ("id", id))

	if _, err := execQuery(ctx, r.db, upd); err != nil {
		return fmt.Errorf("add user xp: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u                User
		created, updated int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.OverallLevel, &u.TotalXP, &u.Locale, &created, &updated); err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return &u, nil
}
