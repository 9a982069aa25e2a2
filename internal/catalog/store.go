package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var ErrNotFound = errors.New("sweet not found")

// whereClauses builds the WHERE fragment for a filter. strpos keeps the
// substring match case-sensitive and treats the needle literally, with
// no LIKE wildcard surprises.
func whereClauses(f Filter) ([]string, []interface{}) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if f.Search != "" {
		clauses = append(clauses, "(strpos(name, $"+itoa(idx)+") > 0 OR strpos(category, $"+itoa(idx)+") > 0)")
		args = append(args, f.Search)
		idx++
	}
	if f.Name != "" {
		clauses = append(clauses, "strpos(name, $"+itoa(idx)+") > 0")
		args = append(args, f.Name)
		idx++
	}
	if f.Category != "" {
		clauses = append(clauses, "strpos(category, $"+itoa(idx)+") > 0")
		args = append(args, f.Category)
		idx++
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "price >= $"+itoa(idx))
		args = append(args, *f.MinPrice)
		idx++
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= $"+itoa(idx))
		args = append(args, *f.MaxPrice)
		idx++
	}
	return clauses, args
}

func (s *Store) List(ctx context.Context, f Filter) ([]Sweet, error) {
	clauses, args := whereClauses(f)
	query := "SELECT id, name, category, price, quantity, created_at FROM sweets WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Sweet{}
	for rows.Next() {
		var sw Sweet
		if err := rows.Scan(&sw.ID, &sw.Name, &sw.Category, &sw.Price, &sw.Quantity, &sw.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Sweet, error) {
	const q = `SELECT id, name, category, price, quantity, created_at FROM sweets WHERE id = $1`
	row := s.db.QueryRowContext(ctx, q, id)
	var sw Sweet
	if err := row.Scan(&sw.ID, &sw.Name, &sw.Category, &sw.Price, &sw.Quantity, &sw.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sw, nil
}

func (s *Store) Create(ctx context.Context, sw *Sweet) error {
	const q = `
		INSERT INTO sweets (name, category, price, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	row := s.db.QueryRowContext(ctx, q, sw.Name, sw.Category, sw.Price, sw.Quantity, time.Now().UTC())
	return row.Scan(&sw.ID, &sw.CreatedAt)
}

// setClauses builds the SET fragment for a patch. Only fields present in
// the request end up in the statement.
func setClauses(p Patch) ([]string, []interface{}) {
	sets := []string{}
	args := []interface{}{}
	idx := 1

	if p.Name != nil {
		sets = append(sets, "name = $"+itoa(idx))
		args = append(args, *p.Name)
		idx++
	}
	if p.Category != nil {
		sets = append(sets, "category = $"+itoa(idx))
		args = append(args, *p.Category)
		idx++
	}
	if p.Price != nil {
		sets = append(sets, "price = $"+itoa(idx))
		args = append(args, *p.Price)
		idx++
	}
	if p.Quantity != nil {
		sets = append(sets, "quantity = $"+itoa(idx))
		args = append(args, *p.Quantity)
		idx++
	}
	return sets, args
}

func (s *Store) Update(ctx context.Context, id int64, p Patch) (*Sweet, error) {
	sets, args := setClauses(p)
	if len(sets) == 0 {
		// Nothing to change, but the caller still expects the record
		// (or a not-found) back.
		return s.Get(ctx, id)
	}
	args = append(args, id)
	query := "UPDATE sweets SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + itoa(len(args)) +
		" RETURNING id, name, category, price, quantity, created_at"

	row := s.db.QueryRowContext(ctx, query, args...)
	var sw Sweet
	if err := row.Scan(&sw.ID, &sw.Name, &sw.Category, &sw.Price, &sw.Quantity, &sw.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sw, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM sweets WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sweets`)
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
