package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const productColumns = `id, name, description, price, stock, created_at, updated_at`

const findByID = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) FindByID(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, findByID, id))
}

const findByName = `SELECT ` + productColumns + ` FROM products WHERE lower(name) = lower($1)`

func (q *Queries) FindByName(ctx context.Context, name string) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, findByName, name))
}

const findAll = `SELECT ` + productColumns + ` FROM products ORDER BY id`

func (q *Queries) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, findAll)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		return scanProduct(row)
	})
}

const create = `INSERT INTO products (name, description, price, stock)
VALUES ($1, $2, $3, $4)
RETURNING ` + productColumns

type CreateParams struct {
	Name        string
	Description string
	Price       float64
	Stock       int32
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Product, error) {
	row := q.db.QueryRow(ctx, create, arg.Name, arg.Description, arg.Price, arg.Stock)
	return scanProduct(row)
}

const update = `UPDATE products
SET name = $2, description = $3, price = $4, stock = $5, updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateParams struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int32
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Product, error) {
	row := q.db.QueryRow(ctx, update, arg.ID, arg.Name, arg.Description, arg.Price, arg.Stock)
	return scanProduct(row)
}

const deleteByID = `DELETE FROM products WHERE id = $1`

// Delete returns the number of deleted rows.
func (q *Queries) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
