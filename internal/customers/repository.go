package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/customerhub/customerhub/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

// Repository is the keyed store behind the service. FindByID returns
// ErrNotFound when the id is absent. Save inserts when ID is zero and updates
// otherwise, assigning the id on insert.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) (*Customer, error)
	DeleteByID(ctx context.Context, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{
		db:   pool,
		pool: pool,
	}
}

const selectCustomers = `
	SELECT c.id, c.name, c.account_type, c.contract_type, c.created_at, c.updated_at,
	       d.id, d.sex, d.dob, d.native_place
	FROM customers c
	LEFT JOIN customer_details d ON d.customer_id = c.id`

func (r *repository) FindByID(ctx context.Context, id int64) (*Customer, error) {
	row := r.db.QueryRow(ctx, selectCustomers+" WHERE c.id = $1", id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, selectCustomers+" ORDER BY c.id")
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *repository) Save(ctx context.Context, customer *Customer) (*Customer, error) {
	if customer == nil {
		return nil, errors.New("save customer: nil customer")
	}
	now := time.Now()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	if customer.UpdatedAt.IsZero() {
		customer.UpdatedAt = now
	}

	id := customer.ID
	var detailsID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if id == 0 {
			err := tx.QueryRow(ctx, `
				INSERT INTO customers (name, account_type, contract_type, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				customer.Name, customer.AccountType, customer.ContractType, customer.CreatedAt, customer.UpdatedAt,
			).Scan(&id)
			if err != nil {
				return err
			}
		} else {
			tag, err := tx.Exec(ctx, `
				UPDATE customers SET name = $2, account_type = $3, contract_type = $4, updated_at = $5
				WHERE id = $1`,
				id, customer.Name, customer.AccountType, customer.ContractType, customer.UpdatedAt,
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}

		if customer.Details == nil {
			return nil
		}
		return tx.QueryRow(ctx, `
			INSERT INTO customer_details (customer_id, sex, dob, native_place)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (customer_id) DO UPDATE
			SET sex = EXCLUDED.sex, dob = EXCLUDED.dob, native_place = EXCLUDED.native_place
			RETURNING id`,
			id, string(customer.Details.Sex), pgtype.Date{Time: customer.Details.DOB, Valid: true}, customer.Details.NativePlace,
		).Scan(&detailsID)
	})
	if err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}

	customer.ID = id
	if customer.Details != nil {
		customer.Details.ID = detailsID
	}
	return customer, nil
}

func (r *repository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func scanCustomer(row rowScanner) (Customer, error) {
	var c Customer
	var createdAt, updatedAt pgtype.Timestamptz
	var detailsID pgtype.Int8
	var sex, nativePlace pgtype.Text
	var dob pgtype.Date

	err := row.Scan(
		&c.ID, &c.Name, &c.AccountType, &c.ContractType, &createdAt, &updatedAt,
		&detailsID, &sex, &dob, &nativePlace,
	)
	if err != nil {
		return Customer{}, err
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	if detailsID.Valid {
		c.Details = &CustomerDetails{
			ID:          detailsID.Int64,
			Sex:         Sex(sex.String),
			NativePlace: nativePlace.String,
		}
		if dob.Valid {
			c.Details.DOB = dob.Time
		}
	}
	return c, nil
}
