package sqlstore

import (
	"context"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
)

const addressColumns = `id, contact_id, address_type, street_address, city, state_id, postal_code`

// AddressGateway persists addresses
type AddressGateway struct {
	s *Store
}

var _ repository.AddressRepository = (*AddressGateway)(nil)

// Create inserts an address and assigns its id
func (g *AddressGateway) Create(ctx context.Context, db repository.DB, a *domain.Address) error {
	const op = "address.create"
	return g.s.run(ctx, op, func(ctx context.Context) error {
		id, err := g.s.insertID(ctx, db, op, `
			INSERT INTO addresses (contact_id, address_type, street_address, city, state_id, postal_code)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`, a.ContactID, a.AddressType, a.StreetAddress, a.City, a.StateID, a.PostalCode)
		if err != nil {
			return err
		}
		a.SetID(id)
		return nil
	})
}

// Update rewrites an address. The stored row must already belong to
// a.ContactID; an address of another contact is ErrRowCount.
func (g *AddressGateway) Update(ctx context.Context, db repository.DB, a *domain.Address) error {
	const op = "address.update"
	return g.s.run(ctx, op, func(ctx context.Context) error {
		return g.s.execOne(ctx, db, op, `
			UPDATE addresses
			SET address_type = ?, street_address = ?, city = ?, state_id = ?, postal_code = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND contact_id = ?
		`, a.AddressType, a.StreetAddress, a.City, a.StateID, a.PostalCode, a.ID, a.ContactID)
	})
}

// Delete removes one address
func (g *AddressGateway) Delete(ctx context.Context, db repository.DB, id int) (bool, error) {
	n, err := g.deleteWhere(ctx, db, "address.delete", `id = ?`, id)
	return n == 1, err
}

// DeleteMany removes the given addresses of one contact in one statement.
// Ids that belong to another contact are not deleted.
func (g *AddressGateway) DeleteMany(ctx context.Context, db repository.DB, contactID int, ids []int) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	args := append([]any{contactID}, intArgs(ids)...)
	return g.deleteWhere(ctx, db, "address.delete_many", `contact_id = ? AND id IN (`+inClause(len(ids))+`)`, args...)
}

func (g *AddressGateway) deleteWhere(ctx context.Context, db repository.DB, op, where string, args ...any) (int, error) {
	var removed int
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		res, err := db.ExecContext(ctx, g.s.q(`DELETE FROM addresses WHERE `+where), args...)
		if err != nil {
			return g.s.translate(op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return g.s.translate(op, err)
		}
		removed = int(n)
		return nil
	})
	return removed, err
}

// GetByID loads one address
func (g *AddressGateway) GetByID(ctx context.Context, db repository.DB, id int) (*domain.Address, error) {
	const op = "address.get"
	var a *domain.Address
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		row := db.QueryRowContext(ctx, g.s.q(`SELECT `+addressColumns+` FROM addresses WHERE id = ?`), id)
		var err error
		a, err = scanAddress(row)
		if err != nil {
			return g.s.notFound(op, id, err)
		}
		return nil
	})
	return a, err
}

// List returns every address ordered by contact then id
func (g *AddressGateway) List(ctx context.Context, db repository.DB) ([]*domain.Address, error) {
	const op = "address.list"
	var out []*domain.Address
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = g.query(ctx, db, op, `SELECT `+addressColumns+` FROM addresses ORDER BY contact_id, id`)
		return err
	})
	return out, err
}

// ListByContacts returns the addresses of the given contacts ordered by
// contact then id.
func (g *AddressGateway) ListByContacts(ctx context.Context, db repository.DB, contactIDs []int) ([]*domain.Address, error) {
	const op = "address.list_by_contacts"
	contactIDs = uniqueIDs(contactIDs)
	if len(contactIDs) == 0 {
		return []*domain.Address{}, nil
	}

	var out []*domain.Address
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = g.query(ctx, db, op,
			`SELECT `+addressColumns+` FROM addresses WHERE contact_id IN (`+inClause(len(contactIDs))+`) ORDER BY contact_id, id`,
			intArgs(contactIDs)...)
		return err
	})
	return out, err
}

// ListByState returns the addresses located in a state
func (g *AddressGateway) ListByState(ctx context.Context, db repository.DB, stateID int) ([]*domain.Address, error) {
	const op = "address.list_by_state"
	var out []*domain.Address
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = g.query(ctx, db, op,
			`SELECT `+addressColumns+` FROM addresses WHERE state_id = ? ORDER BY contact_id, id`, stateID)
		return err
	})
	return out, err
}

func (g *AddressGateway) query(ctx context.Context, db repository.DB, op, query string, args ...any) ([]*domain.Address, error) {
	rows, err := db.QueryContext(ctx, g.s.q(query), args...)
	if err != nil {
		return nil, g.s.translate(op, err)
	}
	defer rows.Close()

	out := []*domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, g.s.translate(op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, g.s.translate(op, err)
	}
	return out, nil
}

func scanAddress(row scanner) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(&a.ID, &a.ContactID, &a.AddressType, &a.StreetAddress, &a.City, &a.StateID, &a.PostalCode); err != nil {
		return nil, err
	}
	return &a, nil
}
