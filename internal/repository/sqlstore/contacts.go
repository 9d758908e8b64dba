package sqlstore

import (
	"context"
	"database/sql"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
)

const contactColumns = `id, first_name, last_name, email, company, title`

// ContactGateway persists contacts. Addresses are not touched.
type ContactGateway struct {
	s *Store
}

var _ repository.ContactRepository = (*ContactGateway)(nil)

// Create inserts a contact and assigns its id
func (g *ContactGateway) Create(ctx context.Context, db repository.DB, c *domain.Contact) error {
	const op = "contact.create"
	return g.s.run(ctx, op, func(ctx context.Context) error {
		id, err := g.s.insertID(ctx, db, op, `
			INSERT INTO contacts (first_name, last_name, email, company, title)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id
		`, c.FirstName, c.LastName, stringToNull(c.Email), stringToNull(c.Company), stringToNull(c.Title))
		if err != nil {
			return err
		}
		c.SetID(id)
		return nil
	})
}

// Update rewrites a contact's fields
func (g *ContactGateway) Update(ctx context.Context, db repository.DB, c *domain.Contact) error {
	const op = "contact.update"
	return g.s.run(ctx, op, func(ctx context.Context) error {
		return g.s.execOne(ctx, db, op, `
			UPDATE contacts
			SET first_name = ?, last_name = ?, email = ?, company = ?, title = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, c.FirstName, c.LastName, stringToNull(c.Email), stringToNull(c.Company), stringToNull(c.Title), c.ID)
	})
}

// Delete removes a contact; its addresses cascade
func (g *ContactGateway) Delete(ctx context.Context, db repository.DB, id int) (bool, error) {
	const op = "contact.delete"
	var deleted bool
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		res, err := db.ExecContext(ctx, g.s.q(`DELETE FROM contacts WHERE id = ?`), id)
		if err != nil {
			return g.s.translate(op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return g.s.translate(op, err)
		}
		deleted = n == 1
		return nil
	})
	return deleted, err
}

// GetByID loads a contact without its addresses
func (g *ContactGateway) GetByID(ctx context.Context, db repository.DB, id int) (*domain.Contact, error) {
	const op = "contact.get"
	var c *domain.Contact
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		row := db.QueryRowContext(ctx, g.s.q(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`), id)
		var err error
		c, err = scanContact(row)
		if err != nil {
			return g.s.notFound(op, id, err)
		}
		return nil
	})
	return c, err
}

// List returns every contact ordered by id
func (g *ContactGateway) List(ctx context.Context, db repository.DB) ([]*domain.Contact, error) {
	const op = "contact.list"
	var out []*domain.Contact
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = g.query(ctx, db, op, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
		return err
	})
	return out, err
}

// ListByIDs returns the contacts with the given ids ordered by id. Unknown
// ids are skipped.
func (g *ContactGateway) ListByIDs(ctx context.Context, db repository.DB, ids []int) ([]*domain.Contact, error) {
	const op = "contact.list_by_ids"
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []*domain.Contact{}, nil
	}

	var out []*domain.Contact
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = g.query(ctx, db, op,
			`SELECT `+contactColumns+` FROM contacts WHERE id IN (`+inClause(len(ids))+`) ORDER BY id`,
			intArgs(ids)...)
		return err
	})
	return out, err
}

// BulkCreate inserts every contact and returns the number of rows written.
// Addresses are ignored.
func (g *ContactGateway) BulkCreate(ctx context.Context, db repository.DB, contacts []*domain.Contact) (int, error) {
	inserted := 0
	for _, c := range contacts {
		if err := g.Create(ctx, db, c); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (g *ContactGateway) query(ctx context.Context, db repository.DB, op, query string, args ...any) ([]*domain.Contact, error) {
	rows, err := db.QueryContext(ctx, g.s.q(query), args...)
	if err != nil {
		return nil, g.s.translate(op, err)
	}
	defer rows.Close()

	out := []*domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, g.s.translate(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, g.s.translate(op, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (*domain.Contact, error) {
	var (
		c                     domain.Contact
		email, company, title sql.NullString
	)
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &email, &company, &title); err != nil {
		return nil, err
	}
	c.Email = nullToString(email)
	c.Company = nullToString(company)
	c.Title = nullToString(title)
	return &c, nil
}
