package sqlstore

import (
	"context"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
)

// StateGateway reads the state lookup table
type StateGateway struct {
	s *Store
}

var _ repository.StateRepository = (*StateGateway)(nil)

// List returns every state ordered by id
func (g *StateGateway) List(ctx context.Context, db repository.DB) ([]domain.State, error) {
	const op = "state.list"
	out := []domain.State{}
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, `SELECT id, name, abbreviation FROM states ORDER BY id`)
		if err != nil {
			return g.s.translate(op, err)
		}
		defer rows.Close()

		for rows.Next() {
			var st domain.State
			if err := rows.Scan(&st.ID, &st.Name, &st.Abbreviation); err != nil {
				return g.s.translate(op, err)
			}
			out = append(out, st)
		}
		return g.s.translate(op, rows.Err())
	})
	return out, err
}

// GetByID loads one state
func (g *StateGateway) GetByID(ctx context.Context, db repository.DB, id int) (domain.State, error) {
	const op = "state.get"
	var st domain.State
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		err := db.QueryRowContext(ctx, g.s.q(`SELECT id, name, abbreviation FROM states WHERE id = ?`), id).
			Scan(&st.ID, &st.Name, &st.Abbreviation)
		if err != nil {
			return g.s.notFound(op, id, err)
		}
		return nil
	})
	return st, err
}

// Seed inserts the states that are not present yet and returns how many
// rows were added.
func (g *StateGateway) Seed(ctx context.Context, db repository.DB, states []domain.State) (int, error) {
	const op = "state.seed"
	added := 0
	err := g.s.run(ctx, op, func(ctx context.Context) error {
		query := g.s.q(`INSERT INTO states (id, name, abbreviation) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`)
		for _, st := range states {
			res, err := db.ExecContext(ctx, query, st.ID, st.Name, st.Abbreviation)
			if err != nil {
				return g.s.translate(op, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return g.s.translate(op, err)
			}
			added += int(n)
		}
		return nil
	})
	return added, err
}
