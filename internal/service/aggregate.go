package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/logger"
	"github.com/randel-bjorkquist/pluralsight/internal/metrics"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/validation"
)

// Aggregate describes a parent entity and the children saved with it
type Aggregate[P, C domain.Record] struct {
	Name      string // parent name used in messages and codes, e.g. "contact"
	ChildName string

	Parents repository.Gateway[P]
	// Children may also implement repository.BatchDeleter. Its Update must
	// only match rows already owned by the child's parent.
	Children repository.Gateway[C]

	ChildrenOf func(parent P) []C
	Attach     func(child C, parentID int)
	ParentOf   func(child C) int
}

// SaverOption configures an AggregateSaver
type SaverOption func(*saverConfig)

type saverConfig struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func newSaverConfig(opts []SaverOption) saverConfig {
	cfg := saverConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger used for save diagnostics
func WithLogger(log zerolog.Logger) SaverOption {
	return func(c *saverConfig) { c.log = log }
}

// WithMetrics records save outcomes in m
func WithMetrics(m *metrics.Metrics) SaverOption {
	return func(c *saverConfig) { c.metrics = m }
}

// SaveOption adjusts a single save
type SaveOption func(*saveOptions)

type saveOptions struct {
	allowDeletedOnCreate bool
}

// AllowDeletedOnCreate accepts unsaved records that are already flagged
// deleted. They are skipped instead of rejected.
func AllowDeletedOnCreate() SaveOption {
	return func(o *saveOptions) { o.allowDeletedOnCreate = true }
}

// AggregateSaver persists an aggregate in a single transaction
type AggregateSaver[P, C domain.Record] struct {
	db  repository.Transactor
	agg Aggregate[P, C]
	saverConfig
}

// NewAggregateSaver creates a saver for agg. It panics when agg is missing
// a gateway or accessor.
func NewAggregateSaver[P, C domain.Record](db repository.Transactor, agg Aggregate[P, C], opts ...SaverOption) *AggregateSaver[P, C] {
	if db == nil || agg.Parents == nil || agg.Children == nil || agg.ChildrenOf == nil || agg.Attach == nil || agg.ParentOf == nil {
		panic(fmt.Sprintf("service: incomplete aggregate %q", agg.Name))
	}
	return &AggregateSaver[P, C]{
		db:          db,
		agg:         agg,
		saverConfig: newSaverConfig(opts),
	}
}

// Save validates parent and its children, then creates, updates or deletes
// them in one transaction. On failure nothing is committed and ids assigned
// during the attempt are reset.
func (s *AggregateSaver[P, C]) Save(ctx context.Context, parent P, opts ...SaveOption) result.Of[P] {
	if isNil(parent) {
		return result.FailureWith[P](result.TypeError,
			fmt.Sprintf("%s is required.", title(s.agg.Name)), result.WithCode(domain.CodeRequired))
	}

	so := applySaveOptions(opts)
	started := time.Now()
	lifecycle := domain.Classify(parent)
	children := s.agg.ChildrenOf(parent)

	log := s.log.With().
		Str("save_id", uuid.NewString()).
		Str("aggregate", s.agg.Name).
		Str("lifecycle", string(lifecycle)).
		Int("id", parent.GetID()).
		Int("children", len(children)).
		Logger()
	log.Debug().Msg("saving aggregate")

	res := s.save(ctx, log, parent, lifecycle, children, so)

	elapsed := time.Since(started)
	s.metrics.ObserveSave(s.agg.Name, string(lifecycle), res.IsSuccess(), elapsed)
	if res.IsSuccess() {
		log.Info().Int("id", parent.GetID()).Dur("elapsed", elapsed).Msg("aggregate saved")
	} else {
		log.Warn().Dur("elapsed", elapsed).Msg("aggregate save failed")
		logger.Messages(log, res.Messages())
	}
	return res
}

func (s *AggregateSaver[P, C]) save(ctx context.Context, log zerolog.Logger, parent P, lifecycle domain.Lifecycle, children []C, so saveOptions) result.Of[P] {
	msgs := validateRecord(parent, lifecycle, so.allowDeletedOnCreate, nil)
	if lifecycle != domain.LifecycleDeleted {
		s.validateChildren(children, so, msgs)
	}
	if msgs.HasErrors() {
		log.Debug().Int("errors", len(msgs.Errors())).Msg("validation failed")
		return result.FailureOf[P](msgs)
	}

	if lifecycle == domain.LifecycleDeleted && parent.GetID() <= 0 {
		msgs.AddInformation(fmt.Sprintf("%s was never saved; nothing to delete.", title(s.agg.Name)))
		return result.SuccessOf(parent, msgs)
	}

	err := s.inTx(ctx, log, s.agg.Name, func(tx repository.Tx, undo *[]func()) error {
		switch lifecycle {
		case domain.LifecycleDeleted:
			return s.deleteParent(ctx, tx, parent)
		case domain.LifecycleNew:
			if err := create(ctx, tx, s.agg.Parents, parent, s.agg.Name, undo); err != nil {
				return err
			}
		default:
			if err := update(ctx, tx, s.agg.Parents, parent, s.agg.Name); err != nil {
				return err
			}
		}
		for _, child := range children {
			s.agg.Attach(child, parent.GetID())
		}
		return s.saveChildren(ctx, tx, parent.GetID(), children, msgs, undo)
	})
	if err != nil {
		return result.FailureOf[P](failureMessages(msgs, err))
	}

	msgs.AddSuccess(fmt.Sprintf("%s %d %s.", title(s.agg.Name), parent.GetID(), pastTense(lifecycle)))
	return result.SuccessOf(parent, msgs)
}

// SaveChildren saves children of a stored parent in one transaction:
// deleted children are removed first, the rest are created or updated.
func (s *AggregateSaver[P, C]) SaveChildren(ctx context.Context, parentID int, children []C, opts ...SaveOption) result.Of[[]C] {
	if parentID <= 0 {
		return result.FailureWith[[]C](result.TypeError,
			fmt.Sprintf("%s id must be greater than 0 (zero).", title(s.agg.Name)), result.WithCode(domain.CodeInvalidID))
	}

	so := applySaveOptions(opts)
	started := time.Now()
	log := s.log.With().
		Str("save_id", uuid.NewString()).
		Str("aggregate", s.agg.ChildName).
		Int("parent_id", parentID).
		Int("children", len(children)).
		Logger()

	msgs := s.validateChildren(children, so, nil)
	if msgs.HasErrors() {
		s.metrics.ObserveSave(s.agg.ChildName, "batch", false, time.Since(started))
		return result.FailureOf[[]C](msgs)
	}

	err := s.inTx(ctx, log, s.agg.ChildName, func(tx repository.Tx, undo *[]func()) error {
		for _, child := range children {
			s.agg.Attach(child, parentID)
		}
		return s.saveChildren(ctx, tx, parentID, children, msgs, undo)
	})
	s.metrics.ObserveSave(s.agg.ChildName, "batch", err == nil, time.Since(started))
	if err != nil {
		log.Warn().Err(err).Msg("child save failed")
		return result.FailureOf[[]C](failureMessages(msgs, err))
	}

	msgs.AddSuccess(fmt.Sprintf("%d %s record(s) saved for %s %d.", len(children), s.agg.ChildName, s.agg.Name, parentID))
	log.Info().Msg("children saved")
	return result.SuccessOf(children, msgs)
}

// inTx runs fn in a transaction and commits when it succeeds. Otherwise the
// transaction is rolled back and the undo hooks run in reverse order.
func (s *AggregateSaver[P, C]) inTx(ctx context.Context, log zerolog.Logger, entity string, fn func(tx repository.Tx, undo *[]func()) error) error {
	if err := ctx.Err(); err != nil {
		return &opError{verb: "begin", entity: entity, err: err}
	}
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return &opError{verb: "begin", entity: entity, err: err}
	}

	var undo []func()
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error().Err(err).Msg("rollback failed")
		} else {
			log.Debug().Msg("transaction rolled back")
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	if err := fn(tx, &undo); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &opError{verb: "commit", entity: entity, err: err}
	}
	if err := tx.Commit(); err != nil {
		return &opError{verb: "commit", entity: entity, err: err}
	}
	committed = true
	return nil
}

func (s *AggregateSaver[P, C]) deleteParent(ctx context.Context, tx repository.Tx, parent P) error {
	if err := ctx.Err(); err != nil {
		return &opError{verb: "delete", entity: s.agg.Name, err: err}
	}
	ok, err := s.agg.Parents.Delete(ctx, tx, parent.GetID())
	if err != nil {
		return &opError{verb: "delete", entity: s.agg.Name, err: err}
	}
	if !ok {
		return &opError{verb: "delete", entity: s.agg.Name, err: fmt.Errorf("id %d: %w", parent.GetID(), repository.ErrNotFound)}
	}
	return nil
}

func (s *AggregateSaver[P, C]) saveChildren(ctx context.Context, tx repository.Tx, parentID int, children []C, msgs *result.MessageCollection, undo *[]func()) error {
	var ids []int
	seen := make(map[int]bool)
	for i, child := range children {
		if domain.Classify(child) != domain.LifecycleDeleted {
			continue
		}
		id := child.GetID()
		if id <= 0 {
			msgs.AddInformation(fmt.Sprintf("%s[%d] was never saved; nothing to delete.", s.agg.ChildName, i))
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if err := s.deleteChildren(ctx, tx, parentID, ids); err != nil {
		return err
	}

	for _, child := range children {
		switch domain.Classify(child) {
		case domain.LifecycleNew:
			if err := create(ctx, tx, s.agg.Children, child, s.agg.ChildName, undo); err != nil {
				return err
			}
		case domain.LifecycleExisting:
			if err := update(ctx, tx, s.agg.Children, child, s.agg.ChildName); err != nil {
				return err
			}
		}
	}
	return nil
}

// deleteChildren removes the children of parentID with the given ids. An id
// that is missing or owned by another parent fails the save.
func (s *AggregateSaver[P, C]) deleteChildren(ctx context.Context, tx repository.Tx, parentID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	name := s.agg.ChildName
	if err := ctx.Err(); err != nil {
		return &opError{verb: "delete", entity: name, err: err}
	}

	if batch, ok := s.agg.Children.(repository.BatchDeleter); ok {
		n, err := batch.DeleteMany(ctx, tx, parentID, ids)
		if err != nil {
			return &opError{verb: "delete", entity: name, err: err}
		}
		if n != len(ids) {
			return &opError{verb: "delete", entity: name, err: repository.RowCountError(name+".delete", int64(len(ids)), int64(n))}
		}
		return nil
	}

	for _, id := range ids {
		stored, err := s.agg.Children.GetByID(ctx, tx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return &opError{verb: "delete", entity: name, err: err}
		}
		if err != nil || s.agg.ParentOf(stored) != parentID {
			return &opError{verb: "delete", entity: name, err: repository.RowCountError(name+".delete", 1, 0)}
		}
		ok, err := s.agg.Children.Delete(ctx, tx, id)
		if err != nil {
			return &opError{verb: "delete", entity: name, err: err}
		}
		if !ok {
			return &opError{verb: "delete", entity: name, err: repository.RowCountError(name+".delete", 1, 0)}
		}
	}
	return nil
}

func (s *AggregateSaver[P, C]) validateChildren(children []C, so saveOptions, msgs *result.MessageCollection) *result.MessageCollection {
	msgs = validation.Ensure(msgs)
	for i, child := range children {
		prefix := fmt.Sprintf("%s[%d]: ", s.agg.ChildName, i)
		if isNil(child) {
			msgs.AddError(prefix+"value is required.", result.WithCode(domain.CodeRequired))
			continue
		}
		for _, m := range validateRecord(child, domain.Classify(child), so.allowDeletedOnCreate, nil).All() {
			_ = msgs.Add(m.Prefixed(prefix))
		}
	}
	return msgs
}

// validateRecord checks r for the action its lifecycle implies. Deleted
// records only need an id, or the override when they were never saved.
func validateRecord(r domain.Record, lifecycle domain.Lifecycle, allowDeletedOnCreate bool, msgs *result.MessageCollection) *result.MessageCollection {
	switch lifecycle {
	case domain.LifecycleNew:
		return r.Validate(true, msgs)
	case domain.LifecycleExisting:
		return r.Validate(false, msgs)
	}
	msgs = validation.Ensure(msgs)
	if r.GetID() > 0 {
		return msgs
	}
	if d, ok := r.(domain.DeletionValidator); ok {
		return d.ValidateDeletion(true, allowDeletedOnCreate, msgs)
	}
	return msgs
}

func create[E domain.Record](ctx context.Context, tx repository.Tx, gw repository.Gateway[E], e E, entity string, undo *[]func()) error {
	if err := ctx.Err(); err != nil {
		return &opError{verb: "create", entity: entity, err: err}
	}
	prev := e.GetID()
	if err := gw.Create(ctx, tx, e); err != nil {
		return &opError{verb: "create", entity: entity, err: err}
	}
	*undo = append(*undo, func() { e.SetID(prev) })
	return nil
}

func update[E domain.Record](ctx context.Context, tx repository.Tx, gw repository.Gateway[E], e E, entity string) error {
	if err := ctx.Err(); err != nil {
		return &opError{verb: "update", entity: entity, err: err}
	}
	if err := gw.Update(ctx, tx, e); err != nil {
		return &opError{verb: "update", entity: entity, err: err}
	}
	return nil
}

// opError names the gateway call that failed
type opError struct {
	verb   string
	entity string
	err    error
}

func (e *opError) Error() string { return e.verb + " " + e.entity + ": " + e.err.Error() }

func (e *opError) Unwrap() error { return e.err }

// code returns e.g. CONTACT_CREATE_FAILED
func (e *opError) code() string {
	return strings.ToUpper(e.entity + "_" + e.verb + "_FAILED")
}

// failureMessages appends the message describing err to msgs
func failureMessages(msgs *result.MessageCollection, err error) *result.MessageCollection {
	code := "SAVE_FAILED"
	var op *opError
	if errors.As(err, &op) {
		code = op.code()
	}
	if errors.Is(err, repository.ErrNotFound) {
		msgs.AddNotFound(err.Error(), result.WithCode(result.CodeNotFound))
	} else {
		msgs.AddError(err.Error(), result.WithCode(code))
	}
	return msgs
}

func applySaveOptions(opts []SaveOption) saveOptions {
	var so saveOptions
	for _, opt := range opts {
		opt(&so)
	}
	return so
}

func pastTense(l domain.Lifecycle) string {
	switch l {
	case domain.LifecycleNew:
		return "created"
	case domain.LifecycleDeleted:
		return "deleted"
	default:
		return "updated"
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
