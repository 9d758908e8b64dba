package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/randel-bjorkquist/pluralsight/internal/codec"
	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/repository"
	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/validation"
)

// Message codes reported by ContactService
const (
	CodeStoreError   = "STORE_ERROR"
	CodeConstraint   = "CONSTRAINT_VIOLATION"
	CodeImportFailed = "IMPORT_FAILED"
	CodeExportFailed = "EXPORT_FAILED"
)

// FillOptions selects related rows loaded with a contact
type FillOptions struct {
	IncludeAddresses bool
}

// ContactService provides the contact use cases
type ContactService struct {
	store    repository.Store
	saver    *AggregateSaver[*domain.Contact, *domain.Address]
	eventBus *EventBus
	log      zerolog.Logger
}

// ContactAggregate describes a contact saved together with its addresses
func ContactAggregate(store repository.Store) Aggregate[*domain.Contact, *domain.Address] {
	return Aggregate[*domain.Contact, *domain.Address]{
		Name:       "contact",
		ChildName:  "address",
		Parents:    store.Contacts(),
		Children:   store.Addresses(),
		ChildrenOf: func(c *domain.Contact) []*domain.Address { return c.Addresses },
		Attach:     func(a *domain.Address, contactID int) { a.ContactID = contactID },
		ParentOf:   func(a *domain.Address) int { return a.ContactID },
	}
}

// NewContactService creates a new contact service
func NewContactService(store repository.Store, eventBus *EventBus, opts ...SaverOption) *ContactService {
	saver := NewAggregateSaver(store, ContactAggregate(store), opts...)
	return &ContactService{
		store:    store,
		saver:    saver,
		eventBus: eventBus,
		log:      saver.log,
	}
}

// GetAll returns every contact without addresses
func (s *ContactService) GetAll(ctx context.Context) result.Of[[]*domain.Contact] {
	contacts, err := s.store.Contacts().List(ctx, s.store.DB())
	if err != nil {
		return fromError[[]*domain.Contact]("list contacts", "", err)
	}
	return result.SuccessOf(contacts, nil)
}

// GetByID loads one contact
func (s *ContactService) GetByID(ctx context.Context, id int, fill FillOptions) result.Of[*domain.Contact] {
	if id <= 0 {
		return invalidID[*domain.Contact]("Contact")
	}
	contact, err := s.store.Contacts().GetByID(ctx, s.store.DB(), id)
	if err != nil {
		return fromError[*domain.Contact]("get contact", fmt.Sprintf("Contact %d not found.", id), err)
	}
	if fill.IncludeAddresses {
		if err := s.fillAddresses(ctx, []*domain.Contact{contact}); err != nil {
			return fromError[*domain.Contact]("list addresses", "", err)
		}
	}
	return result.SuccessOf(contact, nil)
}

// GetByIDs loads the contacts with the given ids. Missing ids are skipped.
func (s *ContactService) GetByIDs(ctx context.Context, ids []int, fill FillOptions) result.Of[[]*domain.Contact] {
	contacts, err := s.store.Contacts().ListByIDs(ctx, s.store.DB(), ids)
	if err != nil {
		return fromError[[]*domain.Contact]("list contacts", "", err)
	}
	if fill.IncludeAddresses {
		if err := s.fillAddresses(ctx, contacts); err != nil {
			return fromError[[]*domain.Contact]("list addresses", "", err)
		}
	}
	return result.SuccessOf(contacts, nil)
}

// Find loads exactly one contact through GetByIDs
func (s *ContactService) Find(ctx context.Context, id int, fill FillOptions) result.Of[*domain.Contact] {
	return result.ToSingle(s.GetByIDs(ctx, []int{id}, fill), fmt.Sprintf("Contact %d not found.", id))
}

// ListWithAddresses returns every contact with its addresses
func (s *ContactService) ListWithAddresses(ctx context.Context) result.Of[[]*domain.Contact] {
	return result.Bind(s.GetAll(ctx), func(contacts []*domain.Contact) result.Of[[]*domain.Contact] {
		if err := s.fillAddresses(ctx, contacts); err != nil {
			return fromError[[]*domain.Contact]("list addresses", "", err)
		}
		return result.SuccessOf(contacts, nil)
	})
}

// Create inserts the contact row. Addresses are saved by Save.
func (s *ContactService) Create(ctx context.Context, contact *domain.Contact) result.Of[*domain.Contact] {
	if contact == nil {
		return required[*domain.Contact]("Contact")
	}
	if res := validation.Check(contact, true); res.IsFailure() {
		return result.FailureOf[*domain.Contact](res.Messages())
	}
	if err := s.store.Contacts().Create(ctx, s.store.DB(), contact); err != nil {
		return fromError[*domain.Contact]("create contact", "", err)
	}

	s.publishSaved(contact)
	return result.SuccessWith(result.TypeSuccess, contact, fmt.Sprintf("Contact %d created.", contact.ID))
}

// Update rewrites the contact row
func (s *ContactService) Update(ctx context.Context, contact *domain.Contact) result.Of[*domain.Contact] {
	if contact == nil {
		return required[*domain.Contact]("Contact")
	}
	if res := validation.Check(contact, false); res.IsFailure() {
		return result.FailureOf[*domain.Contact](res.Messages())
	}
	err := s.store.Contacts().Update(ctx, s.store.DB(), contact)
	if errors.Is(err, repository.ErrRowCount) {
		return result.FailureWith[*domain.Contact](result.TypeNotFound,
			fmt.Sprintf("Contact %d not found.", contact.ID), result.WithCode(result.CodeNotFound))
	}
	if err != nil {
		return fromError[*domain.Contact]("update contact", "", err)
	}

	s.publishSaved(contact)
	return result.SuccessWith(result.TypeSuccess, contact, fmt.Sprintf("Contact %d updated.", contact.ID))
}

// Delete removes a contact and, through the foreign key, its addresses
func (s *ContactService) Delete(ctx context.Context, id int) result.Of[bool] {
	if id <= 0 {
		return invalidID[bool]("Contact")
	}
	ok, err := s.store.Contacts().Delete(ctx, s.store.DB(), id)
	if err != nil {
		return fromError[bool]("delete contact", "", err)
	}
	if !ok {
		return result.FailureWith[bool](result.TypeNotFound,
			fmt.Sprintf("Contact %d not found.", id), result.WithCode(result.CodeNotFound))
	}

	s.eventBus.Publish(Event{Type: EventContactDeleted, Payload: map[string]int{"contact_id": id}})
	return result.SuccessWith(result.TypeSuccess, true, fmt.Sprintf("Contact %d deleted.", id))
}

// Save persists the contact aggregate in one transaction
func (s *ContactService) Save(ctx context.Context, contact *domain.Contact, opts ...SaveOption) result.Of[*domain.Contact] {
	var id int
	deleted := false
	if contact != nil {
		id, deleted = contact.ID, contact.IsDeleted()
	}

	return s.saver.Save(ctx, contact, opts...).OnSuccess(func(c *domain.Contact) {
		if deleted {
			if id > 0 {
				s.eventBus.Publish(Event{Type: EventContactDeleted, Payload: map[string]int{"contact_id": id}})
			}
			return
		}
		s.publishSaved(c)
	})
}

// SaveAddresses saves a standalone list of addresses for a stored contact
func (s *ContactService) SaveAddresses(ctx context.Context, contactID int, addresses []*domain.Address) result.Of[[]*domain.Address] {
	return s.saver.SaveChildren(ctx, contactID, addresses).OnSuccess(func(saved []*domain.Address) {
		s.eventBus.Publish(Event{
			Type:    EventAddressesSaved,
			Payload: map[string]int{"contact_id": contactID, "count": len(saved)},
		})
	})
}

// AddressesByState returns every address in the state
func (s *ContactService) AddressesByState(ctx context.Context, stateID int) result.Of[[]*domain.Address] {
	if stateID <= 0 {
		return invalidID[[]*domain.Address]("State")
	}
	addresses, err := s.store.Addresses().ListByState(ctx, s.store.DB(), stateID)
	if err != nil {
		return fromError[[]*domain.Address]("list addresses", "", err)
	}
	return result.SuccessOf(addresses, nil)
}

// BulkCreate inserts contact rows in one transaction and returns the count
func (s *ContactService) BulkCreate(ctx context.Context, contacts []*domain.Contact) result.Of[int] {
	msgs := result.NewMessageCollection()
	for i, c := range contacts {
		prefix := fmt.Sprintf("contacts[%d]: ", i)
		if c == nil {
			msgs.AddError(prefix+"value is required.", result.WithCode(domain.CodeRequired))
			continue
		}
		for _, m := range c.Validate(true, nil).All() {
			_ = msgs.Add(m.Prefixed(prefix))
		}
	}
	if msgs.HasErrors() {
		return result.FailureOf[int](msgs)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fromError[int]("bulk create contacts", "", err)
	}
	defer tx.Rollback()

	n, err := s.store.Contacts().BulkCreate(ctx, tx, contacts)
	if err != nil {
		return fromError[int]("bulk create contacts", "", err)
	}
	if err := tx.Commit(); err != nil {
		return fromError[int]("bulk create contacts", "", err)
	}

	s.log.Info().Int("count", n).Msg("contacts bulk created")
	msgs.AddSuccess(fmt.Sprintf("%d contact(s) created.", n))
	return result.SuccessOf(n, msgs)
}

// States returns the state lookup table
func (s *ContactService) States(ctx context.Context) result.Of[[]domain.State] {
	states, err := s.store.States().List(ctx, s.store.DB())
	if err != nil {
		return fromError[[]domain.State]("list states", "", err)
	}
	return result.SuccessOf(states, nil)
}

// State loads one state
func (s *ContactService) State(ctx context.Context, id int) result.Of[domain.State] {
	if id <= 0 {
		return invalidID[domain.State]("State")
	}
	state, err := s.store.States().GetByID(ctx, s.store.DB(), id)
	if err != nil {
		return fromError[domain.State]("get state", fmt.Sprintf("State %d not found.", id), err)
	}
	return result.SuccessOf(state, nil)
}

// Import parses contacts and saves each aggregate in its own transaction.
// Records flagged deleted that were never saved are skipped and left out of
// the returned contacts. The result fails when any contact failed; the
// others stay committed.
func (s *ContactService) Import(ctx context.Context, r io.Reader, importer codec.Importer) result.Of[[]*domain.Contact] {
	contacts, err := importer.Parse(r)
	if err != nil {
		return result.FailureWith[[]*domain.Contact](result.TypeError,
			fmt.Sprintf("import %s: %v", importer.Format(), err), result.WithCode(CodeImportFailed))
	}

	msgs := result.NewMessageCollection()
	saved := make([]*domain.Contact, 0, len(contacts))
	for i, contact := range contacts {
		if err := ctx.Err(); err != nil {
			msgs.AddError(fmt.Sprintf("import %s: %v", importer.Format(), err), result.WithCode(CodeImportFailed))
			break
		}
		res := s.Save(ctx, contact, AllowDeletedOnCreate())
		prefix := fmt.Sprintf("contacts[%d]: ", i)
		for _, m := range res.Messages().All() {
			_ = msgs.Add(m.Prefixed(prefix))
		}
		if res.IsSuccess() && !(contact.IsDeleted() && contact.IsNew()) {
			saved = append(saved, res.Data())
		}
	}

	s.log.Info().Str("format", importer.Format()).Int("parsed", len(contacts)).Int("saved", len(saved)).Msg("contacts imported")
	if len(saved) > 0 {
		s.eventBus.Publish(Event{Type: EventContactsImported, Payload: map[string]int{"count": len(saved)}})
	}
	if msgs.HasErrors() || msgs.HasNotFounds() {
		return result.FailureOf[[]*domain.Contact](msgs)
	}
	return result.SuccessOf(saved, msgs)
}

// Export writes the contacts with the given ids, or every contact when ids
// is empty, including their addresses.
func (s *ContactService) Export(ctx context.Context, ids []int, exporter codec.Exporter, w io.Writer) result.Result {
	var res result.Of[[]*domain.Contact]
	if len(ids) == 0 {
		res = s.ListWithAddresses(ctx)
	} else {
		res = s.GetByIDs(ctx, ids, FillOptions{IncludeAddresses: true})
	}
	if res.IsFailure() {
		return res.ToResult()
	}

	contacts := res.Data()
	if err := exporter.Export(contacts, w); err != nil {
		return result.Failure(result.NewMessageCollection(result.Error(
			fmt.Sprintf("export %s: %v", exporter.Format(), err), result.WithCode(CodeExportFailed))))
	}
	return result.Success(result.NewMessageCollection(result.SuccessMessage(
		fmt.Sprintf("%d contact(s) exported as %s.", len(contacts), exporter.Format()))))
}

func (s *ContactService) fillAddresses(ctx context.Context, contacts []*domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	ids := make([]int, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	addresses, err := s.store.Addresses().ListByContacts(ctx, s.store.DB(), ids)
	if err != nil {
		return err
	}

	byContact := make(map[int][]*domain.Address, len(contacts))
	for _, a := range addresses {
		byContact[a.ContactID] = append(byContact[a.ContactID], a)
	}
	for _, c := range contacts {
		c.Addresses = byContact[c.ID]
	}
	return nil
}

func (s *ContactService) publishSaved(c *domain.Contact) {
	s.eventBus.Publish(Event{
		Type:    EventContactSaved,
		Payload: map[string]int{"contact_id": c.ID, "addresses": len(c.Addresses)},
	})
}

// fromError turns a repository error into a failure. notFound replaces the
// text of ErrNotFound failures when set.
func fromError[T any](op, notFound string, err error) result.Of[T] {
	if errors.Is(err, repository.ErrNotFound) {
		text := notFound
		if text == "" {
			text = fmt.Sprintf("%s: %v", op, err)
		}
		return result.FailureWith[T](result.TypeNotFound, text, result.WithCode(result.CodeNotFound))
	}

	code := CodeStoreError
	var se *repository.StoreError
	if errors.As(err, &se) && se.IsConstraint() {
		code = CodeConstraint
	}
	return result.FailureWith[T](result.TypeError, fmt.Sprintf("%s: %v", op, err), result.WithCode(code))
}

func invalidID[T any](entity string) result.Of[T] {
	return result.FailureWith[T](result.TypeError,
		entity+" id must be greater than 0 (zero).", result.WithCode(domain.CodeInvalidID))
}

func required[T any](entity string) result.Of[T] {
	return result.FailureWith[T](result.TypeError, entity+" is required.", result.WithCode(domain.CodeRequired))
}
