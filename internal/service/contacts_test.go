package service

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randel-bjorkquist/pluralsight/internal/codec"
	"github.com/randel-bjorkquist/pluralsight/internal/config"
	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/repository/sqlite"
	"github.com/randel-bjorkquist/pluralsight/internal/result"
)

func newTestService(t *testing.T) (*ContactService, chan Event) {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(ctx, config.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.States().Seed(ctx, store.DB(), domain.USStates())
	require.NoError(t, err)

	events := make(chan Event, 16)
	bus := NewEventBus()
	bus.Subscribe(events)
	return NewContactService(store, bus), events
}

func drainEvents(events chan Event) []Event {
	var out []Event
	for {
		select {
		case e := <-events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func drain(events chan Event) []EventType {
	var types []EventType
	for _, e := range drainEvents(events) {
		types = append(types, e.Type)
	}
	return types
}

func TestContactServiceSaveAggregate(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	c := contact(0)
	c.Addresses = []*domain.Address{address(0), address(0)}
	res := svc.Save(ctx, c)
	require.True(t, res.IsSuccess(), res.Messages().String())
	require.Positive(t, c.ID)

	got := svc.GetByID(ctx, c.ID, FillOptions{IncludeAddresses: true})
	require.True(t, got.IsSuccess())
	require.Len(t, got.Data().Addresses, 2)
	assert.Equal(t, []EventType{EventContactSaved}, drain(events))

	// update a field, delete one address and add another
	saved := got.Data()
	saved.Title = "Manager"
	saved.Addresses[0].MarkDeleted()
	saved.Addresses = append(saved.Addresses, address(0))
	require.True(t, svc.Save(ctx, saved).IsSuccess())

	got = svc.GetByID(ctx, c.ID, FillOptions{IncludeAddresses: true})
	require.True(t, got.IsSuccess())
	assert.Equal(t, "Manager", got.Data().Title)
	assert.Len(t, got.Data().Addresses, 2)

	// deleting the parent removes everything
	saved.MarkDeleted()
	require.True(t, svc.Save(ctx, saved).IsSuccess())
	missing := svc.GetByID(ctx, c.ID, FillOptions{})
	require.True(t, missing.IsFailure())
	assert.True(t, missing.Messages().HasNotFounds())
	assert.Empty(t, svc.AddressesByState(ctx, 13).Data())
	assert.Contains(t, drain(events), EventContactDeleted)
}

func TestContactServiceSaveRollsBack(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	c := contact(0)
	bad := address(0)
	bad.StateID = 999
	c.Addresses = []*domain.Address{address(0), bad}

	res := svc.Save(ctx, c)
	require.True(t, res.IsFailure())
	assert.Equal(t, "ADDRESS_CREATE_FAILED", res.Messages().Errors()[0].Code())
	assert.Zero(t, c.ID)
	assert.Zero(t, c.Addresses[0].ID)

	all := svc.GetAll(ctx)
	require.True(t, all.IsSuccess())
	assert.Empty(t, all.Data())
	assert.Empty(t, svc.AddressesByState(ctx, 13).Data())
	assert.Empty(t, drain(events))

	// the same aggregate saves once the bad row is fixed
	bad.StateID = 13
	require.True(t, svc.Save(ctx, c).IsSuccess())
}

func TestContactServiceSaveKeepsOtherContactsAddresses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := contact(0)
	owner.Addresses = []*domain.Address{address(0)}
	require.True(t, svc.Save(ctx, owner).IsSuccess())
	theirs := owner.Addresses[0].ID

	t.Run("delete", func(t *testing.T) {
		other := contact(0)
		other.Addresses = []*domain.Address{deletedAddress(theirs)}
		res := svc.Save(ctx, other)
		require.True(t, res.IsFailure())
		assert.Equal(t, "ADDRESS_DELETE_FAILED", res.Messages().Errors()[0].Code())
		assert.Zero(t, other.ID)
	})

	t.Run("update", func(t *testing.T) {
		other := contact(0)
		taken := address(theirs)
		taken.StreetAddress = "Taken"
		other.Addresses = []*domain.Address{taken}
		res := svc.Save(ctx, other)
		require.True(t, res.IsFailure())
		assert.Equal(t, "ADDRESS_UPDATE_FAILED", res.Messages().Errors()[0].Code())
	})

	t.Run("import", func(t *testing.T) {
		doc := `{"contacts":[{"first_name":"Eve","last_name":"Intruder","addresses":[{"id":` + strconv.Itoa(theirs) +
			`,"address_type":"Home","street_address":"x","city":"y","state_id":13,"postal_code":"1","deleted":true}]}]}`
		res := svc.Import(ctx, strings.NewReader(doc), codec.NewJSONCodec())
		require.True(t, res.IsFailure())
	})

	got := svc.GetByID(ctx, owner.ID, FillOptions{IncludeAddresses: true})
	require.True(t, got.IsSuccess())
	require.Len(t, got.Data().Addresses, 1)
	assert.Equal(t, "1 Main St", got.Data().Addresses[0].StreetAddress)
	assert.Len(t, svc.GetAll(ctx).Data(), 1)
}

func TestContactServiceSaveCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.Save(ctx, contact(0))
	require.True(t, res.IsFailure())
	assert.Empty(t, svc.GetAll(context.Background()).Data())
}

func TestContactServiceCRUD(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	created := svc.Create(ctx, contact(0))
	require.True(t, created.IsSuccess(), created.Messages().String())
	id := created.Data().ID

	c := created.Data()
	c.Company = "Initech"
	require.True(t, svc.Update(ctx, c).IsSuccess())

	found := svc.Find(ctx, id, FillOptions{})
	require.True(t, found.IsSuccess())
	assert.Equal(t, "Initech", found.Data().Company)

	require.True(t, svc.Delete(ctx, id).IsSuccess())
	assert.Equal(t, []EventType{EventContactSaved, EventContactSaved, EventContactDeleted}, drain(events))

	t.Run("missing rows are not found", func(t *testing.T) {
		del := svc.Delete(ctx, id)
		require.True(t, del.IsFailure())
		assert.Equal(t, result.TypeNotFound, del.Messages().HighestSeverity())

		find := svc.Find(ctx, id, FillOptions{})
		require.True(t, find.IsFailure())
		assert.Equal(t, "Contact "+strconv.Itoa(id)+" not found.", find.Messages().NotFounds()[0].Text())

		upd := svc.Update(ctx, c)
		require.True(t, upd.IsFailure())
		assert.True(t, upd.Messages().HasNotFounds())
	})

	t.Run("invalid input", func(t *testing.T) {
		assert.Equal(t, domain.CodeInvalidID, svc.GetByID(ctx, 0, FillOptions{}).Messages().Errors()[0].Code())
		assert.Equal(t, domain.CodeRequired, svc.Create(ctx, nil).Messages().Errors()[0].Code())

		bad := contact(0)
		bad.Email = "not-an-email"
		res := svc.Create(ctx, bad)
		require.True(t, res.IsFailure())
		assert.Equal(t, domain.CodeInvalidFormat, res.Messages().Errors()[0].Code())

		res = svc.Update(ctx, contact(0))
		require.True(t, res.IsFailure())
		assert.Equal(t, domain.CodeInvalidID, res.Messages().Errors()[0].Code())
	})
}

func TestContactServiceSaveAddresses(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	c := svc.Create(ctx, contact(0)).Data()
	drain(events)

	res := svc.SaveAddresses(ctx, c.ID, []*domain.Address{address(0), address(0)})
	require.True(t, res.IsSuccess(), res.Messages().String())
	first := res.Data()[0]

	first.MarkDeleted()
	res = svc.SaveAddresses(ctx, c.ID, []*domain.Address{first, res.Data()[1]})
	require.True(t, res.IsSuccess(), res.Messages().String())

	got := svc.GetByID(ctx, c.ID, FillOptions{IncludeAddresses: true})
	require.Len(t, got.Data().Addresses, 1)
	assert.Equal(t, []EventType{EventAddressesSaved, EventAddressesSaved}, drain(events))

	missing := svc.SaveAddresses(ctx, c.ID, []*domain.Address{deletedAddress(first.ID)})
	require.True(t, missing.IsFailure())
	assert.Equal(t, "ADDRESS_DELETE_FAILED", missing.Messages().Errors()[0].Code())
}

func TestContactServiceQueries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, last := range []string{"Alpha", "Beta"} {
		c := contact(0)
		c.LastName = last
		c.Addresses = []*domain.Address{address(0)}
		require.True(t, svc.Save(ctx, c).IsSuccess())
	}
	other := contact(0)
	texas := address(0)
	texas.StateID = 43
	other.Addresses = []*domain.Address{texas}
	require.True(t, svc.Save(ctx, other).IsSuccess())

	list := svc.ListWithAddresses(ctx)
	require.True(t, list.IsSuccess())
	require.Len(t, list.Data(), 3)
	for _, c := range list.Data() {
		assert.Len(t, c.Addresses, 1)
	}

	assert.Len(t, svc.AddressesByState(ctx, 13).Data(), 2)
	assert.Len(t, svc.AddressesByState(ctx, 43).Data(), 1)
	assert.True(t, svc.AddressesByState(ctx, 0).IsFailure())

	ids := []int{list.Data()[0].ID, list.Data()[2].ID, 999}
	byIDs := svc.GetByIDs(ctx, ids, FillOptions{})
	require.True(t, byIDs.IsSuccess())
	assert.Len(t, byIDs.Data(), 2)
	assert.Nil(t, byIDs.Data()[0].Addresses)

	states := svc.States(ctx)
	require.True(t, states.IsSuccess())
	assert.Len(t, states.Data(), 50)

	il := svc.State(ctx, 13)
	require.True(t, il.IsSuccess())
	assert.Equal(t, "IL", il.Data().Abbreviation)
	assert.True(t, svc.State(ctx, 77).Messages().HasNotFounds())
}

func TestContactServiceBulkCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res := svc.BulkCreate(ctx, []*domain.Contact{contact(0), contact(0), contact(0)})
	require.True(t, res.IsSuccess())
	assert.Equal(t, 3, res.Data())
	assert.Len(t, svc.GetAll(ctx).Data(), 3)

	bad := contact(0)
	bad.LastName = ""
	res = svc.BulkCreate(ctx, []*domain.Contact{contact(0), bad})
	require.True(t, res.IsFailure())
	assert.True(t, strings.HasPrefix(res.Messages().Errors()[0].Text(), "contacts[1]: "))
	assert.Len(t, svc.GetAll(ctx).Data(), 3)
}

func TestContactServiceImportExport(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	doc := `
contacts:
  - first_name: Ada
    last_name: Lovelace
    addresses:
      - type: Home
        street: 1 Main St
        city: Chicago
        state: IL
        postal_code: "60601"
      - type: Old
        street: 9 Gone Rd
        city: Peoria
        state: IL
        postal_code: "61601"
        deleted: true
  - first_name: Removed
    last_name: Before
    deleted: true
`
	res := svc.Import(ctx, strings.NewReader(doc), codec.NewYAMLCodec())
	require.True(t, res.IsSuccess(), res.Messages().String())
	require.Len(t, res.Data(), 1)
	assert.Equal(t, "Lovelace", res.Data()[0].LastName)
	assert.True(t, res.Messages().HasInformations())

	var imported []Event
	for _, e := range drainEvents(events) {
		if e.Type == EventContactsImported {
			imported = append(imported, e)
		}
	}
	require.Len(t, imported, 1)
	assert.Equal(t, map[string]int{"count": 1}, imported[0].Payload)

	all := svc.ListWithAddresses(ctx)
	require.Len(t, all.Data(), 1)
	require.Len(t, all.Data()[0].Addresses, 1)

	var buf bytes.Buffer
	out := svc.Export(ctx, nil, codec.NewJSONCodec(), &buf)
	require.True(t, out.IsSuccess())
	assert.Contains(t, buf.String(), `"last_name": "Lovelace"`)
	assert.Contains(t, buf.String(), `"street_address": "1 Main St"`)

	t.Run("parse errors fail the import", func(t *testing.T) {
		res := svc.Import(ctx, strings.NewReader("contacts: ["), codec.NewYAMLCodec())
		require.True(t, res.IsFailure())
		assert.Equal(t, CodeImportFailed, res.Messages().Errors()[0].Code())
	})

	t.Run("invalid contacts fail the import", func(t *testing.T) {
		res := svc.Import(ctx, strings.NewReader(`{"contacts":[{"first_name":"","last_name":"X"}]}`), codec.NewJSONCodec())
		require.True(t, res.IsFailure())
		assert.True(t, strings.HasPrefix(res.Messages().Errors()[0].Text(), "contacts[0]: "))
	})

	t.Run("export of missing ids is empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.True(t, svc.Export(ctx, []int{999}, codec.NewJSONCodec(), &buf).IsSuccess())
		assert.JSONEq(t, `{"contacts": []}`, buf.String())
	})
}
