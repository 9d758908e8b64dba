package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/service"
)

func newDemoCmd(a *app) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the contact operations against the configured database",
		Long: `demo seeds the state table, then creates, reads, updates and deletes a
contact and its addresses, printing each step. Pass --keep to leave the
demo contact in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), a, keep)
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "do not delete the demo contact at the end")
	return cmd
}

func runDemo(ctx context.Context, a *app, keep bool) error {
	svc := a.svc

	if _, err := a.store.States().Seed(ctx, a.store.DB(), domain.USStates()); err != nil {
		return fmt.Errorf("failed to seed states: %w", err)
	}

	all, err := step(a, "GetAll", svc.GetAll(ctx))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total Contacts: %d\n", len(all))

	contact, err := step(a, "Contact Inserted", svc.Create(ctx, &domain.Contact{
		FirstName: "Joe",
		LastName:  "Blow",
		Email:     "joe.blow@gmail.com",
		Company:   "Microsoft",
		Title:     "Developer",
	}))
	if err != nil {
		return err
	}
	id := contact.ID

	if _, err := step(a, "GetByID", svc.GetByID(ctx, id, service.FillOptions{})); err != nil {
		return err
	}
	if _, err := step(a, "GetByIDs", svc.GetByIDs(ctx, []int{id}, service.FillOptions{})); err != nil {
		return err
	}

	contact.Company = "Updated Company"
	if _, err := step(a, "Contact Updated", svc.Update(ctx, contact)); err != nil {
		return err
	}

	// Save the aggregate with two new addresses
	illinois, _ := domain.StateByAbbreviation("IL")
	contact.AddAddress(&domain.Address{AddressType: "Home", StreetAddress: "123 Main Street", City: "Chicago", StateID: illinois.ID, PostalCode: "60601"})
	contact.AddAddress(&domain.Address{AddressType: "Work", StreetAddress: "1 Microsoft Way", City: "Chicago", StateID: illinois.ID, PostalCode: "60606"})
	if contact, err = step(a, "Contact Saved with Addresses", svc.Save(ctx, contact)); err != nil {
		return err
	}

	// Drop the work address and add another in the same save
	contact.Addresses[1].MarkDeleted()
	contact.AddAddress(&domain.Address{AddressType: "Other", StreetAddress: "500 Lake Shore Dr", City: "Chicago", StateID: illinois.ID, PostalCode: "60611"})
	if _, err = step(a, "Address Added and Deleted", svc.Save(ctx, contact)); err != nil {
		return err
	}

	full, err := step(a, "Find with Addresses", svc.Find(ctx, id, service.FillOptions{IncludeAddresses: true}))
	if err != nil {
		return err
	}
	printContacts(a.out, []*domain.Contact{full}, true)

	if _, err := step(a, "Addresses in Illinois", svc.AddressesByState(ctx, illinois.ID)); err != nil {
		return err
	}

	// A rejected save leaves the database untouched
	invalid := &domain.Contact{FirstName: "No", Email: "not-an-email"}
	invalid.AddAddress(&domain.Address{AddressType: "Home"})
	rejected := svc.Save(ctx, invalid)
	fmt.Fprintln(a.out, "*** Invalid Contact Rejected ***")
	printMessages(a, rejected.Messages())

	if keep {
		return nil
	}
	full.MarkDeleted()
	_, err = step(a, "Contact Deleted", svc.Save(ctx, full))
	return err
}

// step prints a heading and the messages of res
func step[T any](a *app, title string, res result.Of[T]) (T, error) {
	fmt.Fprintf(a.out, "*** %s ***\n", title)
	printMessages(a, res.Messages())
	return unwrap(a, res)
}

func printMessages(a *app, msgs *result.MessageCollection) {
	for _, m := range msgs.All() {
		fmt.Fprintf(a.out, "  %s\n", m)
	}
}
