package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randel-bjorkquist/pluralsight/internal/codec"
	"github.com/randel-bjorkquist/pluralsight/internal/domain"
	"github.com/randel-bjorkquist/pluralsight/internal/logger"
	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/service"
	"github.com/randel-bjorkquist/pluralsight/internal/watcher"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  "Opening the store creates any missing tables and indexes; migrate does only that.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "Schema is up to date (%s).\n", a.cfg.Database.Driver)
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the state lookup rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.States().Seed(cmd.Context(), a.store.DB(), domain.USStates())
			if err != nil {
				return fmt.Errorf("failed to seed states: %w", err)
			}
			fmt.Fprintf(a.out, "Seeded %d state(s).\n", n)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var withAddresses bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.svc.GetAll
			if withAddresses {
				list = a.svc.ListWithAddresses
			}
			contacts, err := unwrap(a, list(cmd.Context()))
			if err != nil {
				return err
			}
			printContacts(a.out, contacts, withAddresses)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&withAddresses, "addresses", "a", false, "include addresses")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one contact with its addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res := a.svc.GetByID(cmd.Context(), id, service.FillOptions{IncludeAddresses: true})
			contact, err := unwrap(a, res)
			if err != nil {
				return err
			}
			printContacts(a.out, []*domain.Contact{contact}, true)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact and its addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res := a.svc.Delete(cmd.Context(), id)
			_, err = unwrap(a, res)
			return err
		},
	}
}

func newStatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List the state lookup table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.svc.States(cmd.Context())
			states, err := unwrap(a, res)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tABBR\tNAME")
			for _, s := range states {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Abbreviation, s.Name)
			}
			return tw.Flush()
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var format string
	var watch bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import contacts from a JSON or YAML file",
		Long: `Import saves every contact in the file together with its addresses.
Records with an id are updated; records flagged deleted are removed, or
skipped when they were never saved. With --watch the file is imported
again every time it changes until the command is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			c, err := pickCodec(format, path)
			if err != nil {
				return err
			}
			if err := importFile(cmd.Context(), a, path, c); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			w := watcher.New(path, func(ctx context.Context) {
				if err := importFile(ctx, a, path, c); err != nil {
					a.log.Error().Err(err).Str("path", path).Msg("re-import failed")
				}
			}).WithLogger(a.log)
			if err := w.Watch(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default: from the file extension)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-import whenever the file changes")
	return cmd
}

func importFile(ctx context.Context, a *app, path string, c codec.Importer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	saved, err := unwrap(a, a.svc.Import(ctx, f, c))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d contact(s).\n", len(saved))
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Export contacts with their addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			c, err := pickCodec(format, outPath)
			if err != nil {
				return err
			}

			w := a.out
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			res := a.svc.Export(cmd.Context(), ids, c, w)
			logger.Messages(a.log, res.Messages())
			if res.IsFailure() {
				return &result.FailureError{Messages: res.Messages()}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default: from --out, else json)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	return cmd
}

// unwrap logs the messages of res and returns its data, or a
// *result.FailureError when it failed
func unwrap[T any](a *app, res result.Of[T]) (T, error) {
	logger.Messages(a.log, res.Messages())
	return res.EnsureSuccess()
}

func pickCodec(format, path string) (codec.Codec, error) {
	switch {
	case format != "":
		return codec.ForFormat(format)
	case path != "":
		return codec.ForPath(path)
	default:
		return codec.NewJSONCodec(), nil
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func printContacts(w io.Writer, contacts []*domain.Contact, withAddresses bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCOMPANY\tTITLE")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.FullName(), c.Email, c.Company, c.Title)
		if !withAddresses {
			continue
		}
		for _, addr := range c.Addresses {
			state := strconv.Itoa(addr.StateID)
			if s, ok := domain.StateByID(addr.StateID); ok {
				state = s.Abbreviation
			}
			fmt.Fprintf(tw, "\t  %s: %s, %s %s %s\t\t\t\n", addr.AddressType, addr.StreetAddress, addr.City, state, addr.PostalCode)
		}
	}
	tw.Flush()
}
