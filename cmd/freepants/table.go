package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/LafeLabs/freepants"
	"github.com/LafeLabs/freepants/store"
	"github.com/LafeLabs/freepants/utils"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		start, end string
		asJSON     bool
		dst        string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the non-empty slots of an address range as records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			from, err := freepants.ParseAddress(start)
			if err != nil {
				return err
			}
			to, err := freepants.ParseAddress(end)
			if err != nil {
				return err
			}
			space, err := opts.loadSpace(ctx)
			if err != nil {
				return err
			}

			var data []byte
			switch {
			case strings.EqualFold(filepath.Ext(dst), ".cbor"):
				data, err = freepants.MarshalCBOR(space)
			case asJSON:
				var recs []freepants.Record
				if recs, err = freepants.Records(space, from, to); err == nil {
					data, err = freepants.Marshal(recs)
				}
			default:
				var text string
				text, err = freepants.Export(space, from, to)
				data = []byte(text + "\n")
			}
			if err != nil {
				return err
			}
			if dst == pipeName {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(dst, data, 0644)
		},
	}
	cmd.Flags().StringVar(&start, "start", "0", "First address of the range")
	cmd.Flags().StringVar(&end, "end", "01777", "Last address of the range")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write a JSON array of records")
	cmd.Flags().StringVarP(&dst, "out", "o", pipeName, "Destination file; a .cbor file holds the whole table")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var dst string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import records into the working table",
		Long: `Import records, one per line or as a JSON array, into the working table.
The result is saved to the database table when one is named, and written as
records to the output file when one is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			space, err := opts.loadSpace(ctx)
			if err != nil {
				return err
			}
			n, err := freepants.Import(space, string(data))
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, utils.DecorateText(fmt.Sprintf("imported %d records", n), utils.SuccessMessage))

			if _, err := opts.saveSpace(ctx, space); err != nil {
				return err
			}
			if dst == "" {
				return nil
			}
			recs, err := freepants.Records(space, 0, freepants.AddressCount-1)
			if err != nil {
				return err
			}
			out, err := freepants.Marshal(recs)
			if err != nil {
				return err
			}
			return os.WriteFile(dst, out, 0644)
		},
	}
	cmd.Flags().StringVarP(&dst, "out", "o", "", "Write the resulting table as JSON records")
	return cmd
}

func newDBCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the named glyph tables of a database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().PersistentPreRun(cmd, args)
			if opts.db == "" {
				return errors.New("the --db flag is required")
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.db)
			if err != nil {
				return err
			}
			defer st.Close()
			names, err := st.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "save <name>",
		Short: "Store the working table under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			space, err := opts.loadSpace(cmd.Context())
			if err != nil {
				return err
			}
			st, err := store.Open(opts.db)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(cmd.Context(), args[0], space); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, utils.DecorateText(fmt.Sprintf("saved %d glyphs as %s", space.Len(), args[0]), utils.SuccessMessage))
			return nil
		},
	}, &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.db)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(cmd.Context(), args[0])
		},
	})
	return cmd
}
