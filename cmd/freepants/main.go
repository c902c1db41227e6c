package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/LafeLabs/freepants"
	"github.com/LafeLabs/freepants/store"
	"github.com/LafeLabs/freepants/utils"
)

const HelpBanner = `
┌─┐┬─┐┌─┐┌─┐┌─┐┌─┐┌┐┌┌┬┐┌─┐
├┤ ├┬┘├┤ ├┤ ├─┘├─┤│││ │ └─┐
└  ┴└─└─┘└─┘┴  ┴ ┴┘└┘ ┴ └─┘

Geometric glyph machine.
    Version: %s
`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

// options are the flags shared by every command.
type options struct {
	config    string
	verbosity int
	table     string
	db        string
	name      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "freepants",
		Short:         "Render and edit geometric glyphs",
		Long:          fmt.Sprintf(HelpBanner, Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbosity, nil)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.config, "config", "c", "", "TOML configuration file")
	pf.CountVarP(&opts.verbosity, "verbose", "v", "Log verbosity (repeat for more)")
	pf.StringVar(&opts.table, "table", "", "Glyph records (text, JSON or .cbor) loaded over the bootstrap table")
	pf.StringVar(&opts.db, "db", "", "SQLite database of named glyph tables")
	pf.StringVar(&opts.name, "name", "", "Name of the glyph table in the database")

	root.AddCommand(
		newRenderCmd(opts),
		newEditCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newBatchCmd(opts),
		newServeCmd(opts),
		newReplicateCmd(),
		newDBCmd(opts),
	)
	return root
}

// signalContext returns a context cancelled on CTRL-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (o *options) loadConfig() (freepants.Config, error) {
	if o.config == "" {
		return freepants.DefaultConfig(), nil
	}
	return freepants.LoadConfig(o.config)
}

// loadSpace builds the working address space: the bootstrap table, or the
// named database table, with the records of the table file on top.
func (o *options) loadSpace(ctx context.Context) (*freepants.AddressSpace, error) {
	space, err := freepants.Bootstrap()
	if err != nil {
		return nil, err
	}
	if o.db != "" && o.name != "" {
		st, err := store.Open(o.db)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		stored, err := st.Load(ctx, o.name)
		switch {
		case errors.Is(err, store.ErrTableNotFound):
			commonlog.GetLogger("freepants").Noticef("table %s not found, starting from the bootstrap table", o.name)
		case err != nil:
			return nil, err
		default:
			space = stored
		}
	}
	if o.table == "" {
		return space, nil
	}

	data, err := os.ReadFile(o.table)
	if err != nil {
		return nil, err
	}
	if isImage, err := isTableImage(o.table); err != nil {
		return nil, err
	} else if isImage {
		img, err := freepants.UnmarshalCBOR(data)
		if err != nil {
			return nil, err
		}
		img.Each(func(a freepants.Address, g freepants.Glyph) bool {
			_ = space.Set(a, g)
			return true
		})
		return space, nil
	}
	if _, err := freepants.Import(space, string(data)); err != nil {
		return nil, err
	}
	return space, nil
}

// saveSpace stores the address space under the table name, when a database
// is given. It reports whether anything was saved.
func (o *options) saveSpace(ctx context.Context, space *freepants.AddressSpace) (bool, error) {
	if o.db == "" || o.name == "" {
		return false, nil
	}
	st, err := store.Open(o.db)
	if err != nil {
		return false, err
	}
	defer st.Close()
	return true, st.Save(ctx, o.name, space)
}

// isTableImage reports whether the table file holds a CBOR image rather than
// records: either by its extension or because its content is not text.
func isTableImage(path string) (bool, error) {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return true, nil
	}
	ctype, err := utils.DetectContentType(path)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !strings.HasPrefix(ctype, "text/"), nil
}
