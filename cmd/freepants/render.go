package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/LafeLabs/freepants"
	"github.com/LafeLabs/freepants/utils"
)

// output describes where a rendered glyph is written.
type output struct {
	path   string
	format string
	icon   int
}

func (o *output) flags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "out", "o", pipeName, "Destination file")
	cmd.Flags().StringVarP(&o.format, "format", "f", ".svg", "Output format when writing to stdout")
	cmd.Flags().IntVar(&o.icon, "icon", 0, "Scale raster output down to a square icon of this size")
}

// write stores the last render of the machine. The format comes from the
// file extension, or from the format flag for stdout.
func (o *output) write(vm *freepants.VM) error {
	ext := o.format
	if o.path != pipeName {
		ext = filepath.Ext(o.path)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)
	if !utils.Contains(freepants.Formats, ext) {
		return errors.Wrap(freepants.ErrUnsupportedFormat, ext)
	}

	var w io.Writer = os.Stdout
	if o.path == pipeName {
		if ext != ".svg" && term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for raster output")
		}
	} else {
		f, err := os.Create(o.path)
		if err != nil {
			return errors.Wrap(err, "unable to create the output file")
		}
		defer f.Close()
		w = f
	}

	if ext == ".svg" {
		_, err := io.WriteString(w, vm.SVG())
		return err
	}
	if o.icon > 0 {
		return freepants.Encode(w, freepants.Icon(vm.Image(), o.icon), ext)
	}
	return freepants.Encode(w, vm.Image(), ext)
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		out     output
		spelled bool
	)
	cmd := &cobra.Command{
		Use:   "render [glyph | address]",
		Short: "Render a glyph, or the glyph stored at an address",
		Long: `Render a glyph given as comma separated octal tokens ("0330,0342,"),
or the glyph stored at a single address ("0204").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			space, err := opts.loadSpace(ctx)
			if err != nil {
				return err
			}
			vm, err := freepants.NewVM(space, cfg)
			if err != nil {
				return err
			}

			g := freepants.Glyph(args[0])
			if !strings.Contains(args[0], ",") {
				a, err := freepants.ParseAddress(args[0])
				if err != nil {
					return err
				}
				if g, err = space.Get(a); err != nil {
					return err
				}
			}
			if spelled {
				err = vm.RenderSpelled(g)
			} else {
				err = vm.Render(g)
			}
			if err != nil {
				return err
			}
			return out.write(vm)
		},
	}
	out.flags(cmd)
	cmd.Flags().BoolVarP(&spelled, "spelled", "s", false, "Lay the glyph out as text")
	return cmd
}

func newEditCmd(opts *options) *cobra.Command {
	var (
		out  output
		home string
		keys string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the glyph stored at an address by typing keys",
		Long: `Edit the glyph stored at the home address. Every character of the keys
is sent through its keyboard binding; the cleaned glyph is written back to the
table and saved to the database when one is named.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := freepants.ParseAddress(home)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			space, err := opts.loadSpace(ctx)
			if err != nil {
				return err
			}
			vm, err := freepants.NewVM(space, cfg)
			if err != nil {
				return err
			}
			s, err := freepants.NewSession(vm, a)
			if err != nil {
				return err
			}
			if err := s.Type(keys); err != nil {
				return err
			}
			g, err := s.Editor().Clean()
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s %s\n",
				utils.DecorateText(a.String()+":", utils.StatusMessage),
				utils.DecorateText(string(g), utils.DefaultMessage))

			saved, err := opts.saveSpace(ctx, space)
			if err != nil {
				return err
			}
			if saved {
				fmt.Fprintln(os.Stderr, utils.DecorateText("saved table "+opts.name, utils.SuccessMessage))
			}
			if err := vm.Render(g); err != nil {
				return err
			}
			return out.write(vm)
		},
	}
	out.flags(cmd)
	cmd.Flags().StringVar(&home, "home", "01777", "Address of the edited glyph")
	cmd.Flags().StringVarP(&keys, "keys", "k", "", "Characters typed on the keyboard layer")
	return cmd
}
