package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/LafeLabs/freepants"
	"github.com/LafeLabs/freepants/replicator"
	"github.com/LafeLabs/freepants/server"
	"github.com/LafeLabs/freepants/utils"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		b          freepants.Batch
		start, end string
	)
	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Render every non-empty slot of an address range to files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			var err error
			if b.Start, err = freepants.ParseAddress(start); err != nil {
				return err
			}
			if b.End, err = freepants.ParseAddress(end); err != nil {
				return err
			}
			b.Dst = args[0]
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			space, err := opts.loadSpace(ctx)
			if err != nil {
				return err
			}

			spinnerText := fmt.Sprintf("%s %s",
				utils.DecorateText("⚡ FREEPANTS", utils.StatusMessage),
				utils.DecorateText("is rendering the glyphs...", utils.DefaultMessage))
			spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, true)
			interactive := term.IsTerminal(int(os.Stderr.Fd()))
			if interactive {
				spinner.Start()
			}

			now := time.Now()
			results, err := freepants.RenderRange(ctx, space, cfg, b)
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if interactive {
				spinner.StopMsg = fmt.Sprintf("%s %s\n",
					utils.DecorateText("⚡ FREEPANTS", utils.StatusMessage),
					utils.DecorateText(fmt.Sprintf("rendered %d glyphs", len(results)-failed), utils.SuccessMessage))
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(os.Stderr, "%s %s\n",
						utils.DecorateText(r.Address.String(), utils.ErrorMessage),
						utils.DecorateText(r.Err.Error(), utils.DefaultMessage))
				}
			}
			fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
			if failed > 0 {
				return errors.Errorf("%d of %d glyphs failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "01000", "First address of the range")
	cmd.Flags().StringVar(&end, "end", "01777", "Last address of the range")
	cmd.Flags().StringVarP(&b.Format, "format", "f", ".png", "Extension of the generated files")
	cmd.Flags().IntVar(&b.IconSize, "icon", 0, "Scale raster output down to square icons of this size")
	cmd.Flags().IntVar(&b.Workers, "conc", runtime.NumCPU(), "Number of glyphs rendered concurrently")
	cmd.Flags().BoolVarP(&b.Spelled, "spelled", "s", false, "Lay every glyph out as text")
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	var addr, root string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the glyph table, its renders and the site directory over HTTP",
		Args:  cobra.NoArgs,
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
			s := server.New(space, cfg, root)
			fmt.Fprintf(os.Stderr, "%s %s\n",
				utils.DecorateText("⚡ FREEPANTS", utils.StatusMessage),
				utils.DecorateText("serving on "+addr, utils.DefaultMessage))
			if err := s.ListenAndServe(ctx, addr); err != nil {
				return err
			}

			// Keep the edits made over HTTP.
			saved, err := opts.saveSpace(cmd.Context(), s.Space())
			if saved && err == nil {
				fmt.Fprintln(os.Stderr, utils.DecorateText("saved table "+opts.name, utils.SuccessMessage))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&root, "root", ".", "Site directory served by the directory endpoints")
	return cmd
}

func newReplicateCmd() *cobra.Command {
	var o replicator.Options
	cmd := &cobra.Command{
		Use:   "replicate [directory]",
		Short: "Copy a published site into a local directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			o.Dst = "."
			if len(args) > 0 {
				o.Dst = args[0]
			}
			now := time.Now()
			report, err := replicator.Run(ctx, o)
			if report != nil {
				fmt.Fprintf(os.Stderr, "%s %s\n",
					utils.DecorateText("⚡ FREEPANTS", utils.StatusMessage),
					utils.DecorateText(fmt.Sprintf("copied %d files, skipped %d, failed %d",
						len(report.Copied), len(report.Skipped), len(report.Failed)), utils.DefaultMessage))
				for _, f := range report.Failed {
					fmt.Fprintln(os.Stderr, utils.DecorateText("  "+f, utils.ErrorMessage))
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
			return nil
		},
	}
	cmd.Flags().StringVar(&o.ManifestURL, "manifest", replicator.DefaultManifest, "URL of the site manifest")
	cmd.Flags().StringVar(&o.Installer, "installer", "", "URL of the installer copied to replicator.php")
	cmd.Flags().IntVar(&o.Workers, "conc", runtime.NumCPU(), "Number of concurrent downloads")
	return cmd
}
