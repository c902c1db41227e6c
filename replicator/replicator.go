// Package replicator seeds a local site directory from a published one. A
// manifest lists the files of every category; each listed file is copied from
// the base URL of the manifest to the same relative path locally.
package replicator

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/LafeLabs/freepants/utils"
)

// DefaultManifest is the manifest of the reference site.
const DefaultManifest = "https://raw.githubusercontent.com/LafeLabs/trashbook/main/data/dna.txt"

// guarded is the data file copied only when missing, so local edits survive
// a new run.
const guarded = "scrollset.txt"

// homeScroll is the only scroll document copied.
const homeScroll = "home"

// folders are created in the destination before copying.
var folders = []string{"data", "php", "scrolls", "iconsymbols"}

// Manifest lists the published files by category.
type Manifest struct {
	HTML        []string `json:"html"`
	IconSymbols []string `json:"iconsymbols"`
	Data        []string `json:"data"`
	PHP         []string `json:"php"`
	Scrolls     []string `json:"scrolls"`
}

// Options configures a run.
type Options struct {
	// ManifestURL locates the manifest, DefaultManifest when empty. Its base
	// URL is everything before "data/".
	ManifestURL string
	// Dst is the local site directory.
	Dst    string
	Client *http.Client
	// Workers bounds the concurrent downloads.
	Workers int
	// Installer, when set, is copied to replicator.php in Dst.
	Installer string
}

// Report lists what a run did, paths relative to the destination.
type Report struct {
	Copied  []string
	Skipped []string
	Failed  []string
}

type task struct {
	src, dst string
}

type outcome struct {
	task
	err error
}

// BaseURL returns the part of the manifest URL before its data folder.
func BaseURL(manifestURL string) string {
	if base, _, ok := strings.Cut(manifestURL, "data/"); ok {
		return base
	}
	return manifestURL[:strings.LastIndex(manifestURL, "/")+1]
}

// FetchManifest downloads and decodes the manifest.
func FetchManifest(ctx context.Context, client *http.Client, uri string) (*Manifest, error) {
	data, err := utils.Fetch(ctx, client, uri)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}
	return &m, nil
}

// Run copies every file of the manifest into opts.Dst. Failed downloads do
// not stop the run; they are listed in the report and the returned error
// names the first of them.
func Run(ctx context.Context, opts Options) (*Report, error) {
	log := commonlog.GetLogger("replicator")
	if opts.ManifestURL == "" {
		opts.ManifestURL = DefaultManifest
	}
	if !utils.IsValidUrl(opts.ManifestURL) {
		return nil, errors.Errorf("invalid manifest url %q", opts.ManifestURL)
	}
	m, err := FetchManifest(ctx, opts.Client, opts.ManifestURL)
	if err != nil {
		return nil, err
	}
	for _, dir := range folders {
		if err := os.MkdirAll(filepath.Join(opts.Dst, dir), 0755); err != nil {
			return nil, errors.Wrap(err, "creating folders")
		}
	}

	report := &Report{}
	tasks := plan(m, BaseURL(opts.ManifestURL), opts, report)
	log.Infof("copying %d files from %s", len(tasks), BaseURL(opts.ManifestURL))

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	in := make(chan task)
	out := make(chan outcome)

	go func() {
		defer close(in)
		for _, t := range tasks {
			select {
			case <-ctx.Done():
				return
			case in <- t:
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer wg.Done()
			for t := range in {
				err := utils.Download(ctx, opts.Client, t.src, filepath.Join(opts.Dst, filepath.FromSlash(t.dst)))
				out <- outcome{task: t, err: err}
			}
		}()
	}
	go func() {
		defer close(out)
		wg.Wait()
	}()

	var first error
	for o := range out {
		if o.err != nil {
			log.Warningf("copying %s: %s", o.dst, o.err)
			report.Failed = append(report.Failed, o.dst)
			if first == nil {
				first = o.err
			}
			continue
		}
		log.Debugf("copied %s", o.dst)
		report.Copied = append(report.Copied, o.dst)
	}
	sort.Strings(report.Copied)
	sort.Strings(report.Failed)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if first != nil {
		return report, errors.Wrapf(first, "%d files failed", len(report.Failed))
	}
	return report, nil
}

// plan lists the copies of a run. Names which would leave their folder are
// skipped.
func plan(m *Manifest, base string, opts Options, report *Report) []task {
	var tasks []task
	add := func(src, dir, name string) {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			report.Skipped = append(report.Skipped, name)
			return
		}
		tasks = append(tasks, task{src: src, dst: path.Join(dir, name)})
	}

	if opts.Installer != "" {
		add(opts.Installer, "", "replicator.php")
	}
	for _, name := range m.HTML {
		add(base+name, "", name)
	}
	for _, name := range m.IconSymbols {
		add(base+"iconsymbols/"+name, "iconsymbols", name)
	}
	for _, name := range m.Data {
		if name == guarded {
			if _, err := os.Stat(filepath.Join(opts.Dst, "data", name)); err == nil {
				report.Skipped = append(report.Skipped, "data/"+name)
				continue
			}
		}
		add(base+"data/"+name, "data", name)
	}
	for _, name := range m.PHP {
		src := base + "php/" + name
		add(src, "php", name)
		stem, _, _ := strings.Cut(name, ".")
		add(src, "", stem+".php")
	}
	for _, name := range m.Scrolls {
		if name == homeScroll {
			add(base+"scrolls/"+name, "scrolls", name)
		}
	}
	return tasks
}
