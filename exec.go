package freepants

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/LafeLabs/freepants/utils"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Batch describes the rendering of every glyph of an address range to files.
type Batch struct {
	Start, End Address
	// Dst is the destination directory, created when missing.
	Dst string
	// Format is the extension of the generated files, ".svg" or a raster format.
	Format  string
	Workers int
	// IconSize scales raster output down to square icons when positive.
	IconSize int
	Spelled  bool
}

// Result holds the outcome of rendering one address.
type Result struct {
	Address Address
	Path    string
	Err     error
}

// RenderRange renders the non-empty slots of [b.Start, b.End] concurrently,
// one machine per worker, and returns the results in address order. The
// address space must not be modified while the batch runs.
func RenderRange(ctx context.Context, space *AddressSpace, cfg Config, b Batch) ([]Result, error) {
	log := commonlog.GetLogger("freepants.batch")
	if !b.Start.Valid() || !b.End.Valid() {
		return nil, &AddressError{Value: int64(utils.Max(b.Start, b.End))}
	}
	if b.Format == "" {
		b.Format = ".png"
	}
	if !isValidExtension(b.Format, Formats) {
		return nil, errors.Wrap(ErrUnsupportedFormat, b.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(b.Dst, 0755); err != nil {
		return nil, errors.Wrap(err, "unable to create the destination directory")
	}

	// Limit the concurrently running workers to maxWorkers.
	if b.Workers <= 0 || b.Workers > maxWorkers {
		b.Workers = runtime.NumCPU()
	}

	done := make(chan struct{})
	defer close(done)

	addrs := walkRange(ctx, done, space, b.Start, b.End)
	ch := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(b.Workers)
	for i := 0; i < b.Workers; i++ {
		go func() {
			defer wg.Done()
			consumer(ctx, space, cfg, b, ch, addrs)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var results []Result
	for res := range ch {
		if res.Err != nil {
			log.Warningf("rendering %v failed: %s", res.Address, res.Err)
		} else {
			log.Debugf("rendered %v to %s", res.Address, res.Path)
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Address < results[j].Address })
	return results, ctx.Err()
}

// consumer renders the addresses received from the addrs channel with its
// own machine.
func consumer(ctx context.Context, space *AddressSpace, cfg Config, b Batch, res chan<- Result, addrs <-chan Address) {
	vm, err := NewVM(space, cfg)
	for a := range addrs {
		r := Result{Address: a, Path: filepath.Join(b.Dst, a.String()+b.Format)}
		if err != nil {
			r.Err = err
		} else {
			r.Err = renderTo(vm, a, r.Path, b)
		}
		select {
		case <-ctx.Done():
			return
		case res <- r:
		}
	}
}

func renderTo(vm *VM, a Address, path string, b Batch) error {
	g := vm.space.glyph(a)
	var err error
	if b.Spelled {
		err = vm.RenderSpelled(g)
	} else {
		err = vm.Render(g)
	}
	if err != nil {
		return err
	}
	if strings.EqualFold(b.Format, ".svg") {
		return os.WriteFile(path, []byte(vm.SVG()), 0644)
	}
	if b.IconSize > 0 {
		return EncodeFile(path, Icon(vm.Image(), b.IconSize))
	}
	return EncodeFile(path, vm.Image())
}

// walkRange starts a new goroutine sending every non-empty address of the
// range to a new channel. It finishes when the context is cancelled or
// the done channel gets closed.
func walkRange(ctx context.Context, done <-chan struct{}, space *AddressSpace, start, end Address) <-chan Address {
	out := make(chan Address)
	go func() {
		defer close(out)
		for a := start; a <= end; a++ {
			if space.glyph(a) == "" {
				continue
			}
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case out <- a:
			}
		}
	}()
	return out
}
