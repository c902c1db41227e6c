package freepants

import (
	"image"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// maxCachedGlyphs bounds the parsed glyph cache of a machine.
const maxCachedGlyphs = 4096

// VM is the geometric virtual machine. It owns an address space, the view
// framing and a raster and a markup target which every drawing primitive
// feeds together. A VM is not safe for concurrent use; run one per target.
type VM struct {
	cfg     Config
	palette [StyleLayers]Style
	space   *AddressSpace
	view    View
	state   *State

	raster *Raster
	markup *Markup
	out    fanout

	parsed map[Glyph][]Address
	log    commonlog.Logger
}

// NewVM returns a machine over the address space.
func NewVM(space *AddressSpace, cfg Config) (*VM, error) {
	if space == nil {
		return nil, errors.New("nil address space")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	raster, err := NewRaster(cfg.Width, cfg.Height, cfg.Background)
	if err != nil {
		return nil, errors.Wrap(err, "background")
	}
	vm := &VM{
		cfg:     cfg,
		palette: cfg.Palette(),
		space:   space,
		view:    NewView(cfg),
		raster:  raster,
		markup:  NewMarkup(cfg.Width, cfg.Height, cfg.Font),
		parsed:  make(map[Glyph][]Address),
		log:     commonlog.GetLogger("freepants.vm"),
	}
	vm.out = fanout{vm.raster, vm.markup}
	vm.state = vm.newState(false)
	vm.out.Finish()
	return vm, nil
}

// Attach adds a backend which receives every drawing call after the raster
// and markup targets.
func (vm *VM) Attach(b Backend) {
	vm.out = append(vm.out, b)
}

// Space returns the address space of the machine.
func (vm *VM) Space() *AddressSpace { return vm.space }

// Config returns the machine settings.
func (vm *VM) Config() Config { return vm.cfg }

// Turtle returns the turtle registers as left by the last operation.
func (vm *VM) Turtle() Turtle { return vm.state.Turtle }

// View returns the current framing.
func (vm *VM) View() View { return vm.view }

// SetView replaces the framing used by the following renders.
func (vm *VM) SetView(v View) { vm.view = v }

// SVG returns the vector document of the last render.
func (vm *VM) SVG() string { return vm.markup.String() }

// Image returns the raster canvas.
func (vm *VM) Image() *image.NRGBA { return vm.raster.Image() }

// PNGDataURL returns the raster canvas as an embeddable PNG data URL.
func (vm *VM) PNGDataURL() (string, error) { return DataURL(vm.raster.Image()) }

// Execute dispatches a single address against the live machine state
// without clearing the targets.
func (vm *VM) Execute(a Address) error {
	if err := vm.dispatch(vm.state, a); err != nil {
		vm.abort(err)
		return err
	}
	return nil
}

// ExecuteSequence dispatches every token of the glyph, in order, against the
// live machine state.
func (vm *VM) ExecuteSequence(g Glyph) error {
	tokens, err := vm.tokens(g)
	if err != nil {
		return err
	}
	for _, a := range tokens {
		if err := vm.dispatch(vm.state, a); err != nil {
			vm.abort(err)
			return err
		}
	}
	return nil
}

// Render clears both targets, resets the turtle and draws the glyph.
func (vm *VM) Render(g Glyph) error {
	return vm.run(g, false)
}

// RenderSpelled lays the glyph out as wrapped text: every token below the
// symbol layer, printable characters and the cursor aside, is replaced with
// its symbol-layer counterpart, drawing
// starts at the top left corner and moves to a new line before a symbol
// which would start past the right margin.
func (vm *VM) RenderSpelled(g Glyph) error {
	return vm.run(g, true)
}

// RenderAddress renders the glyph stored at the address.
func (vm *VM) RenderAddress(a Address) error {
	g, err := vm.space.Get(a)
	if err != nil {
		return err
	}
	return vm.Render(g)
}

func (vm *VM) run(g Glyph, spell bool) error {
	vm.out.Reset()
	tokens, err := vm.tokens(g)
	if err != nil {
		vm.out.Finish()
		return err
	}
	st := vm.newState(spell)
	vm.state = st
	for _, a := range tokens {
		if spell {
			a = a.Symbol()
		}
		if err := vm.dispatch(st, a); err != nil {
			vm.abort(err)
			return errors.Wrap(err, "render")
		}
	}
	vm.endPath(st)
	vm.out.Finish()
	vm.log.Debugf("rendered %d tokens, pen at (%.1f, %.1f)", len(tokens), st.Turtle.X, st.Turtle.Y)
	return nil
}

// abort discards the partial drawing and starts over from a reset state.
// The address space is never touched by the interpreter.
func (vm *VM) abort(err error) {
	vm.log.Warningf("discarding partial drawing: %s", err)
	vm.out.Reset()
	vm.out.Finish()
	vm.state = vm.newState(vm.state.spell)
}

func (vm *VM) tokens(g Glyph) ([]Address, error) {
	if t, ok := vm.parsed[g]; ok {
		return t, nil
	}
	t, err := g.Tokens()
	if err != nil {
		return nil, err
	}
	if len(vm.parsed) >= maxCachedGlyphs {
		vm.parsed = make(map[Glyph][]Address)
	}
	vm.parsed[g] = t
	return t, nil
}
