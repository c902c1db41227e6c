package freepants

import "github.com/pkg/errors"

// State is the mutable machine context threaded through every dispatch:
// the turtle, the snapshot register and the open path and curve bookkeeping.
type State struct {
	Turtle Turtle
	Saved  Snapshot

	origin   Point
	spell    bool
	pathOpen bool
	cp1      Point
	curve    bool
	curveAt  Point

	depth   int
	onStack [AddressCount]bool
}

func (vm *VM) newState(spell bool) *State {
	st := &State{spell: spell}
	if spell {
		st.origin = Point{X: vm.view.Unit, Y: 1.5 * vm.view.Unit}
	}
	vm.reset(st)
	st.Saved = st.Turtle.Save()
	return st
}

// reset puts the turtle back to the origin: spelled text starts at the top
// left corner, drawings at the view origin.
func (vm *VM) reset(st *State) {
	x, y := vm.view.X0, vm.view.Y0
	if st.spell {
		x, y = st.origin.X, st.origin.Y
	}
	st.Turtle = vm.view.Origin(x, y)
}

func (vm *VM) dispatch(st *State, a Address) error {
	if !a.Valid() {
		return &AddressError{Value: int64(a)}
	}
	op := opTable[a]
	t := &st.Turtle
	switch op.Category {
	case NoOp, EditorCommand:
	case ViewControl:
		vm.view.Apply(op.Kind)
	case TextChar:
		t.Word += string(rune(a))
	case SequenceExpand:
		return vm.expand(st, a)
	case TurtleReset:
		vm.reset(st)
	case AngleSet:
		t.Angle = op.Value
	case ScaleSet:
		t.Scale = op.Value
	case StyleSelect:
		t.Style = int(op.Kind)
	case GeometryMove:
		switch op.Kind {
		case MoveForward:
			t.Move(0, 1)
		case MoveBackward:
			t.Move(0, -1)
		case MoveLeft:
			t.Move(-t.Angle, 1)
		case MoveRight:
			t.Move(t.Angle, 1)
		}
	case GeometryTurn:
		if op.Kind == TurnLeft {
			t.Heading -= t.Angle
		} else {
			t.Heading += t.Angle
		}
	case StepScale:
		if op.Kind == Shrink {
			t.Step /= t.Scale
		} else {
			t.Step *= t.Scale
		}
	case AngleScale:
		t.Angle *= op.Value
	case RenderPrimitive:
		vm.draw(st, op.Kind)
	case TextPrimitive:
		vm.text(st)
	case PenState:
		t.PenDown = op.Kind == PenDown
	case RegisterSnapshot:
		if op.Kind == Store {
			st.Saved = t.Save()
		} else {
			t.Load(st.Saved)
		}
	}
	return nil
}

// expand runs the glyph stored at a. Re-entering an address which is still
// being expanded can never terminate and is reported as a cycle.
func (vm *VM) expand(st *State, a Address) error {
	if st.onStack[a] {
		return &RecursionError{Address: a, Depth: st.depth, Cycle: true}
	}
	if st.depth >= vm.cfg.MaxDepth {
		return &RecursionError{Address: a, Depth: st.depth}
	}
	if st.spell && a.IsSymbol() && st.Turtle.X > float64(vm.view.Width)-1.5*vm.view.Unit {
		st.Turtle.Y += 1.2 * vm.view.Unit
		st.Turtle.X = st.origin.X
	}

	tokens, err := vm.tokens(vm.space.glyph(a))
	if err != nil {
		return errors.Wrapf(err, "glyph at %v", a)
	}
	st.onStack[a] = true
	st.depth++
	defer func() {
		st.onStack[a] = false
		st.depth--
	}()
	for _, tok := range tokens {
		if err := vm.dispatch(st, tok); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) arc(t *Turtle, reverse bool) Arc {
	return Arc{
		Center:  t.Pos().Round(),
		Radius:  roundLen(t.Step),
		Start:   t.Heading - t.Angle,
		End:     t.Heading + t.Angle,
		Reverse: reverse,
	}
}

// openPath begins a path at the pen unless one is already open.
func (vm *VM) openPath(st *State) {
	if !st.pathOpen {
		vm.out.BeginPath(st.Turtle.Pos().Round())
		st.pathOpen = true
	}
}

func (vm *VM) draw(st *State, kind uint8) {
	t := &st.Turtle
	style := vm.palette[t.Style]
	pos := t.Pos().Round()
	ahead := t.Ahead(0).Round()

	switch kind {
	case DrawDot:
		vm.out.Circle(pos, style.Width, style, Dotted)
	case DrawCircle:
		vm.out.Circle(pos, roundLen(t.Step), style, Outline)
	case DrawDisc:
		vm.out.Circle(pos, roundLen(t.Step), style, Filled)
	case DrawSegment:
		vm.out.Line(pos, ahead, style)
	case DrawArc:
		vm.out.Arc(vm.arc(t, false), style)
	case PathLine:
		vm.openPath(st)
		vm.out.LineTo(ahead)
	case PathArc, PathArcReverse:
		vm.openPath(st)
		vm.out.ArcTo(vm.arc(t, kind == PathArcReverse))
	case PathBegin:
		if st.pathOpen {
			vm.out.EndPath(style)
		}
		vm.out.BeginPath(pos)
		st.pathOpen = true
	case PathStroke, PathFill:
		if st.pathOpen {
			vm.out.ClosePath(style, kind == PathFill)
			st.pathOpen = false
		}
	case PathEnd:
		vm.endPath(st)
	case PathCurveStart:
		if st.pathOpen {
			vm.out.MoveTo(pos)
		} else {
			vm.openPath(st)
		}
		st.cp1 = ahead
	case PathCurveEnd:
		vm.openPath(st)
		vm.out.CurveTo(st.cp1, ahead, pos)
	case CurveBegin:
		st.curve = true
		st.curveAt = pos
		st.cp1 = ahead
	case CurveEnd:
		from := pos
		if st.curve {
			from = st.curveAt
		}
		vm.out.Curve(from, st.cp1, ahead, pos, style)
		st.curve = false
	}
}

func (vm *VM) endPath(st *State) {
	if st.pathOpen {
		vm.out.EndPath(vm.palette[st.Turtle.Style])
		st.pathOpen = false
	}
}

// text emits the word buffer at the pen, turned by the heading relative to
// the view, and empties the buffer.
func (vm *VM) text(st *State) {
	t := &st.Turtle
	word := t.Word
	if vm.cfg.Unicode {
		word = substitute(word, vm.cfg.UnicodeMap)
	}
	vm.out.Text(t.Pos().Round(), word, roundLen(t.Step), t.Heading-vm.view.Heading, vm.palette[t.Style])
	t.Word = ""
}
