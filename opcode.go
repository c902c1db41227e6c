package freepants

import "math"

// Category is the action family an address belongs to.
type Category uint8

// The action families of the address space.
const (
	NoOp Category = iota
	EditorCommand
	ViewControl
	TextChar
	SequenceExpand
	TurtleReset
	AngleSet
	ScaleSet
	StyleSelect
	GeometryMove
	GeometryTurn
	StepScale
	AngleScale
	RenderPrimitive
	TextPrimitive
	PenState
	RegisterSnapshot
)

var categoryNames = [...]string{
	NoOp:             "no-op",
	EditorCommand:    "editor-command",
	ViewControl:      "view-control",
	TextChar:         "text-char",
	SequenceExpand:   "sequence-expand",
	TurtleReset:      "turtle-reset",
	AngleSet:         "angle-set",
	ScaleSet:         "scale-set",
	StyleSelect:      "style-select",
	GeometryMove:     "geometry-move",
	GeometryTurn:     "geometry-turn",
	StepScale:        "step-scale",
	AngleScale:       "angle-scale",
	RenderPrimitive:  "render-primitive",
	TextPrimitive:    "text-primitive",
	PenState:         "pen-state",
	RegisterSnapshot: "register-snapshot",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Editor commands.
const (
	CmdDelete   Address = 010
	CmdClear    Address = 011
	CmdSpell    Address = 012
	CmdBack     Address = 020
	CmdForward  Address = 021
	CmdNext     Address = 022
	CmdPrevious Address = 023
	CmdToggle   Address = 024
)

// Kinds of ViewControl.
const (
	PanUp uint8 = iota
	PanDown
	PanLeft
	PanRight
	RotateLeft
	RotateRight
	ZoomOut
	ZoomIn
)

// Kinds of GeometryMove.
const (
	MoveForward uint8 = iota
	MoveBackward
	MoveLeft
	MoveRight
)

// Kinds of GeometryTurn, StepScale, PenState and RegisterSnapshot.
const (
	TurnLeft uint8 = iota
	TurnRight
)

const (
	Shrink uint8 = iota
	Grow
)

const (
	PenDown uint8 = iota
	PenUp
)

const (
	Store uint8 = iota
	Restore
)

// Kinds of RenderPrimitive.
const (
	DrawDot uint8 = iota
	DrawCircle
	DrawSegment
	DrawArc
	PathLine
	PathArc
	PathArcReverse
	DrawDisc
	PathStroke
	PathCurveStart
	PathCurveEnd
	PathBegin
	PathFill
	PathEnd
	CurveBegin
	CurveEnd
)

// Op is the decoded form of an address: its category and only the data that
// category needs.
type Op struct {
	Category Category
	Kind     uint8
	Value    float64
}

var opTable [AddressCount]Op

func init() {
	for a := range opTable {
		opTable[a] = decode(Address(a))
	}
}

// Decode returns the operation bound to the address.
func Decode(a Address) Op {
	if !a.Valid() {
		return Op{}
	}
	return opTable[a]
}

func decode(a Address) Op {
	switch {
	case a >= 010 && a <= 024:
		switch a {
		case CmdDelete, CmdClear, CmdSpell, CmdBack, CmdForward, CmdNext, CmdPrevious, CmdToggle:
			return Op{Category: EditorCommand, Kind: uint8(a)}
		}
		return Op{}
	case a >= 030 && a <= 037:
		return Op{Category: ViewControl, Kind: uint8(a - 030)}
	case a.IsPrintable():
		return Op{Category: TextChar, Kind: uint8(a)}
	case a >= 0200 && a <= 0277, a >= 0500 && a <= 0677, a >= SymbolOffset && a.Valid():
		return Op{Category: SequenceExpand}
	case a >= 0300 && a <= 0377:
		return decodePrimitive(a)
	}
	return Op{}
}

func decodePrimitive(a Address) Op {
	switch {
	case a == Reset:
		return Op{Category: TurtleReset}
	case a >= 0304 && a <= 0306:
		return Op{Category: AngleSet, Value: [...]float64{math.Pi / 2, 2 * math.Pi / 5, math.Pi / 3}[a-0304]}
	case a >= 0310 && a <= 0316:
		return Op{Category: ScaleSet, Value: scaleFactors[a-0310]}
	case a >= 0320 && a <= 0327:
		return Op{Category: StyleSelect, Kind: uint8(a - 0320)}
	case a >= 0330 && a <= 0333:
		return Op{Category: GeometryMove, Kind: uint8(a - 0330)}
	case a == 0334 || a == 0335:
		return Op{Category: GeometryTurn, Kind: uint8(a - 0334)}
	case a == 0336 || a == 0337:
		return Op{Category: StepScale, Kind: uint8(a - 0336)}
	case a >= 0340 && a <= 0347:
		return Op{Category: RenderPrimitive, Kind: uint8(a - 0340)}
	case a >= 0350 && a <= 0353:
		return Op{Category: AngleScale, Value: [...]float64{0.5, 2, 1.0 / 3, 3}[a-0350]}
	case a == 0354:
		return Op{Category: RenderPrimitive, Kind: PathStroke}
	case a == 0356 || a == 0357:
		return Op{Category: PenState, Kind: uint8(a - 0356)}
	case a == 0360 || a == 0361:
		return Op{Category: RenderPrimitive, Kind: PathCurveStart + uint8(a-0360)}
	case a >= 0362 && a <= 0364:
		return Op{Category: RenderPrimitive, Kind: PathBegin + uint8(a-0362)}
	case a == 0365:
		return Op{Category: TextPrimitive}
	case a == 0366 || a == 0367:
		return Op{Category: RenderPrimitive, Kind: CurveBegin + uint8(a-0366)}
	case a == 0370 || a == 0371:
		return Op{Category: RegisterSnapshot, Kind: uint8(a - 0370)}
	}
	return Op{}
}

// scaleFactors are selected by 0310 to 0316.
var scaleFactors = [...]float64{
	math.Sqrt2,
	math.Phi,
	math.Sqrt(3),
	2,
	3,
	1.1755705,
	5,
}
