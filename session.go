package freepants

// Session couples a machine with an editor the way an interactive keyboard
// does: every key edits the glyph or moves the view, then the glyph is
// previewed with its cursor.
type Session struct {
	vm     *VM
	editor *Editor
}

// NewSession starts editing the glyph stored at home.
func NewSession(vm *VM, home Address) (*Session, error) {
	e, err := NewEditor(vm.Space(), home)
	if err != nil {
		return nil, err
	}
	s := &Session{vm: vm, editor: e}
	return s, s.Preview()
}

// VM returns the machine of the session.
func (s *Session) VM() *VM { return s.vm }

// Editor returns the editor of the session.
func (s *Session) Editor() *Editor { return s.editor }

// Key handles one action: editor commands go to the editor, view controls
// to the machine, anything else is inserted at the cursor.
func (s *Session) Key(a Address) error {
	switch op := Decode(a); {
	case !a.Valid():
		return &AddressError{Value: int64(a)}
	case op.Category == ViewControl:
		if err := s.vm.Execute(a); err != nil {
			return err
		}
	case a < FirstPrintable:
		s.editor.Apply(a)
	default:
		if err := s.editor.Insert(a); err != nil {
			return err
		}
	}
	return s.Preview()
}

// Type sends every printable character of text through its keyboard binding:
// the first token of the glyph stored at the character's address. Unbound
// characters are skipped.
func (s *Session) Type(text string) error {
	for _, r := range text {
		a := Address(r)
		if r > rune(LastPrintable) || !a.IsPrintable() {
			continue
		}
		tokens, err := s.vm.tokens(s.vm.space.glyph(a))
		if err != nil {
			return err
		}
		if len(tokens) == 0 {
			continue
		}
		if err := s.Key(tokens[0]); err != nil {
			return err
		}
	}
	return nil
}

// Preview renders the edited glyph, cursor included.
func (s *Session) Preview() error {
	return s.vm.Render(s.editor.Text())
}
