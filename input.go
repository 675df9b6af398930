package focus

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Printable character; see KeyEvent.Rune
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCount
)

// ModifierKey is a bit set of held modifier keys.
type ModifierKey uint8

const (
	ModShift ModifierKey = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// KeyAction distinguishes press, auto-repeat and release.
type KeyAction uint8

const (
	KeyActionDown KeyAction = iota
	KeyActionRepeat
	KeyActionUp
)

// String returns a human-readable name for the action.
func (a KeyAction) String() string {
	switch a {
	case KeyActionDown:
		return "Down"
	case KeyActionRepeat:
		return "Repeat"
	case KeyActionUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// KeyEvent is one raw key event delivered by a platform backend.
type KeyEvent struct {
	Key    Key
	Rune   rune // Set when Key == KeyRune
	Mods   ModifierKey
	Action KeyAction
}

// Has reports whether all modifiers in m are held.
func (e KeyEvent) Has(m ModifierKey) bool {
	return e.Mods&m == m
}

// IsDown reports whether the event is a press or an auto-repeat.
func (e KeyEvent) IsDown() bool {
	return e.Action == KeyActionDown || e.Action == KeyActionRepeat
}

func (e KeyEvent) String() string {
	name := KeyName(e.Key)
	if e.Key == KeyRune {
		name = string(e.Rune)
	}
	prefix := ""
	if e.Has(ModCtrl) {
		prefix += "Ctrl+"
	}
	if e.Has(ModAlt) {
		prefix += "Alt+"
	}
	if e.Has(ModSuper) {
		prefix += "Super+"
	}
	if e.Has(ModShift) {
		prefix += "Shift+"
	}
	return prefix + name + " " + e.Action.String()
}

var keyNames = map[Key]string{
	KeyNone:      "--",
	KeyRune:      "Rune",
	KeyTab:       "Tab",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyInsert:    "Ins",
	KeyDelete:    "Del",
	KeyBackspace: "Backspace",
	KeySpace:     "Space",
	KeyEnter:     "Enter",
	KeyEscape:    "Esc",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
}

// KeyName returns a human-readable name for a key.
func KeyName(k Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "?"
}
