package shell

import "strings"

// Field is the input field that receives typed characters.
type Field int

const (
	FieldIdentifier Field = iota
	FieldSecret
)

// SecretCap bounds the password buffer at the input layer. The password
// policy enforces the same bound on its own.
const SecretCap = 10

// Form is the state of the two text fields. Every method returns a new Form.
type Form struct {
	identifier string
	secret     string
	active     Field
}

func NewForm() Form {
	return Form{active: FieldIdentifier}
}

func (f Form) Identifier() string { return f.identifier }
func (f Form) Secret() string     { return f.secret }
func (f Form) Active() Field      { return f.active }

// Masked renders the password as asterisks.
func (f Form) Masked() string {
	return strings.Repeat("*", len(f.secret))
}

// Type appends c to the active field. Only printable ASCII is accepted and
// the password stops growing at SecretCap.
func (f Form) Type(c byte) Form {
	if c < 0x20 || c >= 0x7f {
		return f
	}
	switch f.active {
	case FieldIdentifier:
		f.identifier += string(c)
	case FieldSecret:
		if len(f.secret) < SecretCap {
			f.secret += string(c)
		}
	}
	return f
}

func (f Form) Backspace() Form {
	switch f.active {
	case FieldIdentifier:
		if f.identifier != "" {
			f.identifier = f.identifier[:len(f.identifier)-1]
		}
	case FieldSecret:
		if f.secret != "" {
			f.secret = f.secret[:len(f.secret)-1]
		}
	}
	return f
}

func (f Form) Toggle() Form {
	if f.active == FieldIdentifier {
		f.active = FieldSecret
	} else {
		f.active = FieldIdentifier
	}
	return f
}

func (f Form) Focus(field Field) Form {
	f.active = field
	return f
}

func (f Form) ClearSecret() Form {
	f.secret = ""
	return f
}

// Action is what the screen must do after a key.
type Action int

const (
	ActionNone Action = iota
	ActionSubmit
	ActionRecover
	ActionQuit
)

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyCtrlE     = 0x05
	keyBackspace = 0x08
	keyTab       = '\t'
	keyLF        = '\n'
	keyCtrlP     = 0x10
	keyCR        = '\r'
	keyCtrlR     = 0x12
	keyDelete    = 0x7f
)

// Apply maps one raw key to the next Form and the action it triggers.
func Apply(f Form, key byte) (Form, Action) {
	switch key {
	case keyCtrlC, keyCtrlD:
		return f, ActionQuit
	case keyCtrlR:
		return f, ActionRecover
	case keyCtrlE:
		return f.Focus(FieldIdentifier), ActionNone
	case keyCtrlP:
		return f.Focus(FieldSecret), ActionNone
	case keyBackspace, keyDelete:
		return f.Backspace(), ActionNone
	case keyTab:
		return f.Toggle(), ActionNone
	case keyCR, keyLF:
		if f.active == FieldIdentifier {
			return f.Focus(FieldSecret), ActionNone
		}
		return f, ActionSubmit
	default:
		return f.Type(key), ActionNone
	}
}

// formFromLines builds the Form line mode submits: both strings are typed
// into their fields as if entered key by key.
func formFromLines(identifier, secret string) Form {
	f := NewForm()
	for i := 0; i < len(identifier); i++ {
		f = f.Type(identifier[i])
	}
	f = f.Focus(FieldSecret)
	for i := 0; i < len(secret); i++ {
		f = f.Type(secret[i])
	}
	return f
}
