package ui

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var formSeq atomic.Int64

// FormSubmitMsg is emitted when the user confirms a form with enter.
type FormSubmitMsg struct{ ID int64 }

// FormCancelMsg is emitted when the user dismisses a form with esc.
type FormCancelMsg struct{ ID int64 }

// Field is one form entry: a free-text input, or a fixed-option selector
// when Options is set. Selectors cycle with left/right.
type Field struct {
	Label    string
	Input    textinput.Model
	Options  []string
	Selected int
}

// NewTextField creates a text entry field.
func NewTextField(label, placeholder string) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	return Field{Label: label, Input: ti}
}

// NewPasswordField creates a masked text entry field.
func NewPasswordField(label string) Field {
	f := NewTextField(label, "")
	f.Input.EchoMode = textinput.EchoPassword
	f.Input.EchoCharacter = '•'
	return f
}

// NewSelectField creates a fixed-option selector starting on the first
// option.
func NewSelectField(label string, options []string) Field {
	return Field{Label: label, Options: options}
}

func (f Field) isSelect() bool { return len(f.Options) > 0 }

// Value returns the field's current content: the text for inputs, the
// selected option for selectors.
func (f Field) Value() string {
	if f.isSelect() {
		return f.Options[f.Selected]
	}
	return strings.TrimSpace(f.Input.Value())
}

// Form is a modal data-entry dialog. It owns keyboard focus while open:
// tab/down and shift+tab/up move between fields, enter submits, esc
// cancels. Submission and cancellation surface as messages tagged with the
// form's ID so a page hosting several forms can tell them apart.
type Form struct {
	id     int64
	Title  string
	fields []Field
	focus  int
	errMsg string
	busy   bool
}

// NewForm creates a form over the given fields with the first one focused.
func NewForm(title string, fields ...Field) Form {
	f := Form{id: formSeq.Add(1), Title: title, fields: fields}
	if len(f.fields) > 0 && !f.fields[0].isSelect() {
		f.fields[0].Input.Focus()
	}
	return f
}

// Owns reports whether a submit or cancel message came from this form.
func (f Form) Owns(msg tea.Msg) bool {
	switch m := msg.(type) {
	case FormSubmitMsg:
		return m.ID == f.id
	case FormCancelMsg:
		return m.ID == f.id
	}
	return false
}

// Value returns the content of field i.
func (f Form) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].Value()
}

// SetValue presets the content of field i, used when editing an existing
// record.
func (f Form) SetValue(i int, v string) Form {
	if i < 0 || i >= len(f.fields) {
		return f
	}
	fld := &f.fields[i]
	if fld.isSelect() {
		for j, opt := range fld.Options {
			if opt == v {
				fld.Selected = j
				break
			}
		}
		return f
	}
	fld.Input.SetValue(v)
	return f
}

// SetError shows a validation or server error inside the form and unlocks
// it for another attempt.
func (f Form) SetError(msg string) Form {
	f.errMsg = msg
	f.busy = false
	return f
}

// SetBusy locks the form while its submission is in flight.
func (f Form) SetBusy() Form {
	f.busy = true
	f.errMsg = ""
	return f
}

// Busy reports whether a submission is in flight.
func (f Form) Busy() bool { return f.busy }

// Update advances the form's focus and inputs.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateFocused(msg)
	}
	if f.busy {
		return f, nil
	}

	switch key.String() {
	case "esc":
		id := f.id
		return f, func() tea.Msg { return FormCancelMsg{ID: id} }

	case "enter":
		id := f.id
		return f, func() tea.Msg { return FormSubmitMsg{ID: id} }

	case "tab", "down":
		return f.moveFocus(1), nil

	case "shift+tab", "up":
		return f.moveFocus(-1), nil

	case "left", "right":
		if fld := &f.fields[f.focus]; fld.isSelect() {
			delta := 1
			if key.String() == "left" {
				delta = len(fld.Options) - 1
			}
			fld.Selected = (fld.Selected + delta) % len(fld.Options)
			return f, nil
		}
	}
	return f.updateFocused(msg)
}

func (f Form) updateFocused(msg tea.Msg) (Form, tea.Cmd) {
	if f.focus >= len(f.fields) || f.fields[f.focus].isSelect() {
		return f, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].Input, cmd = f.fields[f.focus].Input.Update(msg)
	return f, cmd
}

func (f Form) moveFocus(delta int) Form {
	if len(f.fields) == 0 {
		return f
	}
	if !f.fields[f.focus].isSelect() {
		f.fields[f.focus].Input.Blur()
	}
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	if !f.fields[f.focus].isSelect() {
		f.fields[f.focus].Input.Focus()
	}
	return f
}

// View renders the form inside the modal frame.
func (f Form) View(styles Styles) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(f.Title))
	sb.WriteString("\n")

	for i, fld := range f.fields {
		label := fld.Label
		if i == f.focus {
			sb.WriteString(styles.Bold.Render("> " + label))
		} else {
			sb.WriteString(styles.Muted.Render("  " + label))
		}
		sb.WriteString("\n")

		if fld.isSelect() {
			marker := "  "
			if i == f.focus {
				marker = "◂ "
			}
			sb.WriteString("  " + marker + styles.Badge.Render(fld.Options[fld.Selected]))
			if i == f.focus {
				sb.WriteString(" ▸")
			}
		} else {
			sb.WriteString("  " + fld.Input.View())
		}
		sb.WriteString("\n")
	}

	if f.errMsg != "" {
		sb.WriteString("\n" + styles.Error.Render(f.errMsg))
	}
	if f.busy {
		sb.WriteString("\n" + styles.Muted.Render("Enviando..."))
	} else {
		sb.WriteString("\n" + styles.Muted.Render("enter confirma · esc cancela · tab próximo campo"))
	}

	return styles.Modal.Render(sb.String())
}

// ConfirmMsg is the outcome of a ConfirmDialog.
type ConfirmMsg struct {
	ID int64
	OK bool
}

// ConfirmDialog is a yes/no modal used before destructive actions.
type ConfirmDialog struct {
	id      int64
	Message string
	yes     bool
}

// NewConfirmDialog creates a dialog defaulting to "no".
func NewConfirmDialog(message string) ConfirmDialog {
	return ConfirmDialog{id: formSeq.Add(1), Message: message}
}

// Owns reports whether a ConfirmMsg came from this dialog.
func (c ConfirmDialog) Owns(msg ConfirmMsg) bool { return msg.ID == c.id }

// Update handles left/right to move and enter/esc to decide.
func (c ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch key.String() {
	case "left", "right", "tab":
		c.yes = !c.yes
	case "enter":
		id, ok := c.id, c.yes
		return c, func() tea.Msg { return ConfirmMsg{ID: id, OK: ok} }
	case "esc":
		id := c.id
		return c, func() tea.Msg { return ConfirmMsg{ID: id, OK: false} }
	}
	return c, nil
}

// View renders the dialog inside the modal frame.
func (c ConfirmDialog) View(styles Styles) string {
	yes, no := "  Sim  ", "  Não  "
	if c.yes {
		yes = styles.Error.Render("[ Sim ]")
		no = styles.Muted.Render(no)
	} else {
		no = styles.Bold.Render("[ Não ]")
		yes = styles.Muted.Render(yes)
	}
	body := c.Message + "\n\n" + yes + "   " + no
	return styles.Modal.Render(body)
}
