package normalize

import "strings"

// ControlKind enumerates the raw value shapes a UI control can report.
type ControlKind int

const (
	// SingleValue covers text inputs, textareas, radio groups and single
	// selects: the control reports one string, empty when nothing is chosen.
	SingleValue ControlKind = iota
	// Checkbox reports its checked flag.
	Checkbox
	// MultiSelect reports the selected option values in selection order.
	MultiSelect
)

func (k ControlKind) String() string {
	switch k {
	case SingleValue:
		return "single-value"
	case Checkbox:
		return "checkbox"
	case MultiSelect:
		return "multi-select"
	default:
		return "unknown"
	}
}

// RawControl is the untyped value a control reported. Only the member that
// matches Kind is meaningful.
type RawControl struct {
	Kind     ControlKind
	Value    string
	Checked  bool
	Selected []string
}

// SingleValueInput describes a text-like control or a radio/select group.
// Pass "" for a group with nothing chosen.
func SingleValueInput(value string) RawControl {
	return RawControl{Kind: SingleValue, Value: value}
}

// CheckboxInput describes a checkbox.
func CheckboxInput(checked bool) RawControl {
	return RawControl{Kind: Checkbox, Checked: checked}
}

// MultiSelectInput describes a multi-select with values selected in order.
func MultiSelectInput(values ...string) RawControl {
	return RawControl{Kind: MultiSelect, Selected: append([]string{}, values...)}
}

// String renders the raw value for diagnostics.
func (r RawControl) String() string {
	switch r.Kind {
	case Checkbox:
		if r.Checked {
			return "checked"
		}
		return "unchecked"
	case MultiSelect:
		return "[" + strings.Join(r.Selected, ",") + "]"
	default:
		return r.Value
	}
}
