package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/gate"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Form is the intent surface a session drives. *formctl.Controller
// satisfies it.
type Form interface {
	InputChanged(ctx context.Context, field string, raw normalize.RawControl) error
	Submit(ctx context.Context) (gate.Verdict, error)
	Reset(ctx context.Context) error
}

// Outcome reports how a session ended.
type Outcome int

const (
	// OutcomeSaved means a submit went through.
	OutcomeSaved Outcome = iota
	// OutcomeQuit means the user left without saving.
	OutcomeQuit
)

// Menu entries offered after every pass over the fields.
const (
	ActionSave  = "Save"
	ActionEdit  = "Edit again"
	ActionReset = "Reset"
	ActionQuit  = "Quit"
)

var actions = []string{ActionSave, ActionEdit, ActionReset, ActionQuit}

var errSkip = errors.New("tui: field skipped")

// Session walks the user through a form rendered by r, sending every answer
// to form as an input intent.
type Session struct {
	form Form
	r    *Renderer
}

// NewSession binds a renderer to the form it renders.
func NewSession(form Form, r *Renderer) *Session {
	return &Session{form: form, r: r}
}

// Run prompts for every field, then offers the action menu until the user
// saves or quits.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	if s == nil || s.form == nil || s.r == nil {
		return OutcomeQuit, errors.New("tui: session requires a form and a renderer")
	}
	for {
		frame, ok := s.r.Frame()
		if !ok {
			return OutcomeQuit, ErrNoFrame
		}
		if frame.Disabled {
			s.r.info(ctx, "The form is disabled.")
			return OutcomeQuit, nil
		}

		for _, field := range frame.Schema.Fields() {
			if err := s.promptField(ctx, field); err != nil {
				return OutcomeQuit, err
			}
		}

		outcome, again, err := s.menu(ctx)
		if err != nil || !again {
			return outcome, err
		}
	}
}

// menu returns again=true when the fields should be prompted once more.
func (s *Session) menu(ctx context.Context) (Outcome, bool, error) {
	for {
		frame, _ := s.r.Frame()
		s.r.info(ctx, Summary(frame))

		def := indexOf(actions, ActionSave)
		if !frame.Submittable() {
			def = indexOf(actions, ActionEdit)
		}
		idx, err := s.r.driver.Select(ctx, SelectConfig{
			Message:      s.r.theme.PromptPrefix + "Next",
			Options:      actions,
			DefaultIndex: def,
			PageSize:     s.r.pageSize,
		})
		if err != nil {
			return OutcomeQuit, false, err
		}
		if idx < 0 || idx >= len(actions) {
			s.r.errorf(ctx, "Invalid selection")
			continue
		}

		switch actions[idx] {
		case ActionSave:
			verdict, err := s.form.Submit(ctx)
			if err != nil {
				return OutcomeQuit, false, err
			}
			if verdict.Submittable {
				s.r.info(ctx, "Saved.")
				return OutcomeSaved, false, nil
			}
			s.r.errorf(ctx, "Cannot save: "+verdict.Message())
		case ActionEdit:
			return OutcomeQuit, true, nil
		case ActionReset:
			if err := s.form.Reset(ctx); err != nil {
				return OutcomeQuit, false, err
			}
			return OutcomeQuit, true, nil
		case ActionQuit:
			return OutcomeQuit, false, nil
		}
	}
}

func (s *Session) promptField(ctx context.Context, field fieldschema.Field) error {
	for {
		frame, _ := s.r.Frame()
		raw, err := s.ask(ctx, frame, field)
		if errors.Is(err, errSkip) {
			return nil
		}
		if err != nil {
			return err
		}

		err = s.form.InputChanged(ctx, field.Name, raw)
		var coercionErr *normalize.CoercionError
		if errors.As(err, &coercionErr) {
			s.r.errorf(ctx, fmt.Sprintf("%s: %s", field.DisplayLabel(), coercionErr.Message()))
			continue
		}
		return err
	}
}

func (s *Session) ask(ctx context.Context, frame render.Frame, field fieldschema.Field) (normalize.RawControl, error) {
	label := s.r.theme.PromptPrefix + promptLabel(field)
	widget := frame.Widgets[field.Name]

	switch widget {
	case widgets.WidgetCheckbox:
		checked, err := s.r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: frame.State.Bool(field.Name),
			Help:    field.Placeholder,
		})
		if err != nil {
			return normalize.RawControl{}, err
		}
		return normalize.CheckboxInput(checked), nil

	case widgets.WidgetTextArea:
		text, err := s.r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: frame.State.Text(field.Name),
			Help:    field.Placeholder,
		})
		if err != nil {
			return normalize.RawControl{}, err
		}
		return normalize.SingleValueInput(text), nil

	case widgets.WidgetRadio, widgets.WidgetSelect:
		if coll, ok := frame.Collection(field); ok || field.Options != "" {
			return s.askChoice(ctx, frame, field, widget, coll, label)
		}

	case widgets.WidgetMultiSelect:
		if coll, ok := frame.Collection(field); ok || field.Options != "" {
			return s.askMulti(ctx, frame, field, coll, label)
		}
		// Free-form lists are typed as comma separated ids.
		text, err := s.r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: joinInts(frame.State.IntegerList(field.Name)),
			Help:    "comma separated",
		})
		if err != nil {
			return normalize.RawControl{}, err
		}
		return normalize.MultiSelectInput(splitList(text)...), nil
	}

	def := frame.State.Text(field.Name)
	if field.Type == fieldschema.TypeInteger {
		def = ""
		if n, set := frame.State.Integer(field.Name); set {
			def = strconv.Itoa(n)
		}
	}
	text, err := s.r.driver.Input(ctx, InputConfig{
		Message: label,
		Default: def,
		Help:    field.Placeholder,
	})
	if err != nil {
		return normalize.RawControl{}, err
	}
	return normalize.SingleValueInput(text), nil
}

func (s *Session) askChoice(ctx context.Context, frame render.Frame, field fieldschema.Field, widget string, coll options.Collection, label string) (normalize.RawControl, error) {
	if !coll.Ready() {
		s.r.info(ctx, fmt.Sprintf("%s: %s", field.DisplayLabel(), statusText(coll)))
		return normalize.RawControl{}, errSkip
	}

	labels := optionLabels(coll.Options)
	offset := 0
	if widget == widgets.WidgetSelect {
		labels = append([]string{"(none)"}, labels...)
		offset = 1
	}

	def := -1
	if remembered, ok := s.r.recall(field.Name); ok && len(remembered) > 0 {
		def = remembered[0]
	} else if id, set := frame.State.Integer(field.Name); set {
		if i := optionIndex(coll.Options, id); i >= 0 {
			def = i + offset
		}
	} else if offset == 1 {
		def = 0
	}

	for {
		idx, err := s.r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      labels,
			DefaultIndex: def,
			PageSize:     s.r.pageSize,
		})
		if err != nil {
			return normalize.RawControl{}, err
		}
		if idx < 0 || idx >= len(labels) {
			s.r.errorf(ctx, fmt.Sprintf("Invalid %s selection", field.DisplayLabel()))
			continue
		}
		s.r.remember(field.Name, []int{idx})
		if idx < offset {
			return normalize.SingleValueInput(""), nil
		}
		return normalize.SingleValueInput(strconv.Itoa(coll.Options[idx-offset].ID)), nil
	}
}

func (s *Session) askMulti(ctx context.Context, frame render.Frame, field fieldschema.Field, coll options.Collection, label string) (normalize.RawControl, error) {
	if !coll.Ready() {
		s.r.info(ctx, fmt.Sprintf("%s: %s", field.DisplayLabel(), statusText(coll)))
		return normalize.RawControl{}, errSkip
	}

	defaults, ok := s.r.recall(field.Name)
	if !ok {
		for _, id := range frame.State.IntegerList(field.Name) {
			if i := optionIndex(coll.Options, id); i >= 0 {
				defaults = append(defaults, i)
			}
		}
	}

	labels := optionLabels(coll.Options)
	indices, err := s.r.driver.MultiSelect(ctx, SelectConfig{
		Message:      label,
		Options:      labels,
		DefaultIndex: -1,
		Defaults:     defaults,
		PageSize:     s.r.pageSize,
	})
	if err != nil {
		return normalize.RawControl{}, err
	}

	values := make([]string, 0, len(indices))
	kept := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(coll.Options) {
			continue
		}
		kept = append(kept, idx)
		values = append(values, strconv.Itoa(coll.Options[idx].ID))
	}
	s.r.remember(field.Name, kept)
	return normalize.MultiSelectInput(values...), nil
}

// Summary renders the frame's values one per line, using option labels for
// choice fields.
func Summary(frame render.Frame) string {
	if frame.Schema == nil {
		return ""
	}
	var b strings.Builder
	for _, field := range frame.Schema.Fields() {
		fmt.Fprintf(&b, "%s: %s\n", field.DisplayLabel(), displayValue(frame, field))
	}
	if !frame.Submittable() {
		if msg := frame.Verdict.Message(); msg != "" {
			fmt.Fprintf(&b, "(%s)\n", msg)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func displayValue(frame render.Frame, field fieldschema.Field) string {
	coll, hasColl := frame.Collection(field)
	switch field.Type {
	case fieldschema.TypeBoolean:
		if frame.State.Bool(field.Name) {
			return "yes"
		}
		return "no"
	case fieldschema.TypeInteger:
		id, set := frame.State.Integer(field.Name)
		if !set {
			return "-"
		}
		if hasColl {
			if l, ok := coll.Label(id); ok {
				return l
			}
		}
		return strconv.Itoa(id)
	case fieldschema.TypeIntegerList:
		ids := frame.State.IntegerList(field.Name)
		if len(ids) == 0 {
			return "-"
		}
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			l, ok := "", false
			if hasColl {
				l, ok = coll.Label(id)
			}
			if !ok {
				l = strconv.Itoa(id)
			}
			out = append(out, l)
		}
		return strings.Join(out, ", ")
	default:
		if v := frame.State.Text(field.Name); v != "" {
			return v
		}
		return "-"
	}
}

func promptLabel(field fieldschema.Field) string {
	if field.Required {
		return field.DisplayLabel() + " *"
	}
	return field.DisplayLabel()
}

func statusText(coll options.Collection) string {
	switch coll.Status {
	case options.StatusUnavailable:
		return "options unavailable"
	case options.StatusReady:
		return "no options"
	default:
		return "loading…"
	}
}

func optionLabels(opts []options.Option) []string {
	out := make([]string, 0, len(opts))
	for _, opt := range opts {
		out = append(out, opt.Label)
	}
	return out
}

func optionIndex(opts []options.Option, id int) int {
	for i, opt := range opts {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

func joinInts(values []int) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strconv.Itoa(v))
	}
	return strings.Join(out, ",")
}

func splitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
