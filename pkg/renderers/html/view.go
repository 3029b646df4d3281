package html

import (
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeLabel strips markup from labels that may come from remote option
// suppliers. The template escapes whatever is left.
func sanitizeLabel(raw string) string {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(labelPolicy.Sanitize(raw))
}

func formView(frame render.Frame) map[string]any {
	view := map[string]any{
		"disabled":    frame.Disabled,
		"submittable": frame.Submittable(),
		"reason":      string(frame.Verdict.Reason),
		"message":     "",
	}
	if !frame.Submittable() && !frame.Disabled {
		view["message"] = frame.Verdict.Message()
	}
	return view
}

func fieldViews(frame render.Frame, pending map[string]struct{}) []map[string]any {
	fields := frame.Schema.Fields()
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		widget := frame.Widgets[field.Name]
		if widget == "" {
			widget = widgets.WidgetText
		}
		_, reset := pending[field.Name]

		view := map[string]any{
			"id":          "fs-" + field.Name,
			"name":        field.Name,
			"label":       sanitizeLabel(field.DisplayLabel()),
			"widget":      widget,
			"required":    field.Required,
			"placeholder": sanitizeLabel(field.Placeholder),
			"error":       frame.Errors[field.Name],
			"reset":       reset,
			"minLength":   field.MinLength,
			"maxLength":   field.MaxLength,
			"pattern":     field.Pattern,
			"hasMin":      field.Min != nil,
			"hasMax":      field.Max != nil,
			"inputType":   "text",
		}
		if field.Min != nil {
			view["min"] = strconv.Itoa(*field.Min)
		}
		if field.Max != nil {
			view["max"] = strconv.Itoa(*field.Max)
		}

		switch field.Type {
		case fieldschema.TypeBoolean:
			view["checked"] = frame.State.Bool(field.Name)
		case fieldschema.TypeInteger:
			view["inputType"] = "number"
			id, set := frame.State.Integer(field.Name)
			view["hasValue"] = set
			view["value"] = ""
			if set {
				view["value"] = strconv.Itoa(id)
			}
			if field.Options != "" {
				selected := map[int]bool{}
				if set {
					selected[id] = true
				}
				addOptions(view, frame, field, selected)
			}
		case fieldschema.TypeIntegerList:
			ids := frame.State.IntegerList(field.Name)
			selected := make(map[int]bool, len(ids))
			for _, id := range ids {
				selected[id] = true
			}
			view["hasValue"] = len(ids) > 0
			addOptions(view, frame, field, selected)
		default:
			view["value"] = frame.State.Text(field.Name)
		}
		out = append(out, view)
	}
	return out
}

func addOptions(view map[string]any, frame render.Frame, field fieldschema.Field, selected map[int]bool) {
	coll, ok := frame.Collection(field)
	status := string(options.StatusPending)
	if ok {
		status = string(coll.Status)
	}
	view["status"] = status

	opts := make([]map[string]any, 0, len(coll.Options))
	for _, opt := range coll.Options {
		opts = append(opts, map[string]any{
			"id":       strconv.Itoa(opt.ID),
			"label":    sanitizeLabel(opt.Label),
			"selected": selected[opt.ID],
		})
	}
	view["options"] = opts
}
