package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
)

// coerceFunc turns one raw control shape into one primitive type.
type coerceFunc func(raw RawControl) (any, error)

type coercionKey struct {
	kind ControlKind
	typ  fieldschema.PrimitiveType
}

// coercions is the full set of supported control/type pairs. Anything missing
// is a control mismatch.
var coercions = map[coercionKey]coerceFunc{
	{SingleValue, fieldschema.TypeText}:        textFromValue,
	{SingleValue, fieldschema.TypeInteger}:     integerFromValue,
	{SingleValue, fieldschema.TypeBoolean}:     booleanFromValue,
	{Checkbox, fieldschema.TypeBoolean}:        booleanFromChecked,
	{MultiSelect, fieldschema.TypeIntegerList}: integerListFromSelection,
}

func lookupCoercion(kind ControlKind, typ fieldschema.PrimitiveType) (coerceFunc, bool) {
	fn, ok := coercions[coercionKey{kind: kind, typ: typ}]
	return fn, ok
}

func textFromValue(raw RawControl) (any, error) {
	return raw.Value, nil
}

func integerFromValue(raw RawControl) (any, error) {
	return parseInteger(raw.Value)
}

// parseInteger maps "" to Unset and rejects anything that is not a base-10
// integer.
func parseInteger(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fieldschema.Unset, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, value)
	}
	if n == fieldschema.Unset {
		return 0, ErrSentinelValue
	}
	return n, nil
}

func booleanFromChecked(raw RawControl) (any, error) {
	return raw.Checked, nil
}

func booleanFromValue(raw RawControl) (any, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw.Value))
	switch trimmed {
	case "":
		return false, nil
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotBoolean, raw.Value)
	}
	return b, nil
}

func integerListFromSelection(raw RawControl) (any, error) {
	out := make([]int, 0, len(raw.Selected))
	seen := make(map[int]struct{}, len(raw.Selected))
	for _, value := range raw.Selected {
		n, err := parseInteger(value)
		if err != nil {
			return nil, err
		}
		if n == fieldschema.Unset {
			return nil, fmt.Errorf("%w: empty selection value", ErrNotInteger)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSelection, n)
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}
