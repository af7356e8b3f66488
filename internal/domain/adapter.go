package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Adapter wraps an AppSpec with binding state: which parameters of the
// active subcommand are resolved versus still open. One adapter serves a
// single synthesis pass; concurrent passes each bind their own.
type Adapter struct {
	spec     AppSpec
	active   Subcommand
	bound    bool
	resolved map[string]string
}

// BindSpec creates an adapter with no active subcommand selected yet.
func BindSpec(spec AppSpec) *Adapter {
	return &Adapter{
		spec:     spec,
		resolved: make(map[string]string),
	}
}

// Spec returns the wrapped AppSpec.
func (a *Adapter) Spec() AppSpec { return a.spec }

// Use selects the active subcommand and clears any prior binding state.
func (a *Adapter) Use(subcommand string) error {
	sc, ok := a.spec.Subcommand(subcommand)
	if !ok {
		return fmt.Errorf("subcommand %q not declared by %s", subcommand, a.spec.Program)
	}
	a.active = sc
	a.bound = true
	a.resolved = make(map[string]string)
	return nil
}

// Active returns the selected subcommand name, or "" before Use.
func (a *Adapter) Active() string {
	if !a.bound {
		return ""
	}
	return a.active.Name
}

// Resolve fills one slot after validating the value against the declared
// kind. On failure the adapter is left untouched: completeness and every
// previously resolved slot survive unchanged.
func (a *Adapter) Resolve(name, value string) error {
	if !a.bound {
		return fmt.Errorf("no active subcommand selected for %s", a.spec.Program)
	}
	param, ok := a.active.Parameter(name)
	if !ok {
		return &UnknownParameterError{Parameter: name, Subcommand: a.active.Name}
	}
	normalized, err := checkKind(param, value)
	if err != nil {
		return err
	}
	a.resolved[name] = normalized
	return nil
}

// Resolved reports the bound value of a slot.
func (a *Adapter) Resolved(name string) (string, bool) {
	v, ok := a.resolved[name]
	return v, ok
}

// IsComplete is true iff every required parameter of the active subcommand
// has a resolved value.
func (a *Adapter) IsComplete() bool {
	if !a.bound {
		return false
	}
	return len(a.Missing()) == 0
}

// Missing lists required parameters that are still unresolved, in
// declaration order.
func (a *Adapter) Missing() []string {
	if !a.bound {
		return nil
	}
	var missing []string
	for _, p := range a.active.Parameters {
		if !p.Required {
			continue
		}
		if _, ok := a.resolved[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// Render produces the concrete command string. It fails with
// IncompleteBindingError while required slots are open.
func (a *Adapter) Render() (string, error) {
	if !a.bound {
		return "", fmt.Errorf("no active subcommand selected for %s", a.spec.Program)
	}
	if missing := a.Missing(); len(missing) > 0 {
		return "", &IncompleteBindingError{Missing: missing}
	}
	return a.render(a.resolved), nil
}

// RenderRepaired substitutes declared defaults (or kind placeholders) for
// unresolved required slots and renders best-effort. The returned names
// identify the repaired slots; callers flag the result degraded when the
// list is non-empty.
func (a *Adapter) RenderRepaired() (string, []string, error) {
	if !a.bound {
		return "", nil, fmt.Errorf("no active subcommand selected for %s", a.spec.Program)
	}
	values := make(map[string]string, len(a.resolved))
	for k, v := range a.resolved {
		values[k] = v
	}
	var repaired []string
	for _, name := range a.Missing() {
		param, _ := a.active.Parameter(name)
		values[name] = defaultValue(param)
		repaired = append(repaired, name)
	}
	return a.render(values), repaired, nil
}

func (a *Adapter) render(values map[string]string) string {
	if a.active.Template != "" {
		return a.renderTemplate(values)
	}

	parts := []string{a.spec.Program}
	if a.active.Name != "" && a.active.Name != a.spec.Program {
		parts = append(parts, a.active.Name)
	}

	// Flags first in declaration order, positionals after.
	var positionals []string
	for _, p := range a.active.Parameters {
		v, ok := values[p.Name]
		if !ok {
			continue
		}
		if p.Positional {
			positionals = append(positionals, quoteIfNeeded(v))
			continue
		}
		if p.Kind == KindBoolean {
			if v == "true" {
				parts = append(parts, flagName(p.Name))
			}
			continue
		}
		parts = append(parts, flagName(p.Name), quoteIfNeeded(v))
	}
	parts = append(parts, positionals...)
	return strings.Join(parts, " ")
}

func (a *Adapter) renderTemplate(values map[string]string) string {
	out := a.active.Template
	// Templates need syntactically complete statements: optional slots with
	// a declared default fall back to it instead of collapsing. Work on a
	// copy so the adapter's own state stays untouched.
	merged := make(map[string]string, len(values))
	for k, v := range values {
		merged[k] = v
	}
	for _, p := range a.active.Parameters {
		if _, ok := merged[p.Name]; !ok && !p.Required && p.Default != "" {
			merged[p.Name] = p.Default
		}
	}
	values = merged
	// Deterministic replacement order keeps rendering stable for tests.
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = strings.ReplaceAll(out, "{"+name+"}", values[name])
	}
	// Optional placeholders with no value collapse to nothing.
	for _, p := range a.active.Parameters {
		if _, ok := values[p.Name]; !ok {
			out = strings.ReplaceAll(out, "{"+p.Name+"}", "")
		}
	}
	return strings.Join(strings.Fields(out), " ")
}

func checkKind(param Parameter, value string) (string, error) {
	switch param.Kind {
	case KindString:
		return value, nil
	case KindInteger:
		if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
			return "", &TypeMismatchError{Parameter: param.Name, Kind: param.Kind, Value: value}
		}
		return strings.TrimSpace(value), nil
	case KindBoolean:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "yes", "1", "on":
			return "true", nil
		case "false", "no", "0", "off":
			return "false", nil
		}
		return "", &TypeMismatchError{Parameter: param.Name, Kind: param.Kind, Value: value}
	case KindEnum:
		for _, allowed := range param.Enum {
			if strings.EqualFold(value, allowed) {
				return allowed, nil
			}
		}
		return "", &TypeMismatchError{Parameter: param.Name, Kind: param.Kind, Value: value}
	default:
		return "", &TypeMismatchError{Parameter: param.Name, Kind: param.Kind, Value: value}
	}
}

func defaultValue(param Parameter) string {
	if param.Default != "" {
		return param.Default
	}
	switch param.Kind {
	case KindInteger:
		return "0"
	case KindBoolean:
		return "false"
	case KindEnum:
		if len(param.Enum) > 0 {
			return param.Enum[0]
		}
	}
	return "<" + param.Name + ">"
}

func flagName(name string) string {
	if strings.HasPrefix(name, "-") {
		return name
	}
	if len(name) == 1 {
		return "-" + name
	}
	return "--" + name
}

func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}
	if strings.ContainsAny(v, " \t\"'$&|;<>()*?") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}
