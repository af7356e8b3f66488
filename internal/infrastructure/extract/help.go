package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

// flagLine matches help lines such as:
//
//	-m, --message <string>   commit message (required)
//	--amend                  amend the previous commit
//	--format <json|yaml>     output format (default: json)
var flagLine = regexp.MustCompile(`^\s+(-{1,2}[\w][\w-]*)(?:,\s*(-{1,2}[\w][\w-]*))?(?:[ =]<([^>]+)>)?\s*(.*)$`)

// subcommandLine matches entries under a Commands:/Subcommands: header.
var subcommandLine = regexp.MustCompile(`^\s+([a-z][\w-]*)(?:\s{2,}(.+))?$`)

// FromHelp parses structured help output into an AppSpec. The expected
// shape mirrors conventional --help text:
//
//	Commands:
//	  status     show the working tree status
//	  commit     record changes to the repository
//
//	commit options:
//	  -m, --message <string>   commit message (required)
//	  --amend                  amend the previous commit
//
// A plain "Options:" header attaches its flags to every declared
// subcommand, or to an implicit subcommand named after the program when
// none are declared. Malformed input yields ExtractionFailed; partially
// parsed specs are never returned.
func (e *Extractor) FromHelp(program string, dsl domain.DSLKind, helpText string) (domain.AppSpec, error) {
	if strings.TrimSpace(program) == "" {
		return domain.AppSpec{}, &domain.ExtractionError{Detail: "program identifier is empty"}
	}
	if strings.TrimSpace(helpText) == "" {
		return domain.AppSpec{}, &domain.ExtractionError{Program: program, Detail: "help text is empty"}
	}

	var (
		subs    []domain.Subcommand
		global  []domain.Parameter
		scoped  = map[string][]domain.Parameter{}
		section = sectionNone
		scope   string
		hints   []string
	)

	for lineNo, line := range strings.Split(helpText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if header, target, ok := parseHeader(trimmed); ok {
			section = header
			scope = target
			continue
		}

		switch section {
		case sectionCommands:
			m := subcommandLine.FindStringSubmatch(line)
			if m == nil {
				return domain.AppSpec{}, &domain.ExtractionError{
					Program: program,
					Detail:  fmt.Sprintf("line %d: malformed subcommand entry %q", lineNo+1, trimmed),
				}
			}
			subs = append(subs, domain.Subcommand{Name: m[1], Usage: strings.TrimSpace(m[2])})
		case sectionOptions:
			param, err := parseFlagLine(line)
			if err != nil {
				return domain.AppSpec{}, &domain.ExtractionError{
					Program: program,
					Detail:  fmt.Sprintf("line %d: %v", lineNo+1, err),
				}
			}
			if scope == "" {
				global = append(global, param)
			} else {
				scoped[scope] = append(scoped[scope], param)
			}
		default:
			// Free text before any section becomes a usage hint.
			hints = append(hints, trimmed)
		}
	}

	if len(subs) == 0 {
		if len(global) == 0 && len(scoped) == 0 {
			return domain.AppSpec{}, &domain.ExtractionError{Program: program, Detail: "no subcommands or options found"}
		}
		subs = []domain.Subcommand{{Name: program}}
	}

	for i := range subs {
		subs[i].Parameters = append(subs[i].Parameters, global...)
		if params, ok := scoped[subs[i].Name]; ok {
			subs[i].Parameters = append(subs[i].Parameters, params...)
			delete(scoped, subs[i].Name)
		}
	}
	for name := range scoped {
		return domain.AppSpec{}, &domain.ExtractionError{
			Program: program,
			Detail:  fmt.Sprintf("options declared for unknown subcommand %q", name),
		}
	}

	spec := domain.AppSpec{
		Program:     program,
		DSL:         dsl,
		Subcommands: subs,
		Hints:       hints,
	}
	if err := spec.Validate(); err != nil {
		return domain.AppSpec{}, &domain.ExtractionError{Program: program, Detail: err.Error()}
	}
	return spec, nil
}

type section int

const (
	sectionNone section = iota
	sectionCommands
	sectionOptions
)

// parseHeader recognizes "Commands:", "Subcommands:", "Options:",
// "<name> options:" and "Options for <name>:" headers.
func parseHeader(line string) (section, string, bool) {
	lower := strings.ToLower(line)
	if !strings.HasSuffix(lower, ":") {
		return sectionNone, "", false
	}
	lower = strings.TrimSuffix(lower, ":")
	switch lower {
	case "commands", "subcommands":
		return sectionCommands, "", true
	case "options", "flags":
		return sectionOptions, "", true
	}
	if rest, ok := strings.CutPrefix(lower, "options for "); ok {
		return sectionOptions, strings.TrimSpace(rest), true
	}
	if target, ok := strings.CutSuffix(lower, " options"); ok {
		return sectionOptions, strings.TrimSpace(target), true
	}
	return sectionNone, "", false
}

func parseFlagLine(line string) (domain.Parameter, error) {
	m := flagLine.FindStringSubmatch(line)
	if m == nil {
		return domain.Parameter{}, fmt.Errorf("malformed flag entry %q", strings.TrimSpace(line))
	}

	// Prefer the long form for the parameter name.
	name := strings.TrimLeft(m[1], "-")
	if m[2] != "" && len(m[2]) > len(m[1]) {
		name = strings.TrimLeft(m[2], "-")
	}

	param := domain.Parameter{Name: name, Kind: domain.KindBoolean}
	if m[3] != "" {
		param.Kind, param.Enum = kindFromPlaceholder(m[3])
	}

	desc := strings.TrimSpace(m[4])
	if strings.Contains(strings.ToLower(desc), "(required)") {
		param.Required = true
		desc = stripAnnotation(desc, "(required)")
	}
	if def, rest, ok := extractDefault(desc); ok {
		param.Default = def
		desc = rest
	}
	param.Description = strings.TrimSpace(desc)
	return param, nil
}

func kindFromPlaceholder(placeholder string) (domain.ParamKind, []string) {
	if strings.Contains(placeholder, "|") {
		return domain.KindEnum, strings.Split(placeholder, "|")
	}
	switch strings.ToLower(placeholder) {
	case "int", "integer", "number", "n":
		return domain.KindInteger, nil
	case "bool", "boolean":
		return domain.KindBoolean, nil
	default:
		return domain.KindString, nil
	}
}

var defaultAnnotation = regexp.MustCompile(`\(default:?\s*([^)]*)\)`)

func extractDefault(desc string) (string, string, bool) {
	m := defaultAnnotation.FindStringSubmatch(desc)
	if m == nil {
		return "", desc, false
	}
	rest := strings.TrimSpace(strings.Replace(desc, m[0], "", 1))
	return strings.TrimSpace(m[1]), rest, true
}

func stripAnnotation(desc, annotation string) string {
	idx := strings.Index(strings.ToLower(desc), annotation)
	if idx < 0 {
		return desc
	}
	return strings.TrimSpace(desc[:idx] + desc[idx+len(annotation):])
}
