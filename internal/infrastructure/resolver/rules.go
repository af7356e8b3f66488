package resolver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/nlp2cmd/nlp2cmd/assets"
)

// IntentRule maps query phrases onto a subcommand plus parameter captures.
type IntentRule struct {
	Program     string        `yaml:"program,omitempty"`
	Subcommand  string        `yaml:"subcommand"`
	Match       string        `yaml:"match"`
	Confidence  float64       `yaml:"confidence,omitempty"`
	Explanation string        `yaml:"explanation,omitempty"`
	Captures    []CaptureRule `yaml:"captures,omitempty"`
}

// CaptureRule extracts one parameter value via a regex capture group.
type CaptureRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		Intents []IntentRule `yaml:"intents"`
	} `yaml:"rules"`
}

type compiledRule struct {
	rule     IntentRule
	match    *regexp.Regexp
	captures []compiledCapture
}

type compiledCapture struct {
	name    string
	pattern *regexp.Regexp
}

// loadRules reads intent rules from disk, falling back to the embedded
// defaults when the path is empty or the file does not exist.
func loadRules(path string) ([]compiledRule, error) {
	raw := assets.DefaultResolverRulesYAML
	if path != "" {
		data, err := os.ReadFile(expandPath(path))
		if err == nil {
			raw = data
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var file RulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	var compiled []compiledRule
	for _, rule := range file.Rules.Intents {
		re, err := regexp.Compile("(?i)" + rule.Match)
		if err != nil {
			return nil, err
		}
		cr := compiledRule{rule: rule, match: re}
		for _, capture := range rule.Captures {
			cre, err := regexp.Compile("(?i)" + capture.Pattern)
			if err != nil {
				return nil, err
			}
			cr.captures = append(cr.captures, compiledCapture{name: capture.Name, pattern: cre})
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

func expandPath(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
