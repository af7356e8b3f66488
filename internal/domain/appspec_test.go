package domain

import (
	"strings"
	"testing"
)

func sampleSpec() AppSpec {
	return AppSpec{
		Program: "git",
		DSL:     DSLShell,
		Subcommands: []Subcommand{
			{Name: "status"},
			{
				Name: "commit",
				Parameters: []Parameter{
					{Name: "message", Kind: KindString, Required: true},
					{Name: "amend", Kind: KindBoolean},
				},
			},
		},
	}
}

func TestValidateAcceptsWellFormedSpec(t *testing.T) {
	if err := sampleSpec().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsDuplicateSubcommand(t *testing.T) {
	spec := sampleSpec()
	spec.Subcommands = append(spec.Subcommands, Subcommand{Name: "status"})
	err := spec.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate subcommand") {
		t.Fatalf("expected duplicate subcommand error, got %v", err)
	}
}

func TestValidateRejectsDuplicateParameter(t *testing.T) {
	spec := sampleSpec()
	spec.Subcommands[1].Parameters = append(spec.Subcommands[1].Parameters,
		Parameter{Name: "message", Kind: KindString})
	err := spec.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate parameter") {
		t.Fatalf("expected duplicate parameter error, got %v", err)
	}
}

func TestValidateRejectsEmptyProgram(t *testing.T) {
	spec := sampleSpec()
	spec.Program = "  "
	if err := spec.Validate(); err == nil {
		t.Fatal("expected error for empty program name")
	}
}

func TestValidateRejectsEnumWithoutValues(t *testing.T) {
	spec := sampleSpec()
	spec.Subcommands[1].Parameters = append(spec.Subcommands[1].Parameters,
		Parameter{Name: "format", Kind: KindEnum})
	if err := spec.Validate(); err == nil {
		t.Fatal("expected error for enum parameter without values")
	}
}

func TestFingerprintIgnoresDeclarationOrder(t *testing.T) {
	a := sampleSpec()

	b := sampleSpec()
	b.Subcommands = []Subcommand{b.Subcommands[1], b.Subcommands[0]}
	b.Subcommands[0].Parameters = []Parameter{
		b.Subcommands[0].Parameters[1],
		b.Subcommands[0].Parameters[0],
	}

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("structurally identical specs must share a fingerprint")
	}
}

func TestFingerprintChangesWithParameterSet(t *testing.T) {
	a := sampleSpec()
	b := sampleSpec()
	b.Subcommands[1].Parameters[0].Required = false

	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("fingerprint must change when the parameter set changes")
	}
}

func TestCacheKeyIncludesFingerprint(t *testing.T) {
	spec := sampleSpec()
	key := spec.CacheKey()
	if !strings.HasPrefix(key, "git@") {
		t.Fatalf("CacheKey() = %q, want git@<fingerprint> form", key)
	}
}

func TestParseDSLKind(t *testing.T) {
	cases := map[string]DSLKind{
		"":     DSLShell,
		"sql":  DSLSQL,
		"k8s":  DSLKubernetes,
		"K8S":  DSLKubernetes,
		"bash": DSLShell,
	}
	for raw, want := range cases {
		if got := ParseDSLKind(raw); got != want {
			t.Errorf("ParseDSLKind(%q) = %s, want %s", raw, got, want)
		}
	}
}
