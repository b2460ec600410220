package harness

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// validateSchema unifies a scenario YAML document with the embedded CUE
// schema. Returns nil when the document conforms.
func validateSchema(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Scenario"))
	if err := schema.Err(); err != nil {
		// The embedded schema is part of the binary; a compile failure is a
		// build defect, not a user error.
		return fmt.Errorf("internal: scenario schema failed to compile: %w", err)
	}

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema violation:\n%s", formatCUEErrors(err))
	}
	return nil
}

// formatCUEErrors renders every individual CUE error on its own line.
func formatCUEErrors(err error) string {
	var b strings.Builder
	for _, e := range cueerrors.Errors(err) {
		fmt.Fprintf(&b, "  - %s\n", e.Error())
	}
	return strings.TrimRight(b.String(), "\n")
}
