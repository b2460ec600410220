package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted toolkit session.
// Steps run in order against a fresh in-memory journal; each step can assert
// on the operation's result.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SessionToken is an optional fixed session token for deterministic
	// traces. Defaults to "test-session-default".
	SessionToken string `yaml:"session_token,omitempty"`

	// Steps contains the operations to execute, in order.
	Steps []Step `yaml:"steps"`
}

// Step is a single toolkit invocation with optional expectations.
type Step struct {
	// Op is the operation name (length, concat, substring, insert,
	// delete_range, find, replace).
	Op string `yaml:"op"`

	// Args contains the operation arguments. Strings for string arguments,
	// integers for positions and counts.
	Args map[string]any `yaml:"args"`

	// Expect specifies the expected result. If nil, the step only has to
	// execute (any outcome is accepted).
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect asserts on a step's result. All fields are optional; only the
// fields present are validated.
type Expect struct {
	// Output is the expected produced string.
	Output *string `yaml:"output,omitempty"`

	// Length is the expected length result.
	Length *int `yaml:"length,omitempty"`

	// Offset is the expected find offset.
	Offset *int `yaml:"offset,omitempty"`

	// Found is the expected find outcome.
	Found *bool `yaml:"found,omitempty"`

	// Replaced reports whether replace must have substituted.
	Replaced *bool `yaml:"replaced,omitempty"`

	// Outcome is the expected record outcome: "ok", "not_found" or "error".
	Outcome string `yaml:"outcome,omitempty"`

	// Error is the expected toolkit error code when Outcome is "error":
	// "INVALID_ARGUMENT" or "OUT_OF_RANGE".
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads, schema-validates, and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or violates the scenario schema.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario validates and parses scenario YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	// Schema validation first: it reports unknown ops and wrongly typed
	// arguments better than a decode error would.
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Strict decode catches fields the schema tolerates but the struct
	// doesn't know (typos like "step:" vs "steps:" surface here too).
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.SessionToken == "" {
		scenario.SessionToken = "test-session-default"
	}

	return &scenario, nil
}
