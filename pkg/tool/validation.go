package tool

import (
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/wilhg/filemcp/pkg/errmodel"
)

// compiled holds the santhosh-compiled form of each catalog input schema.
// Compilation happens once at init; the schemas are static, so a compile
// failure is a programming error and panics.
var compiled = func() map[Kind]*jsonschema.Schema {
	m := make(map[Kind]*jsonschema.Schema, len(catalog))
	for _, d := range catalog {
		sch, err := compileSchema(d.InputSchema)
		if err != nil {
			panic(fmt.Sprintf("tool: input schema for %s does not compile: %v", d.Name, err))
		}
		m[d.Kind] = sch
	}
	return m
}()

func compileSchema(schema any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("mem://schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("mem://schema.json")
}

// validateArgs checks args against the input schema of kind. Required-key
// absence is reported first with a stable message naming the key; every
// other schema violation carries the validator's own message.
func validateArgs(kind Kind, args map[string]any) error {
	d := descriptorFor(kind)
	for _, key := range d.InputSchema.Required {
		if _, ok := args[key]; !ok {
			return errmodel.InvalidArgs(
				fmt.Sprintf("missing required argument: %s", key),
				map[string]any{"tool": d.Name, "argument": key},
			)
		}
	}
	// Validate through the compiled schema as well so type mismatches
	// (e.g. a numeric path) are caught before any file operation runs.
	if err := compiled[kind].Validate(toInstance(args)); err != nil {
		return errmodel.InvalidArgs(
			fmt.Sprintf("invalid arguments for %s: %v", d.Name, err),
			map[string]any{"tool": d.Name},
		)
	}
	return nil
}

// toInstance round-trips args through JSON so the validator sees plain
// generic values regardless of how the transport decoded them.
func toInstance(args map[string]any) any {
	if args == nil {
		return map[string]any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return args
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return args
	}
	return v
}

// stringArg extracts a string argument that validateArgs has already vetted.
func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}
