// Package tool defines the fixed catalog of file tools and the dispatcher
// that executes them.
//
// The catalog is a closed set built at init: six operations, each described
// by a Kind, a name, and a JSON input schema. Dispatch resolves a tool name
// to its Kind, validates the argument map, runs the operation, and always
// produces a textual result. Failures never cross the dispatch boundary as
// errors; they are rendered as "Error: ..." text blocks so the transport
// layer needs no success/failure branch.
package tool

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Kind identifies one of the supported file operations.
type Kind int

const (
	KindReadFile Kind = iota
	KindWriteFile
	KindListDirectory
	KindCreateDirectory
	KindDeleteFile
	KindFileInfo
)

// Descriptor declares the public interface of a tool: its wire name,
// human description, and the JSON schema of its argument object.
// Descriptors are immutable after init.
type Descriptor struct {
	Kind        Kind               `json:"-"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

func pathSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"path": {Type: "string", Description: desc},
		},
		Required: []string{"path"},
	}
}

// catalog holds the six descriptors in their advertised order. The order is
// stable so discovery listings are deterministic; it carries no execution
// meaning.
var catalog = []Descriptor{
	{
		Kind:        KindReadFile,
		Name:        "read_file",
		Description: "Read the contents of a file",
		InputSchema: pathSchema("Path to the file to read"),
	},
	{
		Kind:        KindWriteFile,
		Name:        "write_file",
		Description: "Write content to a file",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":    {Type: "string", Description: "Path to the file to write"},
				"content": {Type: "string", Description: "Content to write to the file"},
			},
			Required: []string{"path", "content"},
		},
	},
	{
		Kind:        KindListDirectory,
		Name:        "list_directory",
		Description: "List files and directories in a path",
		InputSchema: pathSchema("Path to the directory to list"),
	},
	{
		Kind:        KindCreateDirectory,
		Name:        "create_directory",
		Description: "Create a new directory",
		InputSchema: pathSchema("Path of the directory to create"),
	},
	{
		Kind:        KindDeleteFile,
		Name:        "delete_file",
		Description: "Delete a file",
		InputSchema: pathSchema("Path to the file to delete"),
	},
	{
		Kind:        KindFileInfo,
		Name:        "file_info",
		Description: "Get information about a file or directory (size reported for a directory is its own entry, not recursive content)",
		InputSchema: pathSchema("Path to get info about"),
	},
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(catalog))
	for _, d := range catalog {
		m[d.Name] = d.Kind
	}
	return m
}()

// Catalog returns the descriptors of all supported tools in their fixed
// advertised order. The returned slice is a copy; mutating it does not
// affect the catalog.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// KindForName resolves a wire tool name to its operation Kind.
func KindForName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// descriptorFor returns the catalog entry for a Kind.
func descriptorFor(k Kind) Descriptor {
	for _, d := range catalog {
		if d.Kind == k {
			return d
		}
	}
	// Kinds are a closed set; a miss here is a programming error.
	panic("tool: unknown kind")
}
