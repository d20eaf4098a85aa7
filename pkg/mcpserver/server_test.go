package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhg/filemcp/pkg/tool"
)

func connect(t *testing.T, fsys afero.Fs) *mcp.ClientSession {
	t.Helper()
	ctx := t.Context()

	s := New(tool.NewDispatcher(fsys), "test")
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := s.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func callText(t *testing.T, cs *mcp.ClientSession, name, args string) string {
	t.Helper()
	res, err := cs.CallTool(t.Context(), &mcp.CallToolParams{
		Name:      name,
		Arguments: json.RawMessage(args),
	})
	require.NoError(t, err)
	// Failure is carried in the text itself, never in IsError.
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content type %T", res.Content[0])
	return text.Text
}

func TestListToolsAdvertisesCatalog(t *testing.T) {
	cs := connect(t, afero.NewMemMapFs())

	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tl := range res.Tools {
		names = append(names, tl.Name)
	}
	assert.ElementsMatch(t, []string{
		"read_file",
		"write_file",
		"list_directory",
		"create_directory",
		"delete_file",
		"file_info",
	}, names)

	for _, tl := range res.Tools {
		assert.NotEmpty(t, tl.Description, "tool %s", tl.Name)
		assert.NotNil(t, tl.InputSchema, "tool %s", tl.Name)
	}
}

func TestCallToolRoundTrip(t *testing.T) {
	cs := connect(t, afero.NewMemMapFs())

	got := callText(t, cs, "write_file", `{"path":"/w/x.txt","content":"over the wire"}`)
	assert.Equal(t, "Successfully wrote to /w/x.txt", got)

	got = callText(t, cs, "read_file", `{"path":"/w/x.txt"}`)
	assert.Equal(t, "over the wire", got)
}

func TestCallToolErrorsAreText(t *testing.T) {
	cs := connect(t, afero.NewMemMapFs())

	got := callText(t, cs, "read_file", `{"path":"/absent.txt"}`)
	assert.Equal(t, "Error: File not found: /absent.txt", got)

	got = callText(t, cs, "delete_file", `{"path":"/absent.txt"}`)
	assert.Equal(t, "Error: File not found: /absent.txt", got)
}

func TestCallToolEmptyDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/hollow", 0o755))
	cs := connect(t, fsys)

	got := callText(t, cs, "list_directory", `{"path":"/hollow"}`)
	assert.Equal(t, "(empty directory)", got)
}
