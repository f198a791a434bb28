package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/app"
	"schemagraph/internal/tasks"
)

func sharedApp(t *testing.T) Builder {
	t.Helper()
	a, err := app.Build(context.Background(), app.Config{SiteName: "Acme", SiteURL: "https://acme.example"}, log.New(io.Discard))
	require.NoError(t, err)
	return func(context.Context, *log.Logger) (*app.App, error) { return a, nil }
}

func execute(build Builder, args ...string) (string, error) {
	root := NewRootCmd(build)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTypes(t *testing.T) {
	out, err := execute(sharedApp(t), "types")
	require.NoError(t, err)
	assert.Contains(t, out, "Product\n")
	assert.Contains(t, out, "FAQPage\n")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		contains []string
	}{
		{
			name:     "valid object",
			content:  `{"@context":"https://schema.org","@type":"Person","name":"Kim"}`,
			contains: []string{"ok    #0 Person"},
		},
		{
			name:    "mixed array",
			content: `[{"@context":"https://schema.org","@type":"Person","name":"Kim"},{"@context":"https://schema.org","@type":"Product"}]`,
			wantErr: true,
			contains: []string{
				"ok    #0 Person",
				"FAIL  #1 Product",
				"name:",
			},
		},
		{
			name:    "not json",
			content: `nope`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(sharedApp(t), "validate", writeFile(t, "docs.json", tt.content))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestAddExportImport(t *testing.T) {
	build := sharedApp(t)

	out, err := execute(build, "add", "--page", "5", "--type", "Person", "--input", writeFile(t, "person.yaml", "name: Kim\njob_title: Engineer\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "added Person at index 0")

	exported := filepath.Join(t.TempDir(), "export.json")
	_, err = execute(build, "export", "--page", "5", "-o", exported)
	require.NoError(t, err)
	raw, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name": "Kim"`)
	assert.Contains(t, string(raw), `"_enabled": true`)

	out, err = execute(build, "import", "--page", "6", exported)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 schemas into page 6\n", out)

	out, err = execute(build, "export", "--page", "7")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = execute(build, "export")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	build := sharedApp(t)

	_, err := execute(build, "settings", "set", "general", writeFile(t, "general.yaml", "org_name: Acme Inc\norg_type: LocalBusiness\n"), "--merge")
	require.NoError(t, err)

	out, err := execute(build, "settings", "get", "general")
	require.NoError(t, err)
	assert.Contains(t, out, "org_name: Acme Inc\n")
	assert.Contains(t, out, "org_type: LocalBusiness\n")
	assert.Contains(t, out, "breadcrumb_home: Home\n")

	_, err = execute(build, "settings", "get", "nope")
	assert.Error(t, err)
}

func TestTasks(t *testing.T) {
	build := sharedApp(t)

	out, err := execute(build, "tasks", "list")
	require.NoError(t, err)
	assert.Equal(t, tasks.RefreshMenuLocationsTask+"\n"+tasks.ValidatePageSchemasTask+"\n", out)

	out, err = execute(build, "tasks", "run", tasks.ValidatePageSchemasTask)
	require.NoError(t, err)
	assert.Contains(t, out, "invalid: 0")

	_, err = execute(build, "tasks", "run", "nope")
	assert.Error(t, err)
}
