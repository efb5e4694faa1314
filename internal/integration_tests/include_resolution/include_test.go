package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dwoggurd/Ptree-Loader/internal/config"
	"github.com/Dwoggurd/Ptree-Loader/internal/diag"
	"github.com/Dwoggurd/Ptree-Loader/internal/hcl_adapter"
	"github.com/Dwoggurd/Ptree-Loader/internal/include"
	"github.com/Dwoggurd/Ptree-Loader/internal/json_adapter"
	"github.com/Dwoggurd/Ptree-Loader/internal/testutil"
	"github.com/Dwoggurd/Ptree-Loader/internal/xml_adapter"
	"github.com/Dwoggurd/Ptree-Loader/internal/yaml_adapter"
)

func canon(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

// TestYAML_NestedIncludeChain runs a three-file chain through the real YAML
// adapter and checks both the diagnostic trace and the merged dump.
func TestYAML_NestedIncludeChain(t *testing.T) {
	t.Parallel()

	dir := canon(t, testutil.WriteTree(t, map[string]string{
		"root.yaml":           "app: demo\nIncludeFile: network/net.yaml\nrest: tail\n",
		"network/net.yaml":    "proto: tcp\nIncludeFile: limits.yaml\n",
		"network/limits.yaml": "rate: \"100\"\n",
	}))

	root := &config.Node{}
	ldr := include.New(root, yaml_adapter.New())
	ldr.Load(context.Background(), filepath.Join(dir, "root.yaml"))

	wantReport := diag.Delimiter + "\n" +
		"Loading: " + filepath.Join(dir, "root.yaml") + "\n" +
		"Loading: " + filepath.Join(dir, "network", "net.yaml") + "\n" +
		"Loading: " + filepath.Join(dir, "network", "limits.yaml") + "\n" +
		diag.Delimiter + "\n"
	require.Equal(t, wantReport, ldr.Report())

	dump, err := ldr.DumpTree()
	require.NoError(t, err)
	wantDump := diag.Delimiter + "\n" +
		"app: demo\n" +
		"IncludeFile: network/net.yaml\n" +
		"proto: tcp\n" +
		"IncludeFile: limits.yaml\n" +
		"rate: \"100\"\n" +
		"rest: tail\n" +
		diag.Delimiter + "\n"
	require.Equal(t, wantDump, dump)
}

// TestHCL_IncludeMergesBlocksInPlace verifies that blocks pulled in by an
// include land at the directive's position between the including file's own
// blocks.
func TestHCL_IncludeMergesBlocksInPlace(t *testing.T) {
	t.Parallel()

	dir := canon(t, testutil.WriteTree(t, map[string]string{
		"root.hcl":  "service \"a\" {\n  order = \"1\"\n}\n\nIncludeFile = \"extra.hcl\"\n\nservice \"c\" {\n  order = \"3\"\n}\n",
		"extra.hcl": "service \"b\" {\n  order = \"2\"\n}\n",
	}))

	root := &config.Node{}
	ldr := include.New(root, hcl_adapter.New())
	ldr.Load(context.Background(), filepath.Join(dir, "root.hcl"))

	var keys []string
	var labels []string
	for _, c := range root.Children {
		keys = append(keys, c.Key)
		if c.Key == "service" {
			labels = append(labels, c.Node.Children[0].Key)
		}
	}
	require.Equal(t, []string{"service", include.IncludeKey, "service", "service"}, keys)
	require.Equal(t, []string{"a", "b", "c"}, labels)

	dump, err := ldr.DumpTree()
	require.NoError(t, err)
	require.Contains(t, dump, "service {")
	require.Contains(t, dump, "IncludeFile = \"extra.hcl\"")
	require.Contains(t, dump, "order = \"2\"")
}

// TestJSON_DuplicateIncludesKeepDuplicateKeys loads the same fragment twice
// and expects the merged tree to carry both copies.
func TestJSON_DuplicateIncludesKeepDuplicateKeys(t *testing.T) {
	t.Parallel()

	dir := canon(t, testutil.WriteTree(t, map[string]string{
		"root.json": `{
  // The same fragment on purpose, twice.
  "IncludeFile": "part.jsonc",
  "IncludeFile": "part.jsonc",
}`,
		"part.jsonc": `{"entry": "repeated"}`,
	}))

	root := &config.Node{}
	ldr := include.New(root, json_adapter.New())
	ldr.Load(context.Background(), filepath.Join(dir, "root.json"))

	require.Equal(t, 4, root.Len())
	var keys []string
	for _, c := range root.Children {
		keys = append(keys, c.Key)
	}
	require.Equal(t, []string{include.IncludeKey, "entry", include.IncludeKey, "entry"}, keys)

	dump, err := ldr.DumpTree()
	require.NoError(t, err)
	wantDump := diag.Delimiter + "\n" +
		"{\n" +
		"    \"IncludeFile\": \"part.jsonc\",\n" +
		"    \"entry\": \"repeated\",\n" +
		"    \"IncludeFile\": \"part.jsonc\",\n" +
		"    \"entry\": \"repeated\"\n" +
		"}\n" +
		diag.Delimiter + "\n"
	require.Equal(t, wantDump, dump)
}

// TestXML_IncludeDirectiveElement drives includes through element syntax,
// where the directive is a child element of the document root.
func TestXML_IncludeDirectiveElement(t *testing.T) {
	t.Parallel()

	dir := canon(t, testutil.WriteTree(t, map[string]string{
		"root.xml":  "<config>\n  <name>demo</name>\n  <IncludeFile>extra.xml</IncludeFile>\n</config>\n",
		"extra.xml": "<fragment>\n  <added>yes</added>\n</fragment>\n",
	}))

	root := &config.Node{}
	ldr := include.New(root, xml_adapter.New())
	ldr.Load(context.Background(), filepath.Join(dir, "root.xml"))

	require.Equal(t, "demo", root.Get("name").Value)
	require.Equal(t, "extra.xml", root.Get(include.IncludeKey).Value)
	require.Equal(t, "yes", root.Get("added").Value)

	dump, err := ldr.DumpTree()
	require.NoError(t, err)
	require.Contains(t, dump, "<IncludeFile>extra.xml</IncludeFile>")
	require.Contains(t, dump, "<added>yes</added>")
}

// TestHCL_DirectiveThenBlock pins the canonical merge order: the directive
// entry itself, the included file's content, then the block that followed
// the directive.
func TestHCL_DirectiveThenBlock(t *testing.T) {
	t.Parallel()

	dir := canon(t, testutil.WriteTree(t, map[string]string{
		"a.hcl": "IncludeFile = \"b.hcl\"\n\nX {\n  y = \"1\"\n}\n",
		"b.hcl": "z = \"2\"\n",
	}))

	root := &config.Node{}
	ldr := include.New(root, hcl_adapter.New())
	ldr.Load(context.Background(), filepath.Join(dir, "a.hcl"))

	require.Equal(t, 3, root.Len())
	require.Equal(t, include.IncludeKey, root.Children[0].Key)
	require.Equal(t, "b.hcl", root.Children[0].Node.Value)
	require.Equal(t, "z", root.Children[1].Key)
	require.Equal(t, "2", root.Children[1].Node.Value)
	require.Equal(t, "X", root.Children[2].Key)
	require.Equal(t, "1", root.Children[2].Node.Get("y").Value)

	wantReport := diag.Delimiter + "\n" +
		"Loading: " + filepath.Join(dir, "a.hcl") + "\n" +
		"Loading: " + filepath.Join(dir, "b.hcl") + "\n" +
		diag.Delimiter + "\n"
	require.Equal(t, wantReport, ldr.Report())
}

// TestIncludedFilesUseTheBoundAdapter loads a JSON fragment from a YAML
// root. The loader is bound to one adapter, so the fragment is parsed as
// YAML, which JSON happens to be a subset of.
func TestIncludedFilesUseTheBoundAdapter(t *testing.T) {
	t.Parallel()

	dir := canon(t, testutil.WriteTree(t, map[string]string{
		"root.yaml": "IncludeFile: data.json\n",
		"data.json": "{\"from\": \"json\"}\n",
	}))

	root := &config.Node{}
	ldr := include.New(root, yaml_adapter.New())
	ldr.Load(context.Background(), filepath.Join(dir, "root.yaml"))

	require.Equal(t, "json", root.Get("from").Value)
}

// TestMissingAndBrokenIncludesDoNotStopTheLoad mixes a missing file and an
// unparsable file between two good includes.
func TestMissingAndBrokenIncludesDoNotStopTheLoad(t *testing.T) {
	t.Parallel()

	dir := canon(t, testutil.WriteTree(t, map[string]string{
		"root.yaml":   "IncludeFile: good1.yaml\nIncludeFile: missing.yaml\nIncludeFile: broken.yaml\nIncludeFile: good2.yaml\n",
		"good1.yaml":  "first: ok\n",
		"broken.yaml": "key: [unclosed\n",
		"good2.yaml":  "last: ok\n",
	}))

	root := &config.Node{}
	ldr := include.New(root, yaml_adapter.New())
	ldr.Load(context.Background(), filepath.Join(dir, "root.yaml"))

	require.Equal(t, "ok", root.Get("first").Value)
	require.Equal(t, "ok", root.Get("last").Value)
	require.Contains(t, ldr.Report(), "Path not found: "+filepath.Join(dir, "missing.yaml"))
	require.Contains(t, ldr.Report(), "Error: parse "+filepath.Join(dir, "broken.yaml"))
}
