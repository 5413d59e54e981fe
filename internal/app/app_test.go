package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataplan/internal/config"
	"dataplan/internal/declare"
	"dataplan/internal/mapping"
	"dataplan/internal/plan"
)

const orgYAML = `
objects:
  - name: Account
    fields:
      - name: Name
        createable: true
      - name: Primary_Contact__c
        createable: true
        nillable: true
        custom: true
        reference_to: [Contact]
  - name: Contact
    fields:
      - name: LastName
        createable: true
      - name: AccountId
        createable: true
        reference_to: [Account]
  - name: Cycle_A__c
    custom: true
    fields:
      - name: B__c
        createable: true
        custom: true
        reference_to: [Cycle_B__c]
  - name: Cycle_B__c
    custom: true
    fields:
      - name: A__c
        createable: true
        custom: true
        reference_to: [Cycle_A__c]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func newTestApp(t *testing.T, decls string, in string, mutate func(*Options)) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()

	opts := Options{
		SchemaPath:       writeFile(t, dir, "org.yml", orgYAML),
		DeclarationsPath: writeFile(t, dir, "extract.yml", decls),
		CyclePolicy:      config.CyclePolicyAutomatic,
		Strict:           true,
		LogLevel:         "debug",
	}

	if mutate != nil {
		mutate(&opts)
	}

	var out, errOut bytes.Buffer

	return New(&out, &errOut, strings.NewReader(in), opts), &out, &errOut
}

func TestPlan_WritesArtifact(t *testing.T) {
	a, out, logs := newTestApp(t, "extract:\n  Contact:\n  Account: [Name, Primary_Contact__c]\n", "", nil)

	artifact, err := a.Plan(context.Background())
	require.NoError(t, err)

	want := []string{"Insert Account", "Insert Contact", "Update Account.Primary_Contact__c"}
	assert.Equal(t, want, artifact.Names())

	back, err := mapping.Parse(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want, back.Names())

	assert.Contains(t, logs.String(), "Mapping planned.")
	assert.Contains(t, logs.String(), "Declarations loaded.")
}

func TestPlan_InteractiveCycleBreak(t *testing.T) {
	a, _, logs := newTestApp(t, "extract:\n  OBJECTS(CUSTOM):\n", "Cycle_B__c\n", func(o *Options) {
		o.CyclePolicy = config.CyclePolicyInteractive
	})

	artifact, err := a.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Insert Cycle_B__c", "Insert Cycle_A__c", "Update Cycle_B__c.A__c"}, artifact.Names())
	assert.Contains(t, logs.String(), "1) Cycle_A__c")
}

func TestPlan_InteractiveWithoutAnswerFails(t *testing.T) {
	a, out, _ := newTestApp(t, "extract:\n  OBJECTS(CUSTOM):\n", "", func(o *Options) {
		o.CyclePolicy = config.CyclePolicyInteractive
	})

	_, err := a.Plan(context.Background())

	var cycleErr *plan.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"Cycle_A__c", "Cycle_B__c"}, cycleErr.Remaining)
	assert.Empty(t, out.String())
}

func TestPlan_ConfigurationErrorWritesNothing(t *testing.T) {
	a, out, logs := newTestApp(t, "extract:\n  Contact: [LastNmae]\n", "", nil)

	_, err := a.Plan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field_not_found")
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "LastName")
}

func TestPlan_ExcludedObjectsFromOptions(t *testing.T) {
	a, _, _ := newTestApp(t, "extract:\n  Contact:\n", "", func(o *Options) {
		o.ExcludeObjects = []string{"Account"}
		o.OutPath = filepath.Join(t.TempDir(), "mapping.yml")
	})

	artifact, err := a.Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Insert Contact"}, artifact.Names())

	back, err := mapping.LoadFile(a.opts.OutPath)
	require.NoError(t, err)
	assert.Equal(t, artifact.Names(), back.Names())
}

func TestPlan_NoSchema(t *testing.T) {
	a, _, _ := newTestApp(t, "extract:\n  Contact:\n", "", func(o *Options) {
		o.SchemaPath = ""
	})

	_, err := a.Plan(context.Background())
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestExpand_WritesLiteralDeclarations(t *testing.T) {
	a, out, _ := newTestApp(t, "extract:\n  OBJECTS(STANDARD):\n    fields: FIELDS(REQUIRED)\n", "", nil)

	require.NoError(t, a.Expand(context.Background()))

	f, err := declare.Parse(out.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Declarations, 2)

	assert.Equal(t, "Account", f.Declarations[0].Key())
	assert.Equal(t, []string{"Name"}, f.Declarations[0].FieldStrings())
	assert.Equal(t, "Contact", f.Declarations[1].Key())
	assert.Equal(t, []string{"AccountId", "LastName"}, f.Declarations[1].FieldStrings())
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Log:    config.LogConfig{Level: "warn", Format: "json"},
		Plan:   config.PlanConfig{CyclePolicy: config.CyclePolicyInteractive, Anchors: []string{"Lead"}, Strict: true},
		Schema: config.SchemaConfig{DSN: "root@tcp(localhost:3306)/schema"},
	}

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.Equal(t, []string{"Lead"}, opts.Anchors)
	assert.Equal(t, "root@tcp(localhost:3306)/schema", opts.SchemaDSN)
	assert.True(t, opts.Strict)
}

func TestOpenSQLCatalog_InvalidDSN(t *testing.T) {
	_, err := openSQLCatalog(context.Background(), "not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema DSN")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
