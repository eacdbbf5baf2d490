package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportArgs(t *testing.T) {
	cmd := newImportCmd()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.Error(t, cmd.Args(cmd, []string{"a.xlsx", "b.xlsx"}))
	assert.NoError(t, cmd.Args(cmd, []string{"a.xlsx"}))
}

func TestImportFlagDefaults(t *testing.T) {
	cmd := newImportCmd()
	for flag, want := range map[string]string{
		"date-col":  "A",
		"title-col": "B",
		"done-col":  "C",
		"start-row": "2",
	} {
		f := cmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, want, f.DefValue, flag)
	}
}

func TestExportFlags(t *testing.T) {
	cmd := newExportCmd()
	f := cmd.Flags().Lookup("days")
	require.NotNil(t, f)
	assert.Equal(t, "365", f.DefValue)
}
