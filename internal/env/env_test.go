package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reality-portal/internal/engineconfig"
)

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "# comment\n\nPORTAL_TEST_A=one\nPORTAL_TEST_B = \"two words\"\nnot a pair\n=x\nPORTAL_TEST_C='a=b'\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	unset(t, "PORTAL_TEST_A", "PORTAL_TEST_B", "PORTAL_TEST_C")

	keys, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"PORTAL_TEST_A", "PORTAL_TEST_B", "PORTAL_TEST_C"}, keys)
	assert.Equal(t, "one", os.Getenv("PORTAL_TEST_A"))
	assert.Equal(t, "two words", os.Getenv("PORTAL_TEST_B"))
	assert.Equal(t, "a=b", os.Getenv("PORTAL_TEST_C"))
}

func TestLoadKeepsProcessVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := KeyStereo + "=true\n" + KeyIPD + "=0.07\nPORTAL_TEST_D=x\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	unset(t, KeyIPD, "PORTAL_TEST_D")
	t.Setenv(KeyStereo, "false")

	keys, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyIPD, "PORTAL_TEST_D"}, keys)
	assert.Equal(t, "false", os.Getenv(KeyStereo))
	assert.Equal(t, []string{KeyIPD}, Overrides(keys))
}

func TestLoadMissingFile(t *testing.T) {
	keys, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func lookup(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestApplyOverrides(t *testing.T) {
	p, err := ApplyFrom(engineconfig.Default(), lookup(map[string]string{
		KeyLayout: "assets/layouts/lab.yaml",
		KeyStereo: "true",
		KeyIPD:    "0.07",
	}))
	require.NoError(t, err)
	assert.Equal(t, "assets/layouts/lab.yaml", p.LayoutPath)
	assert.True(t, p.Stereo)
	assert.InDelta(t, 0.07, p.IPD, 1e-6)
}

func TestApplyKeepsPrefsWithoutVariables(t *testing.T) {
	p, err := ApplyFrom(engineconfig.Default(), lookup(nil))
	require.NoError(t, err)
	assert.Equal(t, engineconfig.Default(), p)
}

func TestApplyReportsBadValues(t *testing.T) {
	p, err := ApplyFrom(engineconfig.Default(), lookup(map[string]string{
		KeyStereo: "maybe",
		KeyIPD:    "-2",
		KeyLayout: "x.yaml",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyStereo)
	assert.Contains(t, err.Error(), KeyIPD)
	assert.False(t, p.Stereo)
	assert.Equal(t, float32(0.064), p.IPD)
	assert.Equal(t, "x.yaml", p.LayoutPath)
}
