package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutableDir(t *testing.T) {

	dir, err := ExecutableDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveKeepsAbsolutePaths(t *testing.T) {

	abs := filepath.Join(t.TempDir(), "shaders")
	assert.Equal(t, abs, Resolve(abs))
}

func TestResolvePrefersWorkingDirectoryFallback(t *testing.T) {

	// The relative name exists in the working directory but not next to the
	// test binary, so Resolve falls back to the working-directory path.
	f, err := os.CreateTemp(".", "resolve-*.probe")
	require.NoError(t, err)
	name := filepath.Base(f.Name())
	f.Close()
	defer os.Remove(name)

	assert.Equal(t, name, Resolve(name))
}

func TestResolveJoinsExecutableDir(t *testing.T) {

	dir, err := ExecutableDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "no-such-asset"), Resolve("no-such-asset"))
}
