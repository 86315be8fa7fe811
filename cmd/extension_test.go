package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installExtension writes a shell script extension in a temporary directory
// added to PATH.
func installExtension(t *testing.T, name, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script extensions need a unix shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "rebal-"+name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRunExtension(t *testing.T) {
	setup(t)
	*currency = "XYZ"
	installExtension(t, "hello", `echo "$`+EnvCurrency+` $`+EnvPortfolioFile+` $`+EnvVerbose+` $1"`)

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	found, code := RunExtension(context.Background(), "hello", []string{"world"})
	assert.True(t, found)
	assert.Equal(t, 0, code)

	fields := strings.Fields(buf.String())
	require.Len(t, fields, 4, buf.String())
	assert.Equal(t, "XYZ", fields[0])
	assert.Equal(t, PortfolioFile(), fields[1])
	assert.Equal(t, "false", fields[2])
	assert.Equal(t, "world", fields[3])
}

func TestRunExtension_ExitCode(t *testing.T) {
	installExtension(t, "fail", "exit 3")

	found, code := RunExtension(context.Background(), "fail", nil)
	assert.True(t, found)
	assert.Equal(t, 3, code)
}

func TestRunExtension_NotFound(t *testing.T) {
	found, _ := RunExtension(context.Background(), "surely-not-installed", nil)
	assert.False(t, found)
}

func TestRunExtension_Offline(t *testing.T) {
	setup(t)
	t.Setenv(EnvEODHDToken, "secret")
	installExtension(t, "token", `echo "token=$`+EnvEODHDToken+`"`)

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	found, code := RunExtension(context.Background(), "token", nil)
	assert.True(t, found)
	assert.Equal(t, 0, code)
	assert.Equal(t, "token=", strings.TrimSpace(buf.String()))
}
