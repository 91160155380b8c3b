// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestGetInfo_LinkerValuesWin(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit

	t.Cleanup(func() { Version, GitCommit = oldVersion, oldCommit })

	Version = "v1.2.3"
	GitCommit = "abc123"

	info := GetInfo()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
}

func TestCommand_Human(t *testing.T) {
	var out bytes.Buffer

	Command.SetOut(&out)
	Command.SetArgs([]string{})

	require.NoError(t, Command.Execute())
	assert.Contains(t, out.String(), "customer-import ")
	assert.Contains(t, out.String(), "go version: "+runtime.Version())
}

func TestCommand_JSON(t *testing.T) {
	var out bytes.Buffer

	Command.SetOut(&out)
	Command.SetArgs([]string{"--output", "json"})

	t.Cleanup(func() { _ = Command.Flags().Set("output", "human") })

	require.NoError(t, Command.Execute())

	var info Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, runtime.Version(), info.GoVersion)
}
