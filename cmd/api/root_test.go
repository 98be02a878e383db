package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	assert.NoError(t, cmd.Execute())
	assert.Equal(t, "dev\n", out.String())
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	t.Setenv("TODOS_DATABASE_DRIVER", "oracle")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve"})

	err := cmd.Execute()

	assert.ErrorContains(t, err, "invalid config")
}
