package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arvessen/ccsessions/internal/config"
)

func TestSyncNoRemotes(t *testing.T) {
	fixtureEnv(t)

	cmd, buf := newTestCmd(t)
	require.NoError(t, runSync(cmd, nil))
	require.Contains(t, buf.String(), "no remotes configured")
}

func TestSyncUnknownRemote(t *testing.T) {
	fixtureEnv(t)
	require.NoError(t, cfg.SetRemote("devbox", config.Remote{Host: "devbox.local"}))

	cmd, _ := newTestCmd(t)
	err := runSync(cmd, []string{"nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown remote "nope"`)
}
