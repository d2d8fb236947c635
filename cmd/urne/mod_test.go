package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApp_Scenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urne.db")

	buf := &bytes.Buffer{}

	run := func(caller string, args ...string) error {
		app := makeApp()
		app.Writer = buf

		return app.Run(append([]string{"urne", "--db", path, "--as", caller}, args...))
	}

	require.NoError(t, run("admin", "grant",
		"--identity", "admin", "--identity", "alice", "--identity", "bob"))

	require.NoError(t, run("admin", "create"))
	require.NoError(t, run("alice", "register"))
	require.NoError(t, run("bob", "register"))
	require.NoError(t, run("admin", "open-proposals"))
	require.NoError(t, run("alice", "propose", "--description", "Proposal X"))
	require.NoError(t, run("bob", "propose", "--description", "Proposal Y"))
	require.NoError(t, run("admin", "close-proposals"))
	require.NoError(t, run("admin", "open-voting"))
	require.NoError(t, run("alice", "vote", "--proposal", "2"))
	require.NoError(t, run("bob", "vote", "--proposal", "2"))
	require.NoError(t, run("admin", "close-voting"))
	require.NoError(t, run("admin", "tally"))

	require.NoError(t, run("admin", "status"))
	require.Contains(t, buf.String(), "closed: 2 voter(s), 2 proposal(s), 2 ballot(s)")

	buf.Reset()

	require.NoError(t, run("admin", "winner"))
	require.Contains(t, buf.String(), "2=Proposal Y (2 vote(s))")
}

func TestApp_Rejections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urne.db")

	run := func(caller string, args ...string) error {
		app := makeApp()
		app.Writer = &bytes.Buffer{}

		return app.Run(append([]string{"urne", "--db", path, "--as", caller}, args...))
	}

	// nobody has been granted yet
	err := run("admin", "create")
	require.Error(t, err)
	require.Contains(t, err.Error(), "transaction rejected")

	require.NoError(t, run("admin", "grant", "--identity", "admin", "--identity", "eve"))
	require.NoError(t, run("admin", "create"))

	// eve is granted on the contract but not the administrator
	err = run("eve", "open-voting")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not the administrator")
}

func TestApp_Strict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urne.db")

	run := func(args ...string) error {
		app := makeApp()
		app.Writer = &bytes.Buffer{}

		return app.Run(append([]string{"urne", "--db", path, "--as", "admin", "--strict"}, args...))
	}

	require.NoError(t, run("grant", "--identity", "admin"))
	require.NoError(t, run("create"))

	err := run("open-voting")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid phase transition")

	require.NoError(t, run("open-proposals"))
}
