package plain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/suffrage/core/access"
)

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(access.Label("alice"))
	require.NoError(t, err)
	require.NotEmpty(t, tx.GetID())
	require.Equal(t, access.Label("alice"), tx.GetIdentity())

	_, err = NewTransaction(nil)
	require.EqualError(t, err, "identity is nil")

	// identifiers are unique
	other, err := NewTransaction(access.Label("alice"))
	require.NoError(t, err)
	require.NotEqual(t, tx.GetID(), other.GetID())
}

func TestTransaction_GetArg(t *testing.T) {
	tx, err := NewTransaction(access.Label("alice"),
		WithArg("ping", []byte("pong")),
		WithArg("cmd", []byte("VOTE")))
	require.NoError(t, err)

	require.Equal(t, []byte("pong"), tx.GetArg("ping"))
	require.Equal(t, []byte("VOTE"), tx.GetArg("cmd"))
	require.Nil(t, tx.GetArg("missing"))

	require.Len(t, tx.GetArgs(), 2)
}
