package acl

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/suffrage/core/access"
	"go.dedis.ch/suffrage/testing/fake"
)

var testCreds = access.NewContractCreds([]byte{0xaa}, "test", "all")

func TestService_Match(t *testing.T) {
	srvc := NewService()

	snap := fake.NewSnapshot()

	err := srvc.Match(snap, testCreds, access.Label("alice"))
	require.EqualError(t, err, "identity 'alice' is not granted 'test:all'")

	err = srvc.Grant(snap, testCreds, access.Label("alice"))
	require.NoError(t, err)

	err = srvc.Match(snap, testCreds, access.Label("alice"))
	require.NoError(t, err)

	err = srvc.Match(snap, testCreds, access.Label("alice"), access.Label("bob"))
	require.EqualError(t, err, "identity 'bob' is not granted 'test:all'")

	err = srvc.Match(fake.NewBadSnapshot(), testCreds, access.Label("alice"))
	require.EqualError(t, err, fake.Err("failed to read credential 'aa'"))

	err = srvc.Match(snap, testCreds, fake.NewBadPublicKey())
	require.EqualError(t, err, fake.Err("failed to marshal identity"))
}

func TestService_Grant(t *testing.T) {
	srvc := NewService()

	snap := fake.NewSnapshot()

	err := srvc.Grant(snap, testCreds, access.Label("alice"), access.Label("bob"))
	require.NoError(t, err)

	// granting twice is idempotent
	err = srvc.Grant(snap, testCreds, access.Label("bob"))
	require.NoError(t, err)

	err = srvc.Match(snap, testCreds, access.Label("alice"), access.Label("bob"))
	require.NoError(t, err)

	err = srvc.Grant(fake.NewBadSnapshot(), testCreds, access.Label("alice"))
	require.EqualError(t, err, fake.Err("failed to read credential 'aa'"))

	err = srvc.Grant(snap, testCreds, fake.NewBadPublicKey())
	require.EqualError(t, err, fake.Err("failed to marshal identity"))

	badWrite := fake.NewSnapshot()
	badWrite.ErrWrite = fake.GetError()

	err = srvc.Grant(badWrite, testCreds, access.Label("alice"))
	require.EqualError(t, err, fake.Err("failed to store credential"))

	// an identity containing a newline would parse back as two entries
	err = srvc.Grant(snap, testCreds, access.Label("alice\nmallory"))
	require.EqualError(t, err, "identity 'alice\nmallory' contains a newline")

	err = srvc.Match(snap, testCreds, access.Label("mallory"))
	require.EqualError(t, err, "identity 'mallory' is not granted 'test:all'")
}
