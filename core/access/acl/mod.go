// Package acl implements a minimal access service that stores the authorized
// identities of a credential directly in the store.
//
// The value under the credential identifier is the list of granted
// identities, one marshaled identity per line. This is enough for a single
// authoritative executor; finer grained permission trees are out of scope.
package acl

import (
	"bytes"

	"go.dedis.ch/suffrage/core/access"
	"go.dedis.ch/suffrage/core/store"
	"golang.org/x/xerrors"
)

// Service is an access service backed by the store itself.
//
// - implements access.Service
type Service struct{}

// NewService creates a new in-store access service.
func NewService() Service {
	return Service{}
}

// Match implements access.Service. It returns nil if every identity of the
// group has been granted the credential.
func (srvc Service) Match(st store.Readable, creds access.Credential, idents ...access.Identity) error {
	value, err := st.Get(creds.GetID())
	if err != nil {
		return xerrors.Errorf("failed to read credential '%x': %v", creds.GetID(), err)
	}

	granted := parse(value)

	for _, ident := range idents {
		text, err := ident.MarshalText()
		if err != nil {
			return xerrors.Errorf("failed to marshal identity: %v", err)
		}

		if _, ok := granted[string(text)]; !ok {
			return xerrors.Errorf("identity '%s' is not granted '%s'", text, creds.GetRule())
		}
	}

	return nil
}

// Grant implements access.Service. It adds the group of identities to the
// credential and stores the updated list.
func (srvc Service) Grant(st store.Snapshot, creds access.Credential, idents ...access.Identity) error {
	value, err := st.Get(creds.GetID())
	if err != nil {
		return xerrors.Errorf("failed to read credential '%x': %v", creds.GetID(), err)
	}

	granted := parse(value)

	for _, ident := range idents {
		text, err := ident.MarshalText()
		if err != nil {
			return xerrors.Errorf("failed to marshal identity: %v", err)
		}

		// The list is stored one identity per line, so a newline inside an
		// identity would split it into two entries on the next parse.
		if bytes.ContainsRune(text, '\n') {
			return xerrors.Errorf("identity '%s' contains a newline", text)
		}

		granted[string(text)] = struct{}{}
	}

	lines := make([][]byte, 0, len(granted))
	for text := range granted {
		lines = append(lines, []byte(text))
	}

	err = st.Set(creds.GetID(), bytes.Join(lines, []byte("\n")))
	if err != nil {
		return xerrors.Errorf("failed to store credential: %v", err)
	}

	return nil
}

func parse(value []byte) map[string]struct{} {
	granted := map[string]struct{}{}

	if len(value) == 0 {
		return granted
	}

	for _, line := range bytes.Split(value, []byte("\n")) {
		granted[string(line)] = struct{}{}
	}

	return granted
}
