// Package access defines the interfaces for the access rights control.
//
// The caller of a command has already been authenticated by an outer layer;
// the contract only ever sees an opaque Identity.
package access

import (
	"encoding"
	"fmt"
	"strings"

	"go.dedis.ch/suffrage/core/store"
)

// Identity is an abstraction to uniquely identify a caller.
type Identity interface {
	encoding.TextMarshaler
}

// Credential is an abstraction of an access right to a specific rule.
type Credential interface {
	// GetID returns the identifier of the credential, which is the key the
	// service uses to resolve the authorized identities.
	GetID() []byte

	// GetRule returns the scope of the credential.
	GetRule() string
}

// Service is an abstraction to verify and grant access to a rule.
type Service interface {
	// Match returns nil if the group of identities has access to the given
	// credential, otherwise a meaningful error on the reason it does not.
	Match(store store.Readable, creds Credential, idents ...Identity) error

	// Grant updates the store so that the group of identities gets access to
	// the credential.
	Grant(store store.Snapshot, creds Credential, idents ...Identity) error
}

// ContractCredential defines the credential for a contract. It contains the
// name of the contract and an associated command.
//
// - implements access.Credential
type ContractCredential struct {
	id       []byte
	contract string
	command  string
}

// NewContractCreds creates new credential from the associated identifier, the
// name of the contract and its command.
func NewContractCreds(id []byte, contract, command string) ContractCredential {
	return ContractCredential{
		id:       id,
		contract: contract,
		command:  command,
	}
}

// GetID implements access.Credential. It returns the identifier for the
// credential.
func (cc ContractCredential) GetID() []byte {
	return append([]byte{}, cc.id...)
}

// GetRule implements access.Credential. It returns the scope of the
// credential.
func (cc ContractCredential) GetRule() string {
	return fmt.Sprintf("%s:%s", cc.contract, cc.command)
}

// Compile returns a compacted rule from the string segments.
func Compile(segments ...string) string {
	return strings.Join(segments, ":")
}

// Label is a plain text identity for callers authenticated by an outer layer.
//
// - implements access.Identity
type Label string

// MarshalText implements encoding.TextMarshaler. It returns the label as is.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l), nil
}

func (l Label) String() string {
	return string(l)
}
