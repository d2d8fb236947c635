// Package txn defines the abstraction of transactions.
//
// A transaction is a contract input. It is uniquely identifiable and carries
// the identity of the caller that created it, which the contracts use for
// access control.
package txn

import (
	"go.dedis.ch/suffrage/core/access"
)

// Transaction is what triggers a contract execution by passing it as part of
// the input.
type Transaction interface {
	// GetID returns the unique identifier for the transaction.
	GetID() []byte

	// GetIdentity returns the identity that created the transaction.
	GetIdentity() access.Identity

	// GetArg is a getter for the arguments of the transaction.
	GetArg(key string) []byte

	// GetArgs returns the list of argument keys available.
	GetArgs() []string
}

// Arg is a generic argument that can be stored in a transaction.
type Arg struct {
	Key   string
	Value []byte
}
