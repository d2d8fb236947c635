// Package plain implements a transaction that carries an already
// authenticated identity and a set of arguments.
//
// The executor applies transactions one at a time in a single total order, so
// the identifier only needs to be unique, not verifiable: it is generated
// with xid at creation time.
package plain

import (
	"github.com/rs/xid"
	"go.dedis.ch/suffrage/core/access"
	"golang.org/x/xerrors"
)

// Transaction is a plain transaction.
//
// - implements txn.Transaction
type Transaction struct {
	id       []byte
	identity access.Identity
	args     map[string][]byte
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*Transaction)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tx *Transaction) {
		tx.args[key] = value
	}
}

// NewTransaction creates a new transaction with the provided identity.
func NewTransaction(identity access.Identity, opts ...TransactionOption) (Transaction, error) {
	if identity == nil {
		return Transaction{}, xerrors.New("identity is nil")
	}

	tx := Transaction{
		id:       xid.New().Bytes(),
		identity: identity,
		args:     make(map[string][]byte),
	}

	for _, opt := range opts {
		opt(&tx)
	}

	return tx, nil
}

// GetID implements txn.Transaction. It returns the identifier of the
// transaction.
func (t Transaction) GetID() []byte {
	return append([]byte{}, t.id...)
}

// GetIdentity implements txn.Transaction. It returns the identity that
// created the transaction.
func (t Transaction) GetIdentity() access.Identity {
	return t.identity
}

// GetArg implements txn.Transaction. It returns the value of the argument if
// it is set, otherwise nil.
func (t Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// GetArgs implements txn.Transaction. It returns the list of argument keys
// available.
func (t Transaction) GetArgs() []string {
	args := make([]string, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	return args
}
