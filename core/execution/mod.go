// Package execution defines the primitives to execute a transaction against
// a contract.
package execution

import (
	"go.dedis.ch/suffrage/core/store"
	"go.dedis.ch/suffrage/core/txn"
)

// Service is the interface of the execution service. It returns the result of
// a transaction applied to a snapshot of the store.
type Service interface {
	Execute(snap store.Snapshot, step Step) (Result, error)
}

// Step is the smallest unit of execution. It contains the transaction being
// executed and the transactions that have already been accepted inside the
// same batch.
type Step struct {
	Previous []txn.Transaction

	Current txn.Transaction
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a chance to the execution to explain why a transaction
	// has failed.
	Message string
}
