package core

import (
	"context"

	"github.com/holiman/uint256"
)

// GlobalScope pause scope covering every vault
const GlobalScope = ""

// Pauser global and per token pause flags
type Pauser interface {
	Paused(ctx context.Context, scope string) (bool, error)
	SetPaused(ctx context.Context, scope string, paused bool) error
}

// Authorizer decides who may run privileged operations
type Authorizer interface {
	IsAdmin(ctx context.Context, user string) bool
}

// Transferer moves tokens between users and the pool
type Transferer interface {
	TransferIn(ctx context.Context, token, from string, amount *uint256.Int) error
	TransferOut(ctx context.Context, token, to string, amount *uint256.Int) error
}

// Reverter is implemented by collaborators that can undo their own changes.
// The pool snapshots every one of them around a unit of work.
type Reverter interface {
	Snapshot() int
	RevertToSnapshot(id int)
	// Commit forgets everything journaled so far
	Commit()
}

// ChangeSet state touched by one successful operation
type ChangeSet struct {
	Vaults    []*Vault    `json:"vaults"`
	Positions []*Position `json:"positions"`
	Events    []Event     `json:"events"`
}

// Committer persists a change set, a failure unwinds the operation
type Committer interface {
	Commit(ctx context.Context, changes *ChangeSet) error
}

// EventSink receives events of committed operations
type EventSink interface {
	Emit(ctx context.Context, events []Event)
}
