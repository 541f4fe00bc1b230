// Package evaluator models the transaction/operation evaluator dispatch
// that spec.md §6 treats as an external collaborator: maintenance hands
// it synthesized virtual operations by value; it may return a
// recoverable assertion error which the best-effort call sites catch.
package evaluator

import "github.com/crashoveride1/blockchain/objectstore"

// EvalState is the exclusive execution context an operation is applied
// against, analogous to the source's eval_state.
type EvalState struct {
	Store objectstore.Store
}

// Evaluator dispatches a synthesized operation against a store.
type Evaluator interface {
	ApplyOperation(state *EvalState, op interface{}) error
}

// FBADistribute records a share credited out of an accumulator (§4.A).
type FBADistribute struct {
	Accumulator objectstore.ID
	Recipient   objectstore.ID
	Asset       objectstore.ID
	Amount      uint64
}

// DailyIssue records an asset-level bonus credited directly to an
// account (§4.L.2).
type DailyIssue struct {
	Account objectstore.ID
	Asset   objectstore.ID
	Amount  uint64
}

// ReferralIssue records a referral bonus credited to a referrer
// (§4.L.3).
type ReferralIssue struct {
	Referrer objectstore.ID
	Referee  objectstore.ID
	Asset    objectstore.ID
	Amount   uint64
}

// ChequeReverse returns a cheque's remaining amount to its drawer
// (§4.K).
type ChequeReverse struct {
	Cheque objectstore.ID
	Drawer objectstore.ID
	Asset  objectstore.ID
	Amount uint64
}

// LimitOrderCreate synthesizes a buyback sell order (§4.B). Result, if
// non-nil, is filled in by the evaluator with the created order's id so
// the caller can check whether it is still open.
type LimitOrderCreate struct {
	Seller        objectstore.ID
	SellAsset     objectstore.ID
	SellAmount    uint64
	ReceiveAsset  objectstore.ID
	ReceiveAmount uint64
	FillOrKill    bool
	Result        *objectstore.ID
}

// LimitOrderCancel cancels an order that did not immediately fill
// (§4.B).
type LimitOrderCancel struct {
	Order objectstore.ID
}

// AccountUpgrade upgrades an annual member to lifetime membership
// (§5's supplemented annual-member deprecation pass).
type AccountUpgrade struct {
	Account      objectstore.ID
	ToLifetime   bool
}
