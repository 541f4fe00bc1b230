// Package buyback implements §4.B: synthesizing limit orders that sell
// a buyback account's holdings of allowed assets for its designated
// asset. Holdings of assets outside the allowed set are logged and
// skipped.
package buyback

import (
	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/evaluator"
	"github.com/crashoveride1/blockchain/objectstore"
	"github.com/crashoveride1/blockchain/pkg/chainerr"
	"github.com/crashoveride1/blockchain/pkg/log"
)

// AccountBalance is the minimal balance-index row buyback iterates:
// one (account, asset, amount) tuple from the by_account_asset index.
type AccountBalance struct {
	Account objectstore.ID
	Asset   objectstore.ID
	Amount  uint64
}

// BalanceLister enumerates a buyback account's balances in ascending
// asset-type order, standing in for the by_account_asset secondary
// index over the balance table.
type BalanceLister func(account objectstore.ID) []AccountBalance

// OrderStillOpen reports whether a just-created order id is still
// resting on the books (did not immediately fully fill).
type OrderStillOpen func(order objectstore.ID) bool

// CreateOrders runs the buyback sweep for every asset in targets that
// designates a buyback account.
func CreateOrders(store objectstore.Store, eval evaluator.Evaluator, targets []objectstore.ID, balances BalanceLister, stillOpen OrderStillOpen) {
	state := &evaluator.EvalState{Store: store}
	for _, targetAssetID := range targets {
		raw, ok := store.Get(targetAssetID)
		if !ok {
			continue
		}
		targetAsset := raw.(*chainmodel.Asset)
		if targetAsset.BuybackAccount.Zero() {
			continue
		}
		sweepOne(store, eval, state, targetAsset, targetAssetID, balances, stillOpen)
	}
}

func sweepOne(store objectstore.Store, eval evaluator.Evaluator, state *evaluator.EvalState, targetAsset *chainmodel.Asset, targetAssetID objectstore.ID, balances BalanceLister, stillOpen OrderStillOpen) {
	for _, bal := range balances(targetAsset.BuybackAccount) {
		if bal.Asset == targetAssetID || bal.Amount == 0 {
			continue
		}
		if targetAsset.AllowedAssets != nil && !targetAsset.AllowedAssets[bal.Asset] {
			log.S().Infow("buyback: asset not allowed, skipping",
				"account", targetAsset.BuybackAccount.String(), "asset", bal.Asset.String())
			continue
		}
		if err := attemptOrder(store, eval, state, targetAsset.BuybackAccount, bal, targetAssetID, stillOpen); err != nil {
			log.S().Warnw("buyback: order attempt failed",
				"account", targetAsset.BuybackAccount.String(), "asset", bal.Asset.String(), "err", err)
		}
	}
}

func attemptOrder(store objectstore.Store, eval evaluator.Evaluator, state *evaluator.EvalState, account objectstore.ID, bal AccountBalance, receiveAsset objectstore.ID, stillOpen OrderStillOpen) error {
	var orderID objectstore.ID
	order := evaluator.LimitOrderCreate{
		Seller:        account,
		SellAsset:     bal.Asset,
		SellAmount:    bal.Amount,
		ReceiveAsset:  receiveAsset,
		ReceiveAmount: 1,
		FillOrKill:    false,
		Result:        &orderID,
	}
	if err := eval.ApplyOperation(state, order); err != nil {
		return chainerr.BestEffort(err)
	}

	if stillOpen != nil && !orderID.Zero() && stillOpen(orderID) {
		if err := eval.ApplyOperation(state, evaluator.LimitOrderCancel{Order: orderID}); err != nil {
			return chainerr.BestEffort(err)
		}
	}
	return nil
}
