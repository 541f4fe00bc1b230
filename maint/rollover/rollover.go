// Package rollover implements §4.H: applying pending chain parameters
// atomically and unscaling the account-creation fee after a fee-scale
// interval rolls over.
package rollover

import (
	"github.com/crashoveride1/blockchain/chainmodel"
	"github.com/crashoveride1/blockchain/objectstore"
)

// Run swaps any staged pending parameters into the active set and
// unscales the account-creation fee by one bitshift step for every
// accountsPerFeeScale registrations observed during the interval that
// just ended.
func Run(store objectstore.Store, globalID objectstore.ID, accountsRegistered uint32, accountsPerFeeScale uint32, bitshift uint) error {
	return store.Modify(globalID, func(obj interface{}) {
		gp := obj.(*chainmodel.GlobalProperties)
		if gp.PendingParameters != nil {
			gp.Parameters = *gp.PendingParameters
			gp.PendingParameters = nil
		}
		if accountsPerFeeScale == 0 {
			return
		}
		scaleSteps := accountsRegistered / accountsPerFeeScale
		for i := uint32(0); i < scaleSteps; i++ {
			gp.Parameters.AccountCreationFee >>= bitshift
		}
	})
}
