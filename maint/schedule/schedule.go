// Package schedule implements §4.I: computing the next maintenance
// boundary. The coef=0.375 hardfork patch is expanded as the fixed-point
// 3*interval/8 per §5's determinism requirement — no floating point
// reaches this consensus path.
package schedule

import (
	"time"

	"github.com/crashoveride1/blockchain/config"
)

// Advance computes the next maintenance time given the block that just
// triggered maintenance. blockNumber == 1 is the genesis special case.
func Advance(blockNumber uint64, headBlockTime, nextMaintenanceTime time.Time, interval time.Duration, upgrades *config.Upgrades) time.Time {
	if blockNumber == 1 {
		return headBlockTime.Truncate(interval).Add(interval)
	}

	k := int64(headBlockTime.Sub(nextMaintenanceTime) / interval)
	if k < 0 {
		k = 0
	}

	var step time.Duration
	if upgrades != nil && upgrades.AtExactly(config.Hardfork616MaintenanceChange, headBlockTime) {
		step = time.Duration(int64(interval)*3/8) + time.Duration(k)*interval
	} else {
		step = time.Duration(k+1) * interval
	}
	return nextMaintenanceTime.Add(step)
}
