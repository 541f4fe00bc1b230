// Package config holds the read-only tunables the maintenance driver
// consumes and the hardfork gating used to select among historical
// regimes, in the idiom of the teacher's config.HeightUpgrade.
package config

import "time"

// Parameters are the consensus tunables of spec.md §6, read-only during
// a maintenance call.
type Parameters struct {
	MaintenanceInterval     time.Duration
	BlockInterval           time.Duration
	WitnessPayPerBlock      uint64
	WorkerBudgetPerDay      uint64
	MaximumWitnessCount     uint32
	MaximumCommitteeCount   uint32
	MinWitnessCount         uint32
	MinCommitteeMemberCount uint32
	CoreAssetCycleRate      uint64
	CoreAssetCycleRateBits  uint
	AccountsPerFeeScale     uint32
	AccountFeeScaleBitshift uint
	CountNonMemberVotes     bool
	HistoryRetention        time.Duration

	FBASplit      FBASplitPercentages
	BuybackSymbol string
}

// FBASplitPercentages are the three-way accumulator split shares of
// §4.A, in hundredths of a percent (100% = 10000); they must sum to
// 10000.
type FBASplitPercentages struct {
	Network uint16
	Buyback uint16
	Issuer  uint16
}

// UpgradeName enumerates the named hardfork boundaries the maintenance
// core branches on, mirroring config.HeightName in the teacher.
type UpgradeName int

const (
	// Hardfork533 switches producer-authority construction from the
	// legacy bits_to_drop builder to the vote_counter builder.
	Hardfork533 UpgradeName = iota
	// Hardfork613 enables annual-member deprecation.
	Hardfork613
	// Hardfork616MaintenanceChange is the single-block coef=0.375 patch
	// to the maintenance-time advance formula.
	Hardfork616MaintenanceChange
	// Hardfork617 switches from the oldest bonus regime to the
	// "before 620" regime.
	Hardfork617
	// Hardfork618 starts clearing accounts-online info every interval.
	Hardfork618
	// Hardfork619 names a boundary inside the before-620 regime. No
	// maintenance component branches on it.
	Hardfork619
	// Hardfork620 switches to the current bonus regime.
	Hardfork620
	// Hardfork622 enables fund processing.
	Hardfork622
)

// Upgrades lists the timestamps at which each hardfork takes effect.
// Use IsPre/IsPost rather than comparing the field directly so call
// sites read the same way regardless of which boundary they gate on.
type Upgrades struct {
	hardfork533     time.Time
	hardfork613     time.Time
	hardfork616     time.Time
	hardfork617     time.Time
	hardfork618     time.Time
	hardfork619     time.Time
	hardfork620     time.Time
	hardfork622     time.Time
}

// NewUpgrades constructs an Upgrades schedule from named boundary times.
func NewUpgrades(hf533, hf613, hf616, hf617, hf618, hf619, hf620, hf622 time.Time) Upgrades {
	return Upgrades{hf533, hf613, hf616, hf617, hf618, hf619, hf620, hf622}
}

func (u *Upgrades) at(name UpgradeName) time.Time {
	switch name {
	case Hardfork533:
		return u.hardfork533
	case Hardfork613:
		return u.hardfork613
	case Hardfork616MaintenanceChange:
		return u.hardfork616
	case Hardfork617:
		return u.hardfork617
	case Hardfork618:
		return u.hardfork618
	case Hardfork619:
		return u.hardfork619
	case Hardfork620:
		return u.hardfork620
	case Hardfork622:
		return u.hardfork622
	default:
		panic("config: invalid upgrade name")
	}
}

// IsPost reports whether ts is at or after the named upgrade boundary.
func (u *Upgrades) IsPost(name UpgradeName, ts time.Time) bool {
	return !ts.Before(u.at(name))
}

// IsPre reports whether ts is strictly before the named upgrade boundary.
func (u *Upgrades) IsPre(name UpgradeName, ts time.Time) bool {
	return !u.IsPost(name, ts)
}

// AtExactly reports whether ts lands exactly on the named upgrade
// boundary's block, used for the single-block coef=0.375 patch.
func (u *Upgrades) AtExactly(name UpgradeName, ts time.Time) bool {
	return ts.Equal(u.at(name))
}

// Crossed reports whether the named upgrade boundary lies strictly
// after before and at or before after — i.e. whether advancing the
// maintenance time from before to after just crossed it. Used for
// one-shot migrations that must run exactly once, on the interval that
// straddles the boundary, rather than on every interval thereafter.
func (u *Upgrades) Crossed(name UpgradeName, before, after time.Time) bool {
	return u.IsPre(name, before) && u.IsPost(name, after)
}
