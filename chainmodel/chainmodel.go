// Package chainmodel defines the persistent entities of the
// maintenance core's data model: the object store's schema as far as
// maintenance observes it.
package chainmodel

import (
	"time"

	"github.com/crashoveride1/blockchain/objectstore"
)

// Spaces partition the object store's tables.
const (
	SpaceGlobal objectstore.Space = iota
	SpaceAccount
	SpaceAsset
	SpaceWitness
	SpaceCommittee
	SpaceWorker
	SpaceAccumulator
	SpaceFund
	SpaceFundDeposit
	SpaceCheque
	SpaceBudgetRecord
	SpaceHistory
)

// Types distinguish tables that share a space, e.g. history kinds.
const (
	TypeDefault uint8 = iota
	TypeOperationHistory
	TypeAccountTransactionHistory
	TypeFundTransactionHistory
)

// GlobalProperties is the chain-parameters singleton of §3.
type GlobalProperties struct {
	ID                     objectstore.ID
	ActiveWitnesses        []objectstore.ID
	ActiveCommitteeMembers []objectstore.ID
	NextAvailableVoteID    uint32
	Parameters             ChainParameters
	PendingParameters      *ChainParameters
}

// ChainParameters holds chain parameters staged for atomic adoption
// at the next maintenance interval (§4.H) and, once adopted, the
// currently active set.
type ChainParameters struct {
	AccountCreationFee uint64
}

// DynamicGlobalProperties is the block-progress singleton of §3.
type DynamicGlobalProperties struct {
	ID                            objectstore.ID
	HeadBlockTime                 time.Time
	NextMaintenanceTime           time.Time
	LastBudgetTime                time.Time
	WitnessBudget                 uint64
	AccountsRegisteredThisInterval uint32
}

// SpecialAuthorityKind is a closed variant per §9's "tagged-variant
// state" note.
type SpecialAuthorityKind int

const (
	SpecialAuthorityNone SpecialAuthorityKind = iota
	SpecialAuthorityTopHolders
)

// SpecialAuthority tags an authority as either ordinary or a top-N
// holders of asset X construction.
type SpecialAuthority struct {
	Kind  SpecialAuthorityKind
	Asset objectstore.ID
	N     int
}

// AuthorityEntry is one weighted account member of a multisig
// authority. Key members are not modelled (out of cryptographic scope).
type AuthorityEntry struct {
	Account objectstore.ID
	Weight  uint16
}

// Authority is a weight-threshold multisig authority.
type Authority struct {
	Threshold uint32
	Entries   []AuthorityEntry
}

// AccountOptions carries a member account's voting preferences.
type AccountOptions struct {
	Votes          []objectstore.ID // vote ids
	VotingAccount  objectstore.ID   // proxy target; zero value = self
	NumWitness     uint16
	NumCommittee   uint16
}

// Account is the account entity of §3.
type Account struct {
	ID                 objectstore.ID
	Name               string
	Owner              Authority
	Active             Authority
	OwnerSpecial       SpecialAuthority
	ActiveSpecial      SpecialAuthority
	TopNControlFlags   uint8
	Options            AccountOptions
	CashbackVB         objectstore.ID // zero = none
	BlacklistedAccounts map[objectstore.ID]bool
	Statistics         objectstore.ID
	IsLifetimeMember   bool
	IsAnnualMember     bool
	MembershipExpiration time.Time
	Registrar          objectstore.ID
	Referrer           objectstore.ID
	ReferrerRewardPercent uint16
	CoreBalance        int64
	TotalCoreInOrders  uint64
}

// AccountStatistics absorbs per-account fee accumulation during the
// tally/fee pass (§4.C/D).
type AccountStatistics struct {
	ID              objectstore.ID
	Owner           objectstore.ID
	TotalCoreInOrders uint64
	PendingFees     uint64
	LifetimeFeesPaid uint64
}

// AssetParameters are the per-asset bonus-issuance controls of §3.
type AssetParameters struct {
	DailyBonus           bool
	BonusPercent         uint16 // hundredths of a percent
	MaturingBonusBalance bool
}

// Asset is the asset entity of §3.
type Asset struct {
	ID             objectstore.ID
	Symbol         string
	Issuer         objectstore.ID
	Params         AssetParameters
	BuybackAccount objectstore.ID // zero = none
	AllowedAssets  map[objectstore.ID]bool
	IsCore         bool
}

// AssetDynamicData carries the mutable supply/fee counters of §3.
type AssetDynamicData struct {
	ID              objectstore.ID
	Asset           objectstore.ID
	CurrentSupply   int64
	AccumulatedFees uint64
	ForceSettledVolume uint64
	BonusBalances   map[objectstore.ID]uint64
}

// Witness is the witness entity of §3.
type Witness struct {
	ID         objectstore.ID
	VoteID     objectstore.ID
	Payee      objectstore.ID
	TotalVotes uint64
}

// CommitteeMember is the committee-member entity of §3.
type CommitteeMember struct {
	ID         objectstore.ID
	VoteID     objectstore.ID
	Payee      objectstore.ID
	TotalVotes uint64
}

// WorkerPayoutKind is the closed variant of payout strategies §9 names.
type WorkerPayoutKind int

const (
	WorkerPayoutVesting WorkerPayoutKind = iota
	WorkerPayoutBurn
	WorkerPayoutRefund
)

// Worker is the worker-proposal entity of §3.
type Worker struct {
	ID              objectstore.ID
	VoteFor         objectstore.ID
	VoteAgainst     objectstore.ID
	WorkerAccount   objectstore.ID
	DailyPay        uint64
	ApprovingStake  int64
	WorkBegin       time.Time
	WorkEnd         time.Time
	PayoutKind      WorkerPayoutKind
}

// Active reports whether the worker is within its activity window at t.
func (w *Worker) Active(t time.Time) bool {
	return !t.Before(w.WorkBegin) && t.Before(w.WorkEnd)
}

// FBAAccumulator is the fee-bucket-accumulator entity of §3.
type FBAAccumulator struct {
	ID                objectstore.ID
	AccumulatedFBAFees uint64
	DesignatedAsset   objectstore.ID // zero = not configured
}

// IsConfigured returns assetIsSet unchanged; the accumulator's own
// fields (DesignatedAsset) are not consulted.
func (a *FBAAccumulator) IsConfigured(assetIsSet bool) bool { return assetIsSet }

// PaymentRateEntry is one entry of a fund's payment-rate schedule.
type PaymentRateEntry struct {
	EffectiveAt time.Time
	Rate        uint32 // hundredths of a percent, annualized
}

// Fund is the fund entity of §3.
type Fund struct {
	ID           objectstore.ID
	Owner        objectstore.ID
	Asset        objectstore.ID
	Balance      uint64
	DatetimeEnd  time.Time
	Enabled      bool
	RateSchedule []PaymentRateEntry
}

// FundDeposit is a per-depositor position in a fund.
type FundDeposit struct {
	ID         objectstore.ID
	Fund       objectstore.ID
	Owner      objectstore.ID
	Amount     uint64
	AutoRenew  bool
}

// ChequeStatus is the closed status variant of §3.
type ChequeStatus int

const (
	ChequeNew ChequeStatus = iota
	ChequeUsed
	ChequeReversed
	ChequeUndone
)

// PayeeItem records one payee's redemption state on a cheque.
type PayeeItem struct {
	Payee         objectstore.ID
	DatetimeUsed  time.Time
	Status        ChequeStatus
}

// Cheque is the cheque entity of §3.
type Cheque struct {
	ID                objectstore.ID
	Code              string
	Drawer            objectstore.ID
	Asset             objectstore.ID
	AmountPayee       uint64
	AmountRemaining   uint64
	DatetimeCreation  time.Time
	DatetimeExpiration time.Time
	DatetimeUsed      time.Time
	Status            ChequeStatus
	Payees            []PayeeItem
}

// BudgetRecord captures every component of one budget process run
// (§4.J.7), created exactly once per maintenance call.
type BudgetRecord struct {
	ID                 objectstore.ID
	Time               time.Time
	TotalBudget        uint64
	WitnessShare       uint64
	WorkerShare        uint64
	LeftoverWorker     uint64
	AccumulatedFeesConsumed uint64
	PriorWitnessBudget uint64
	SupplyDelta        int64
}

// HistoryEntry is a time-indexed, append-only history record (operation
// history, account-transaction history, or fund-transaction history).
type HistoryEntry struct {
	ID        objectstore.ID
	Account   objectstore.ID
	Time      time.Time
	Next      objectstore.ID // linked-list predecessor, zero = none
	Operation interface{}
}
