// Package referral builds the per-bonus-pass referral forest and scans
// it for referral-bonus emission. The tree is rebuilt fresh every
// maintenance call and discarded afterward (§9: no cycles arise here).
package referral

import "github.com/crashoveride1/blockchain/objectstore"

// Node is one account's referral-relevant fields.
type Node struct {
	Account       objectstore.ID
	Referrer      objectstore.ID // zero = no referrer
	RewardPercent uint16         // hundredths of a percent of the referee's bonus
}

// Award is one referral bonus to be emitted. Rank is the referrer's
// distance from the referee: 1 for the direct referrer, 2 for the
// referrer's own referrer, and so on up the chain.
type Award struct {
	Referrer objectstore.ID
	Referee  objectstore.ID
	Asset    objectstore.ID
	Amount   uint64
	Rank     int
}

// maxRank bounds how far up the referral chain a bonus propagates.
const maxRank = 8

// Scan walks every referee that just received a bonus (bonusByAccount)
// and climbs its referrer chain, awarding each ancestor a rank-weighted
// cut of the bonus: the direct referrer (rank 1) earns its configured
// RewardPercent in full, and each further ancestor earns half of what
// the ancestor below it would have earned for the same percentage,
// matching the original's level_1/level_2 partner split generalized to
// arbitrary depth.
func Scan(nodesByAccount map[objectstore.ID]Node, bonusByAccount map[objectstore.ID]uint64, asset objectstore.ID) []Award {
	var awards []Award
	for referee, bonus := range bonusByAccount {
		awards = append(awards, climb(nodesByAccount, referee, bonus, asset)...)
	}
	return awards
}

func climb(nodesByAccount map[objectstore.ID]Node, referee objectstore.ID, bonus uint64, asset objectstore.ID) []Award {
	var awards []Award
	current := referee
	for rank := 1; rank <= maxRank; rank++ {
		node, ok := nodesByAccount[current]
		if !ok || node.Referrer.Zero() {
			break
		}
		if node.RewardPercent != 0 {
			if amount := rankedCut(bonus, node.RewardPercent, rank); amount > 0 {
				awards = append(awards, Award{
					Referrer: node.Referrer,
					Referee:  referee,
					Asset:    asset,
					Amount:   amount,
					Rank:     rank,
				})
			}
		}
		current = node.Referrer
	}
	return awards
}

// rankedCut halves the percentage cut once per rank above the direct
// referrer.
func rankedCut(bonus uint64, percent uint16, rank int) uint64 {
	amount := uint64(uint32(percent)) * bonus / 10000
	return amount >> uint(rank-1)
}
