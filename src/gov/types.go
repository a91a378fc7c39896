package gov

import "time"

// Governance model variants. Closed set; anything else is rejected at
// creation and update time.
const (
	GovernanceTokenBased      = "token"
	GovernanceReputationBased = "reputation"
	GovernanceHybrid          = "hybrid"
)

const (
	VotingOneTokenOneVote = "one-token-one-vote"
	VotingQuadratic       = "quadratic"
	VotingWeightedToken   = "weighted-token"
	VotingHolderBased     = "holder-based"
)

const (
	RewardProportional      = "proportional"
	RewardContributionBased = "contribution"
	RewardMilestoneVesting  = "milestone-vesting"
	RewardNone              = "none"
)

// Vote directions.
const (
	VoteYes = "yes"
	VoteNo  = "no"
)

func validGovernanceModel(m string) bool {
	return m == GovernanceTokenBased || m == GovernanceReputationBased || m == GovernanceHybrid
}

func validVotingModel(m string) bool {
	return m == VotingOneTokenOneVote || m == VotingQuadratic ||
		m == VotingWeightedToken || m == VotingHolderBased
}

func validRewardModel(m string) bool {
	return m == RewardProportional || m == RewardContributionBased ||
		m == RewardMilestoneVesting || m == RewardNone
}

// Threshold is a dao's voting policy bounds. Percentages are whole numbers
// in [0,100]; periods are seconds.
type Threshold struct {
	QuorumPct   uint8  `json:"quorumPct"`
	ApprovalPct uint8  `json:"approvalPct"`
	MinPeriod   uint64 `json:"minPeriod"`
	MaxPeriod   uint64 `json:"maxPeriod"`
}

// Validate rejects out-of-range percentages and inverted periods. A max
// period of zero means unbounded.
func (t Threshold) Validate() error {
	if t.QuorumPct > 100 || t.ApprovalPct > 100 {
		return ErrInvalidThreshold
	}
	if t.MaxPeriod > 0 && t.MinPeriod > t.MaxPeriod {
		return ErrInvalidVotingPeriod
	}
	return nil
}

// Registry is the platform singleton. Exactly one row, primary key
// registryID; TreasuryBalance tracks every checked increment and decrement
// applied through the engine.
type Registry struct {
	ID              uint8  `gorm:"primaryKey"`
	Admin           string `gorm:"size:128;not null"`
	Asset           string `gorm:"size:32;not null"`
	CreationFee     uint64 `gorm:"not null"`
	TreasuryBalance uint64 `gorm:"default:0"`
	AdminName       string `gorm:"size:32"`
	Description     string `gorm:"size:200"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Dao is one community. Keyed uniquely by (creator, seed); the database
// unique index is what makes duplicate creation fail.
type Dao struct {
	ID                uint64 `gorm:"primaryKey"`
	Creator           string `gorm:"size:128;not null;uniqueIndex:idx_dao_key"`
	Seed              uint64 `gorm:"not null;uniqueIndex:idx_dao_key"`
	Asset             string `gorm:"size:32;not null"`
	TreasuryBalance   uint64 `gorm:"default:0"`
	Name              string `gorm:"size:32"`
	Description       string `gorm:"size:200"`
	TotalProposals    uint64 `gorm:"default:0"`
	ApprovedProposals uint64 `gorm:"default:0"`
	MemberCount       uint64 `gorm:"default:0"`
	GovernanceModel   string `gorm:"size:32;not null"`
	VotingModel       string `gorm:"size:32;not null"`
	RewardModel       string `gorm:"size:32;not null"`
	QuorumPct         uint8  `gorm:"default:0"`
	ApprovalPct       uint8  `gorm:"default:0"`
	MinVotingPeriod   uint64 `gorm:"default:0"`
	MaxVotingPeriod   uint64 `gorm:"default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (d *Dao) Threshold() Threshold {
	return Threshold{
		QuorumPct:   d.QuorumPct,
		ApprovalPct: d.ApprovalPct,
		MinPeriod:   d.MinVotingPeriod,
		MaxPeriod:   d.MaxVotingPeriod,
	}
}

// Member is one user's standing inside one dao. Balance is a snapshot of
// the user's dao-asset holdings, refreshed only on request. Counters are
// last-write-wins, owner updated.
type Member struct {
	ID                uint64 `gorm:"primaryKey"`
	DaoID             uint64 `gorm:"not null;uniqueIndex:idx_member_key"`
	Address           string `gorm:"size:128;not null;uniqueIndex:idx_member_key"`
	Seed              uint64 `gorm:"not null;uniqueIndex:idx_member_key"`
	Balance           uint64 `gorm:"default:0"`
	CreatedProposals  uint64 `gorm:"default:0"`
	ApprovedProposals uint64 `gorm:"default:0"`
	TotalRewards      uint64 `gorm:"default:0"`
	TotalVotes        uint64 `gorm:"default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Proposal is one question put to a dao. VotingEndTime is an absolute unix
// deadline; zero is the finalized sentinel and there is no way back from
// it. PoolBalance tracks the staking pool: unclaimed stakes plus the
// finalization reward not yet disbursed.
type Proposal struct {
	ID            uint64 `gorm:"primaryKey"`
	DaoID         uint64 `gorm:"index;not null"`
	Owner         string `gorm:"size:128;not null;uniqueIndex:idx_proposal_key"`
	Seed          uint64 `gorm:"not null;uniqueIndex:idx_proposal_key"`
	Title         string `gorm:"size:32"`
	Details       string `gorm:"size:200"`
	Cost          uint64 `gorm:"default:0"`
	MinStake      uint64 `gorm:"default:0"`
	VotesYes      uint64 `gorm:"default:0"`
	VotesNo       uint64 `gorm:"default:0"`
	VotingEndTime int64  `gorm:"not null"`
	Approved      bool   `gorm:"default:false"`
	PoolBalance   uint64 `gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Finalized reports whether the terminal sentinel has been set.
func (p *Proposal) Finalized() bool { return p.VotingEndTime == 0 }

// Open reports whether votes are still accepted at the given time.
func (p *Proposal) Open(now int64) bool {
	return p.VotingEndTime > 0 && now < p.VotingEndTime
}

// VoteRecord is the durable receipt of one voter's single vote on one
// proposal. Immutable once Claimed is set.
type VoteRecord struct {
	ID         uint64 `gorm:"primaryKey"`
	ProposalID uint64 `gorm:"not null;uniqueIndex:idx_vote_key"`
	Voter      string `gorm:"size:128;not null;uniqueIndex:idx_vote_key"`
	Direction  string `gorm:"size:8;not null"`
	Staked     uint64 `gorm:"not null"`
	Claimed    bool   `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Models lists every entity the engine persists, in migration order.
var Models = []interface{}{
	&Registry{}, &Dao{}, &Member{}, &Proposal{}, &VoteRecord{},
}
