package gov

// Platform constants. Fixed by policy, not configurable per dao.
const (
	// registryID pins the singleton row.
	registryID = 1

	// MinCreatorBalance is the platform-asset floor to create a dao.
	MinCreatorBalance = 1000

	// DaoCreationFee is charged into the registry treasury on dao creation.
	DaoCreationFee = 500

	// MinMemberBalance is the dao-asset floor to join a dao.
	MinMemberBalance = 100

	// MinProposerBalance is the dao-asset floor to create a proposal.
	MinProposerBalance = 200

	// MinVoterBalance is the dao-asset floor to vote, independent of the
	// stake amount.
	MinVoterBalance = 150

	// RewardPercent is applied to the staking pool at finalization and to
	// each stake at claim time. Integer floor division, never rounded.
	RewardPercent = 20

	// String field bounds. Longer values are rejected, not truncated.
	MaxNameLen        = 32
	MaxDescriptionLen = 200
)
