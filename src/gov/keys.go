package gov

import "fmt"

// Ledger sub-account owner keys. Each treasury and staking pool is owned by
// its parent record, addressed by the record's composite key rather than a
// derived address. User balances use the bare address as owner.

const registryOwner = "registry"

func daoOwner(creator string, seed uint64) string {
	return fmt.Sprintf("dao:%s:%d", creator, seed)
}

func proposalOwner(owner string, seed uint64) string {
	return fmt.Sprintf("proposal:%s:%d", owner, seed)
}
