package models

// UserVersion is the current User record layout. Version 1 records carried
// only Points; the won/claim fields arrived in version 2.
const (
	UserVersion   = 2
	InitialPoints = 1000
)

type User struct {
	Version             uint8  `json:"v"`
	Points              int64  `json:"points"`
	WonPoints           int64  `json:"won_points"`
	LastWonSlot         uint64 `json:"last_won_slot"`
	LastClaimedSlot     uint64 `json:"last_claimed_slot"`
	LastClaimedLamports uint64 `json:"last_claimed_lamports"`
}

func NewUser() *User {
	return &User{
		Version: UserVersion,
		Points:  InitialPoints,
	}
}

// Upgrade brings an older record to the current layout. Fields a version
// never had decode as zero, so only the version needs bumping.
func (u *User) Upgrade() {
	if u.Version < UserVersion {
		u.Version = UserVersion
	}
}
