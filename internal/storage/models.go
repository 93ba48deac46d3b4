package storage

// Raffle is the per-owner raffle record. The owner address is the key: the
// existence of a row is the definition of "this account currently runs a
// raffle". Start and end are nanosecond instants of the ledger clock.
type Raffle struct {
	OwnerAddress string `gorm:"primaryKey"`
	Prize        uint64 `gorm:"not null"`
	StartNanos   int64  `gorm:"not null"`
	EndNanos     int64  `gorm:"not null"`
	Scope        string `gorm:"uniqueIndex;not null"`
	Attempts     uint8  `gorm:"default:0"`
}

// Participant is one entry of a raffle's participant ledger. Scope is the
// raffle's storage namespace (a content hash of the owner address), so two
// raffles' participant sets never collide. The autoincrement ID fixes the
// enumeration order used by the draw.
type Participant struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Scope   string `gorm:"uniqueIndex:idx_scope_address;not null"`
	Address string `gorm:"uniqueIndex:idx_scope_address;not null"`
	Stake   uint64 `gorm:"not null"`
}

// Event is an informational record of something the contract did.
// Presentation-only, not a correctness contract.
type Event struct {
	ID             string    `gorm:"primaryKey"`
	Kind           EventKind `gorm:"index;not null"`
	OwnerAddress   string    `gorm:"index"`
	Message        string    `gorm:"not null"`
	CreatedAtNanos int64     `gorm:"not null"`
}

// ContractState is a single row gating the one-time setup operation.
type ContractState struct {
	ID          uint8 `gorm:"primaryKey"`
	Initialized bool  `gorm:"default:false"`
}
