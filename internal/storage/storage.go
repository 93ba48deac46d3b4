package storage

type Storage interface {
	// contract lifecycle
	IsInitialized() (bool, error)
	MarkInitialized() error

	// raffle records
	GetRaffle(owner string) (*Raffle, error)
	InsertRaffle(raffle *Raffle) error
	UpdateRaffleAttempts(owner string, attempts uint8) error
	DeleteRaffle(owner string) error

	// participant ledger, scoped per raffle
	GetParticipant(scope string, address string) (*Participant, error)
	CountParticipants(scope string) (int64, error)
	InsertParticipant(participant *Participant) error
	GetParticipantsInOrder(scope string) ([]*Participant, error)

	// informational event log
	AppendEvent(event *Event) error
	GetEventsByOwner(owner string) ([]*Event, error)

	// Transaction runs fn against a transactional view of the storage;
	// all writes commit together or not at all.
	Transaction(fn func(Storage) error) error
}

type EventKind = string

const (
	RaffleRegisteredEventKind    EventKind = "RaffleRegisteredEventKind"
	ParticipantJoinedEventKind   EventKind = "ParticipantJoinedEventKind"
	DrawUnresolvedEventKind      EventKind = "DrawUnresolvedEventKind"
	WinnerPaidEventKind          EventKind = "WinnerPaidEventKind"
	UnparticipatedCloseEventKind EventKind = "UnparticipatedCloseEventKind"
)
