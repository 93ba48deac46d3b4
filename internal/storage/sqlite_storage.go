package storage

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"raffledapp/internal/logger"
)

type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(path string) *SqliteStorage {

	logger.Debug("initializing database...", zap.String("path", path))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	err = db.AutoMigrate(
		&ContractState{},
		&Raffle{},
		&Participant{},
		&Event{},
	)

	if err != nil {
		panic(err)
	}

	logger.Debug("initializing database... done")
	return &SqliteStorage{
		db: db,
	}
}

func (s *SqliteStorage) IsInitialized() (bool, error) {

	var state ContractState
	err := s.db.First(&state, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return state.Initialized, nil
}

func (s *SqliteStorage) MarkInitialized() error {
	logger.Debug("marking contract state initialized...")

	err := s.db.Create(&ContractState{ID: 1, Initialized: true}).Error
	if err != nil {
		return err
	}

	logger.Debug("marking contract state initialized... done")
	return nil
}

func (s *SqliteStorage) GetRaffle(owner string) (*Raffle, error) {

	var raffle Raffle
	err := s.db.First(&raffle, "owner_address = ?", owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &raffle, nil
}

func (s *SqliteStorage) InsertRaffle(raffle *Raffle) error {
	logger.Debug("persisting raffle record...", zap.String("owner", raffle.OwnerAddress))

	err := s.db.Create(raffle).Error
	if err != nil {
		return err
	}

	logger.Debug("persisting raffle record... done")
	return nil
}

func (s *SqliteStorage) UpdateRaffleAttempts(owner string, attempts uint8) error {
	logger.Debug("updating raffle attempts...",
		zap.String("owner", owner),
		zap.Uint8("attempts", attempts))

	err := s.db.Model(&Raffle{}).
		Where("owner_address = ?", owner).
		Update("attempts", attempts).Error
	if err != nil {
		return err
	}

	logger.Debug("updating raffle attempts... done")
	return nil
}

func (s *SqliteStorage) DeleteRaffle(owner string) error {
	logger.Debug("deleting raffle record...", zap.String("owner", owner))

	raffle, err := s.GetRaffle(owner)
	if err != nil {
		return err
	}
	if raffle == nil {
		return nil
	}

	err = s.db.Where("scope = ?", raffle.Scope).Delete(&Participant{}).Error
	if err != nil {
		return err
	}

	err = s.db.Delete(&Raffle{}, "owner_address = ?", owner).Error
	if err != nil {
		return err
	}

	logger.Debug("deleting raffle record... done")
	return nil
}

func (s *SqliteStorage) GetParticipant(scope string, address string) (*Participant, error) {

	var participant Participant
	err := s.db.First(&participant, "scope = ? and address = ?", scope, address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &participant, nil
}

func (s *SqliteStorage) CountParticipants(scope string) (int64, error) {

	var count int64
	err := s.db.Model(&Participant{}).Where("scope = ?", scope).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *SqliteStorage) InsertParticipant(participant *Participant) error {
	logger.Debug("persisting participant entry...",
		zap.String("scope", participant.Scope),
		zap.String("address", participant.Address))

	err := s.db.Create(participant).Error
	if err != nil {
		return err
	}

	logger.Debug("persisting participant entry... done")
	return nil
}

func (s *SqliteStorage) GetParticipantsInOrder(scope string) ([]*Participant, error) {

	var participants = make([]*Participant, 0)
	err := s.db.Where("scope = ?", scope).Order("id asc").Find(&participants).Error
	if err != nil {
		return nil, err
	}

	return participants, nil
}

func (s *SqliteStorage) AppendEvent(event *Event) error {

	err := s.db.Create(event).Error
	if err != nil {
		return err
	}

	return nil
}

func (s *SqliteStorage) GetEventsByOwner(owner string) ([]*Event, error) {

	var events = make([]*Event, 0)
	err := s.db.Where("owner_address = ?", owner).Order("created_at_nanos asc").Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (s *SqliteStorage) Transaction(fn func(Storage) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&SqliteStorage{db: tx})
	})
}
