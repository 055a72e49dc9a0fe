package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

//go:generate mockgen -source=user_transaction.go -destination=user_transaction_mock.go -package=services

// TransactionWriter defines methods for persisting a user's transactions.
type TransactionWriter interface {
	Save(ctx context.Context, txn models.Transaction) (models.Transaction, error)                                                  // Inserts a new transaction
	Update(ctx context.Context, userID, id string, patch models.TransactionPatch, updatedAt time.Time) (models.Transaction, error) // Merges patch into a transaction
	Delete(ctx context.Context, userID, id string) error                                                                           // Removes a transaction
}

// TransactionReader defines methods for reading a user's transactions.
type TransactionReader interface {
	ListByUserID(ctx context.Context, userID string) ([]models.Transaction, error) // Returns all transactions, newest first
	GetByID(ctx context.Context, userID, id string) (models.Transaction, error)    // Returns one transaction
}

// TransactionCache caches the transaction list of a user.
type TransactionCache interface {
	GetList(ctx context.Context, userID string) ([]models.Transaction, error)    // Returns the cached list
	SetList(ctx context.Context, userID string, txns []models.Transaction) error // Replaces the cached list
	Invalidate(ctx context.Context, userID string) error                         // Drops the cached list
}

// TransactionValidator validates transaction input at the service boundary.
type TransactionValidator interface {
	ValidateInput(in models.TransactionInput) error // Validates a new transaction
	ValidatePatch(p models.TransactionPatch) error  // Validates a partial update
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// UserTransactionService serves the transactions of authenticated users
// and publishes an event for every mutation.
type UserTransactionService struct {
	writeRepo   TransactionWriter
	readRepo    TransactionReader
	cacheRepo   TransactionCache
	kafkaWriter KafkaWriter
	validator   TransactionValidator
	afterCommit func(ctx context.Context, fn func(ctx context.Context))
	now         func() time.Time
	newID       func() string
}

// UserTransactionServiceOption configures a UserTransactionService.
type UserTransactionServiceOption func(*UserTransactionService)

// WithAfterCommit sets the hook that defers cache invalidation and event
// publishing until the surrounding database transaction has committed.
func WithAfterCommit(hook func(ctx context.Context, fn func(ctx context.Context))) UserTransactionServiceOption {
	return func(s *UserTransactionService) {
		if hook != nil {
			s.afterCommit = hook
		}
	}
}

// NewUserTransactionService creates a new UserTransactionService.
// cacheRepo and kafkaWriter are optional and may be nil.
func NewUserTransactionService(
	writeRepo TransactionWriter,
	readRepo TransactionReader,
	cacheRepo TransactionCache,
	kafkaWriter KafkaWriter,
	validator TransactionValidator,
	opts ...UserTransactionServiceOption,
) *UserTransactionService {
	s := &UserTransactionService{
		writeRepo:   writeRepo,
		readRepo:    readRepo,
		cacheRepo:   cacheRepo,
		kafkaWriter: kafkaWriter,
		validator:   validator,
		afterCommit: func(ctx context.Context, fn func(ctx context.Context)) { fn(ctx) },
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every transaction of userID, newest first.
func (s *UserTransactionService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	if s.cacheRepo != nil {
		txns, err := s.cacheRepo.GetList(ctx, userID)
		if err == nil {
			return txns, nil
		}
		logger.Log.Debugw("transaction list not served from cache", "userID", userID, "error", err)
	}

	txns, err := s.readRepo.ListByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", userID, "error", err)
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetList(ctx, userID, txns); err != nil {
			logger.Log.Warnw("failed to cache transaction list", "userID", userID, "error", err)
		}
	}

	return txns, nil
}

// Get returns the transaction id of userID.
func (s *UserTransactionService) Get(ctx context.Context, userID, id string) (models.Transaction, error) {
	if userID == "" {
		return models.Transaction{}, apperrors.ErrUnauthorized
	}

	txn, err := s.readRepo.GetByID(ctx, userID, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Log.Errorw("failed to get transaction", "userID", userID, "id", id, "error", err)
	}
	return txn, err
}

// Create stores a new transaction for userID with a fresh id and timestamps.
func (s *UserTransactionService) Create(ctx context.Context, userID string, in models.TransactionInput) (models.Transaction, error) {
	if userID == "" {
		return models.Transaction{}, apperrors.ErrUnauthorized
	}
	if err := s.validator.ValidateInput(in); err != nil {
		return models.Transaction{}, err
	}

	now := s.now()
	txn := models.Transaction{
		ID:          s.newID(),
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.writeRepo.Save(ctx, txn)
	if err != nil {
		logger.Log.Errorw("failed to save transaction", "userID", userID, "error", err)
		return models.Transaction{}, err
	}

	s.afterCommit(ctx, func(ctx context.Context) {
		s.invalidate(ctx, userID)
		s.publish(ctx, models.EventCreated, userID, saved.ID, &saved)
	})

	return saved, nil
}

// Update merges patch into the transaction id of userID and refreshes updatedAt.
func (s *UserTransactionService) Update(ctx context.Context, userID, id string, patch models.TransactionPatch) (models.Transaction, error) {
	if userID == "" {
		return models.Transaction{}, apperrors.ErrUnauthorized
	}
	if err := s.validator.ValidatePatch(patch); err != nil {
		return models.Transaction{}, err
	}

	updated, err := s.writeRepo.Update(ctx, userID, id, patch, s.now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Log.Errorw("failed to update transaction", "userID", userID, "id", id, "error", err)
		}
		return models.Transaction{}, err
	}

	s.afterCommit(ctx, func(ctx context.Context) {
		s.invalidate(ctx, userID)
		s.publish(ctx, models.EventUpdated, userID, id, &updated)
	})

	return updated, nil
}

// Delete removes the transaction id of userID.
func (s *UserTransactionService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}

	if err := s.writeRepo.Delete(ctx, userID, id); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Log.Errorw("failed to delete transaction", "userID", userID, "id", id, "error", err)
		}
		return err
	}

	s.afterCommit(ctx, func(ctx context.Context) {
		s.invalidate(ctx, userID)
		s.publish(ctx, models.EventDeleted, userID, id, nil)
	})

	return nil
}

func (s *UserTransactionService) invalidate(ctx context.Context, userID string) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Invalidate(ctx, userID); err != nil {
		logger.Log.Warnw("failed to invalidate transaction cache", "userID", userID, "error", err)
	}
}

// publish sends a transaction event to Kafka. Failures are logged only.
func (s *UserTransactionService) publish(ctx context.Context, event, userID, id string, txn *models.Transaction) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "transaction_id", id)
		return
	}

	data, err := json.Marshal(models.TransactionEvent{
		Event:         event,
		UserID:        userID,
		TransactionID: id,
		Timestamp:     s.now().Unix(),
		Transaction:   txn,
	})
	if err != nil {
		logger.Log.Errorw("Failed to marshal transaction event", "transaction_id", id, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(userID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transaction event", "transaction_id", id, "event", event, "error", err)
	} else {
		logger.Log.Infow("Transaction event published", "transaction_id", id, "event", event)
	}
}
