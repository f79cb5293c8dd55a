package friendship

import (
	"context"
	"fmt"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/logging"
	"github.com/devtrail/devtrail/internal/infrastructure/uuid"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// FriendshipUseCaseImpl ...
type FriendshipUseCaseImpl struct {
	FriendshipRepository   domain.FriendshipRepository
	NotificationRepository domain.NotificationRepository
	UUIDGenerator          uuid.Generator
}

var _ domain.FriendshipUseCase = &FriendshipUseCaseImpl{}

// NewFriendshipUseCase ...
func NewFriendshipUseCase(
	FriendshipRepository domain.FriendshipRepository,
	NotificationRepository domain.NotificationRepository,
	UUIDGenerator uuid.Generator,
) *FriendshipUseCaseImpl {
	return &FriendshipUseCaseImpl{
		FriendshipRepository:   FriendshipRepository,
		NotificationRepository: NotificationRepository,
		UUIDGenerator:          UUIDGenerator,
	}
}

// SendRequest create a pending friendship and notify the addressee
func (fu *FriendshipUseCaseImpl) SendRequest(ctx context.Context, requesterID, addresseeID string) (*domain.FriendshipModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "FriendshipUseCaseImpl.SendRequest", "service")
	defer apmSpan.End()

	if requesterID == "" {
		return nil, domain.NewMissingParameterError("requester_id")
	}
	if addresseeID == "" {
		return nil, domain.NewMissingParameterError("addressee_id")
	}
	if requesterID == addresseeID {
		return nil, domain.ErrSelfFriendship
	}

	if existing, err := fu.FriendshipRepository.FindBetween(ctx, requesterID, addresseeID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicatedFriendship
	}

	id, err := fu.UUIDGenerator.Generate()
	if err != nil {
		return nil, err
	}
	friendship := &domain.FriendshipModel{
		ID:          id,
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      domain.FriendshipPending,
	}
	if err := fu.FriendshipRepository.SaveFriendship(ctx, friendship); err != nil {
		return nil, err
	}

	// the request is already persisted, a failed notification must not undo it
	logger := logging.ExtractLoggerFromContext(ctx)
	if nid, err := fu.UUIDGenerator.Generate(); err == nil {
		if err := fu.NotificationRepository.SaveNotification(ctx, &domain.NotificationModel{
			ID:      nid,
			UserID:  addresseeID,
			Kind:    "friend_request",
			Message: fmt.Sprintf("You have a new friend request from %s", requesterID),
		}); err != nil {
			logger.Error("Failed to deliver friend request notification",
				zap.String("user.id", addresseeID), zap.Error(err))
		}
	} else {
		logger.Error("Failed to generate notification id", zap.Error(err))
	}
	return friendship, nil
}

// AcceptRequest flip a pending request to accepted, only the addressee may accept
func (fu *FriendshipUseCaseImpl) AcceptRequest(ctx context.Context, userID, requestID string) error {
	apmSpan, _ := apm.StartSpan(ctx, "FriendshipUseCaseImpl.AcceptRequest", "service")
	defer apmSpan.End()

	if userID == "" {
		return domain.NewMissingParameterError("user_id")
	}
	if requestID == "" {
		return domain.NewMissingParameterError("request_id")
	}

	request, err := fu.FriendshipRepository.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil || request.AddresseeID != userID {
		// hide requests addressed to someone else
		return domain.NewNotFoundError("friend request", requestID)
	}
	if request.Status == domain.FriendshipAccepted {
		return nil
	}
	return fu.FriendshipRepository.UpdateStatus(ctx, requestID, domain.FriendshipAccepted)
}

// ListFriends accepted friendships of the user
func (fu *FriendshipUseCaseImpl) ListFriends(ctx context.Context, userID string) ([]*domain.FriendshipModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "FriendshipUseCaseImpl.ListFriends", "service")
	defer apmSpan.End()

	if userID == "" {
		return nil, domain.NewMissingParameterError("user_id")
	}
	return fu.FriendshipRepository.ListAcceptedByUser(ctx, userID)
}
