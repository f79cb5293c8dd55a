package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicatedFriendship a request between the two users already exists
var ErrDuplicatedFriendship = errors.New("A friend request between these users already exists")

// ErrSelfFriendship requester and addressee are the same user
var ErrSelfFriendship = errors.New("Cannot send a friend request to yourself")

// FriendshipStatus lifecycle of a friend request
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

type FriendshipModel struct {
	ID          string           `json:"id"`
	RequesterID string           `json:"requester_id"`
	AddresseeID string           `json:"addressee_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   *time.Time       `json:"-"`
}

type FriendshipRepository interface {
	SaveFriendship(ctx context.Context, friendship *FriendshipModel) error
	FindByID(ctx context.Context, id string) (*FriendshipModel, error)
	FindBetween(ctx context.Context, userA, userB string) (*FriendshipModel, error)
	UpdateStatus(ctx context.Context, id string, status FriendshipStatus) error
	ListAcceptedByUser(ctx context.Context, userID string) ([]*FriendshipModel, error)
}

type FriendshipUseCase interface {
	SendRequest(ctx context.Context, requesterID, addresseeID string) (*FriendshipModel, error)
	AcceptRequest(ctx context.Context, userID, requestID string) error
	ListFriends(ctx context.Context, userID string) ([]*FriendshipModel, error)
}
