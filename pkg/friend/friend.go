package friend

import "errors"

// Friend is a one-directional edge from a user to another user's account.
// Adding a friend creates the edge for the requesting side only.
type Friend struct {
	UserId   int
	FriendId int
}

var (
	ErrAlreadyFriends = errors.New("already friends")
	ErrNotFriends     = errors.New("not friends")
	ErrSelfFriend     = errors.New("cannot add yourself as a friend")
)
