package friend

import (
	"context"
)

type StubRepository struct {
	edges map[[2]int]bool
}

func NewStubRepository() *StubRepository {
	return &StubRepository{edges: map[[2]int]bool{}}
}

func (s *StubRepository) Store(ctx context.Context, userId, friendId int) error {
	s.edges[[2]int{userId, friendId}] = true
	return nil
}

func (s *StubRepository) Exists(ctx context.Context, userId, friendId int) (bool, error) {
	return s.edges[[2]int{userId, friendId}], nil
}

func (s *StubRepository) GetFriendIds(ctx context.Context, userId int) ([]int, error) {
	var ids []int
	for edge := range s.edges {
		if edge[0] == userId {
			ids = append(ids, edge[1])
		}
	}
	return ids, nil
}

func (s *StubRepository) Delete(ctx context.Context, userId, friendId int) (bool, error) {
	key := [2]int{userId, friendId}
	if !s.edges[key] {
		return false, nil
	}
	delete(s.edges, key)
	return true, nil
}
