package category

import (
	"context"
)

type StubRepository struct {
	nextId int
	data   []Category
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (s *StubRepository) Store(ctx context.Context, userId int, category Category) (int, error) {
	s.nextId++
	category.Id = s.nextId
	category.UserId = userId
	s.data = append(s.data, category)
	return category.Id, nil
}

func (s *StubRepository) GetAll(ctx context.Context, userId int) ([]Category, error) {
	var out []Category
	for _, c := range s.data {
		if c.UserId == userId {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *StubRepository) GetByUuid(ctx context.Context, userId int, uuid string) (Category, error) {
	for _, c := range s.data {
		if c.UserId == userId && c.Uuid == uuid {
			return c, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

func (s *StubRepository) Update(ctx context.Context, userId int, category Category) (bool, error) {
	for i, c := range s.data {
		if c.UserId == userId && c.Uuid == category.Uuid {
			category.Id = c.Id
			category.UserId = userId
			s.data[i] = category
			return true, nil
		}
	}
	return false, nil
}

func (s *StubRepository) Delete(ctx context.Context, userId int, uuid string) (bool, error) {
	for i, c := range s.data {
		if c.UserId == userId && c.Uuid == uuid {
			s.data = append(s.data[:i], s.data[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
