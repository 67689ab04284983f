package services

import (
	"context"
	"errors"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
)

type ItemDetail struct {
	Item   actionitem.ActionItem
	Status *actionitem.StatusEntry
	Notes  []actionitem.Note
}

type ItemService struct {
	repo actionitem.Repository
}

func NewItemService(repo actionitem.Repository) *ItemService {
	return &ItemService{repo: repo}
}

// Detail loads an item with its current status and notes. Ids are matched in
// canonical form, so "AD-7" finds "AD-007".
func (s *ItemService) Detail(ctx context.Context, id string) (ItemDetail, error) {
	prefix, number, err := actionitem.ParseID(id)
	if err != nil {
		return ItemDetail{}, err
	}
	canonical := actionitem.FormatID(prefix, number)

	item, err := s.repo.GetByID(ctx, canonical)
	if err != nil {
		return ItemDetail{}, err
	}
	detail := ItemDetail{Item: item}

	status, err := s.repo.CurrentStatus(ctx, canonical)
	switch {
	case err == nil:
		detail.Status = &status
	case !errors.Is(err, actionitem.ErrNotFound):
		return ItemDetail{}, err
	}

	detail.Notes, err = s.repo.Notes(ctx, canonical)
	if err != nil {
		return ItemDetail{}, err
	}
	return detail, nil
}
