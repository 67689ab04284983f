package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/pkg/composables"
)

var ErrSequenceTooLow = errors.New("next number must be greater than the highest existing item number")

type VendorService struct {
	repo  vendor.Repository
	items actionitem.Repository
}

func NewVendorService(repo vendor.Repository, items actionitem.Repository) *VendorService {
	return &VendorService{repo: repo, items: items}
}

func (s *VendorService) Create(ctx context.Context, dto CreateVendorDTO) (vendor.Vendor, error) {
	if err := dto.Ok(); err != nil {
		return vendor.Vendor{}, err
	}
	return s.repo.Create(ctx, dto.ToEntity())
}

func (s *VendorService) ListByPrefix(ctx context.Context) ([]vendor.Vendor, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].Prefix < vendors[j].Prefix })
	return vendors, nil
}

type Sequence struct {
	Vendor    vendor.Vendor
	MaxNumber int
}

func (s *VendorService) Sequence(ctx context.Context, prefix string) (Sequence, error) {
	v, err := s.repo.GetByPrefix(ctx, strings.ToUpper(strings.TrimSpace(prefix)))
	if err != nil {
		return Sequence{}, err
	}
	n, err := s.items.MaxNumber(ctx, v.ID)
	if err != nil {
		return Sequence{}, err
	}
	return Sequence{Vendor: v, MaxNumber: n}, nil
}

// ResetSequence sets the vendor's next number, refusing values that would
// collide with existing items.
func (s *VendorService) ResetSequence(ctx context.Context, prefix string, next int) (Sequence, error) {
	var seq Sequence
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		seq, err = s.resetSequence(txCtx, prefix, next)
		return err
	})
	return seq, err
}

func (s *VendorService) resetSequence(ctx context.Context, prefix string, next int) (Sequence, error) {
	seq, err := s.Sequence(ctx, prefix)
	if err != nil {
		return Sequence{}, err
	}
	if next <= seq.MaxNumber || next < 1 {
		return seq, fmt.Errorf("%w: got %d, highest is %d", ErrSequenceTooLow, next, seq.MaxNumber)
	}
	if err := s.repo.SetNextNumber(ctx, seq.Vendor.ID, next); err != nil {
		return seq, err
	}
	seq.Vendor.NextNumber = next
	return seq, nil
}
