// Package catalog serves the hospital's reference data: branches, the
// medicine list, branch inventory, bills, rooms and lab test types.
package catalog

import (
	"context"
	"fmt"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
)

// AllBranches disables the branch filter.
const AllBranches = "ALL"

type InventoryRequest struct {
	BranchID string
	LowStock bool
}

type BillsRequest struct {
	PatientID string
	Status    domain.BillStatus
}

type Service interface {
	Branches(ctx context.Context) ([]domain.Branch, error)
	Medicines(ctx context.Context) ([]domain.Medicine, error)
	// Inventory joins each item with its medicine. An empty or "ALL" branch
	// returns every branch.
	Inventory(ctx context.Context, req InventoryRequest) ([]domain.InventoryView, error)
	Bills(ctx context.Context, req BillsRequest) ([]domain.Bill, error)
	Rooms(ctx context.Context, branchID string) ([]domain.Room, error)
	LabTests(ctx context.Context) ([]domain.LabTestType, error)
}

type catalogService struct {
	repos *repository.Repositories
}

func New(repos *repository.Repositories) Service {
	return &catalogService{repos: repos}
}

func (s *catalogService) Branches(ctx context.Context) ([]domain.Branch, error) {
	return list[domain.Branch](ctx, s.repos.Branches)
}

func (s *catalogService) Medicines(ctx context.Context) ([]domain.Medicine, error) {
	return list[domain.Medicine](ctx, s.repos.Medicines)
}

func (s *catalogService) LabTests(ctx context.Context) ([]domain.LabTestType, error) {
	return list[domain.LabTestType](ctx, s.repos.LabTests)
}

func (s *catalogService) Inventory(ctx context.Context, req InventoryRequest) ([]domain.InventoryView, error) {
	items, err := s.repos.Inventory.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	meds, err := s.repos.Medicines.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}

	filterBranch := req.BranchID != "" && req.BranchID != AllBranches
	out := make([]domain.InventoryView, 0, len(items))
	for _, it := range items {
		if filterBranch && it.BranchID != req.BranchID {
			continue
		}
		if req.LowStock && !it.LowStock() {
			continue
		}
		v := domain.InventoryView{InventoryItem: it}
		if m, ok := meds.Get(it.MedicineID); ok {
			v.Medicine = &m
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *catalogService) Bills(ctx context.Context, req BillsRequest) ([]domain.Bill, error) {
	var (
		bills []domain.Bill
		err   error
	)
	if req.PatientID != "" {
		bills, err = s.repos.Bills.FindBy(ctx, repository.KeyPatient, req.PatientID)
	} else {
		bills, err = s.repos.Bills.All(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	if req.Status == "" {
		return bills, nil
	}
	out := make([]domain.Bill, 0, len(bills))
	for _, b := range bills {
		if b.Status == req.Status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *catalogService) Rooms(ctx context.Context, branchID string) ([]domain.Room, error) {
	if branchID == "" || branchID == AllBranches {
		return list[domain.Room](ctx, s.repos.Rooms)
	}
	rooms, err := s.repos.Rooms.FindBy(ctx, repository.KeyBranchID, branchID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

type lister[T any] interface {
	All(ctx context.Context) ([]T, error)
}

func list[T any](ctx context.Context, r lister[T]) ([]T, error) {
	items, err := r.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return items, nil
}
