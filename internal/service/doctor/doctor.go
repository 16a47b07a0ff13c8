// Package doctor serves the doctor directory: profiles joined with their
// user accounts.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DirectoryRequest struct {
	BranchID       string
	Specialization string
}

type Service interface {
	// Directory lists doctors sorted by name, optionally filtered.
	Directory(ctx context.Context, req DirectoryRequest) ([]domain.DoctorView, error)
	GetByID(ctx context.Context, id string) (*domain.DoctorView, error)
	GetByUserID(ctx context.Context, userID string) (*domain.DoctorView, error)
}

type doctorService struct {
	repos *repository.Repositories
}

func New(repos *repository.Repositories) Service {
	return &doctorService{repos: repos}
}

func (s *doctorService) Directory(ctx context.Context, req DirectoryRequest) ([]domain.DoctorView, error) {
	v, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	out := make([]domain.DoctorView, 0)
	for _, d := range v.Doctors() {
		if req.BranchID != "" && d.BranchID != req.BranchID {
			continue
		}
		if req.Specialization != "" && d.Specialization != req.Specialization {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return name(out[i]) < name(out[j]) })
	return out, nil
}

func name(d domain.DoctorView) string {
	if d.User == nil {
		return ""
	}
	return d.User.Name
}

func (s *doctorService) GetByID(ctx context.Context, id string) (*domain.DoctorView, error) {
	v, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	d := v.Doctor(id)
	if d == nil {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}

func (s *doctorService) GetByUserID(ctx context.Context, userID string) (*domain.DoctorView, error) {
	v, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	d, ok := v.DoctorByUser(userID)
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return v.Doctor(d.ID), nil
}
