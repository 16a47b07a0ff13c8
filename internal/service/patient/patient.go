package patient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/session"
	"github.com/Alijeyrad/stgeorge_backend/pkg/util/codes"
	"github.com/Alijeyrad/stgeorge_backend/pkg/util/phone"
)

const patientNoAttempts = 20

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context) ([]domain.PatientView, error)
	GetByID(ctx context.Context, id string) (*domain.PatientView, error)
	GetByUserID(ctx context.Context, userID string) (*domain.PatientView, error)
	// Upsert updates the profile matching p.UserID or p.ID, or creates one
	// with a fresh PAT- number. The owning user is marked profile-complete.
	// Patients may only write their own profile.
	Upsert(ctx context.Context, actor domain.User, p domain.PatientProfile) (*domain.PatientProfile, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	repos    *repository.Repositories
	sessions session.Service
	newNo    func() (string, error)
}

func New(repos *repository.Repositories, sessions session.Service) Service {
	return &patientService{repos: repos, sessions: sessions, newNo: codes.PatientNo}
}

func (s *patientService) List(ctx context.Context) ([]domain.PatientView, error) {
	v, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	return v.Patients(), nil
}

func (s *patientService) GetByID(ctx context.Context, id string) (*domain.PatientView, error) {
	v, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	p := v.Patient(id)
	if p == nil {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (s *patientService) GetByUserID(ctx context.Context, userID string) (*domain.PatientView, error) {
	v, err := s.repos.Views(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	p, ok := v.PatientByUser(userID)
	if !ok {
		return nil, ErrPatientNotFound
	}
	return v.Patient(p.ID), nil
}

func (s *patientService) Upsert(ctx context.Context, actor domain.User, p domain.PatientProfile) (*domain.PatientProfile, error) {
	if !actor.Role.IsStaffLike() {
		if p.UserID != "" && p.UserID != actor.ID {
			return nil, ErrForbidden
		}
		p.UserID = actor.ID
	}
	if p.UserID == "" {
		return nil, ErrUserRequired
	}
	ep, err := phone.Normalize(p.EmergencyPhone, phone.DefaultRegion)
	if err != nil {
		return nil, ErrInvalidPhone
	}
	p.EmergencyPhone = ep
	if _, err := s.repos.Users.FindByID(ctx, p.UserID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var saved domain.PatientProfile
	_, err = s.repos.Patients.Mutate(ctx, func(ix *repository.Index[domain.PatientProfile]) ([]domain.PatientProfile, error) {
		items := ix.All()
		for i, cur := range items {
			if cur.UserID != p.UserID && (p.ID == "" || cur.ID != p.ID) {
				continue
			}
			if cur.UserID != p.UserID && !actor.Role.IsStaffLike() {
				return nil, ErrForbidden
			}
			p.ID = cur.ID
			if p.PatientNo == "" {
				p.PatientNo = cur.PatientNo
			}
			items[i] = p
			saved = p
			return items, nil
		}

		if p.ID == "" {
			p.ID = "pat_" + uuid.Must(uuid.NewV7()).String()
		}
		if p.PatientNo == "" {
			no, err := s.uniquePatientNo(items)
			if err != nil {
				return nil, err
			}
			p.PatientNo = no
		}
		saved = p
		return append(items, p), nil
	})
	if err != nil {
		return nil, err
	}

	u, err := s.repos.Users.Update(ctx, p.UserID, func(u *domain.User) { u.IsProfileComplete = true })
	if err != nil {
		return nil, fmt.Errorf("mark profile complete: %w", err)
	}
	if s.sessions != nil {
		if err := s.sessions.Sync(ctx, u); err != nil {
			slog.Warn("failed to sync sessions after profile update", "user_id", u.ID, "error", err)
		}
	}

	slog.Info("patient profile saved", "patient_id", saved.ID, "patient_no", saved.PatientNo, "user_id", saved.UserID)
	return &saved, nil
}

func (s *patientService) uniquePatientNo(existing []domain.PatientProfile) (string, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		taken[p.PatientNo] = struct{}{}
	}
	for range patientNoAttempts {
		no, err := s.newNo()
		if err != nil {
			return "", err
		}
		if _, dup := taken[no]; !dup {
			return no, nil
		}
	}
	return "", ErrPatientNoExhaust
}
