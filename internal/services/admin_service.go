package services

import (
	"context"
	"errors"

	"github.com/verify360/trustcheck-gateway/internal/dto"
	"github.com/verify360/trustcheck-gateway/internal/query"
	"github.com/verify360/trustcheck-gateway/internal/verify"
)

var ErrMissingPhone = errors.New("a phone number is required")

// AdminService drives the operator editors. Saves PATCH only the fixed
// allow-listed field sets built here; the full local copy is never sent
// back, so server-managed fields like report history stay untouched.
type AdminService struct {
	client *verify.Client
}

func NewAdminService(client *verify.Client) *AdminService {
	return &AdminService{client: client}
}

func (s *AdminService) Company(ctx context.Context, nip string) (*verify.AdminCompany, error) {
	return s.client.AdminCompany(ctx, nip)
}

func (s *AdminService) Person(ctx context.Context, id int64) (*verify.AdminPerson, error) {
	return s.client.AdminPerson(ctx, id)
}

func (s *AdminService) Companies(ctx context.Context) ([]verify.AdminCompany, error) {
	return s.client.AdminListCompanies(ctx)
}

func (s *AdminService) Persons(ctx context.Context) ([]verify.AdminPerson, error) {
	return s.client.AdminListPersons(ctx)
}

func (s *AdminService) UpdateCompany(ctx context.Context, nip string, patch *dto.CompanyPatch) error {
	fields := make(map[string]interface{})
	putString(fields, "name", patch.Name)
	putInt(fields, "trustScore", patch.TrustScore)
	putString(fields, "riskLevel", patch.RiskLevel)
	putString(fields, "statusVat", patch.StatusVat)
	putString(fields, "address", patch.Address)
	putString(fields, "regDate", patch.RegDate)
	putString(fields, "source", patch.Source)
	putString(fields, "notes", patch.Notes)
	return s.client.AdminUpdateCompany(ctx, nip, fields)
}

func (s *AdminService) UpdatePerson(ctx context.Context, id int64, patch *dto.PersonPatch) error {
	fields := make(map[string]interface{})
	putString(fields, "name", patch.Name)
	putString(fields, "email", patch.Email)
	putString(fields, "phone", patch.Phone)
	putString(fields, "bankAccount", patch.BankAccount)
	putInt(fields, "trustScore", patch.TrustScore)
	putString(fields, "riskLevel", patch.RiskLevel)
	return s.client.AdminUpdatePerson(ctx, id, fields)
}

// LinkPhone normalizes the number, posts the association, and re-fetches the
// company. The re-fetch is the only mechanism that reflects the new link;
// there is no optimistic update.
func (s *AdminService) LinkPhone(ctx context.Context, nip, phone string) (*verify.AdminCompany, error) {
	normalized := query.NormalizePhone(phone)
	if normalized == "" {
		return nil, ErrMissingPhone
	}
	if err := s.client.AdminLinkPhone(ctx, nip, normalized); err != nil {
		return nil, err
	}
	return s.client.AdminCompany(ctx, nip)
}

func putString(fields map[string]interface{}, key string, val *string) {
	if val != nil {
		fields[key] = *val
	}
}

func putInt(fields map[string]interface{}, key string, val *int) {
	if val != nil {
		fields[key] = *val
	}
}
