package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-booking/apperror"
	"rental-booking/logger"
	tenantModel "rental-booking/models/tenant"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type CreateInput struct {
	FullName   string
	Phone      string
	Email      *string
	IDDocument *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*tenantModel.Tenant, error) {
	t := tenantModel.Tenant{
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      in.Email,
		IDDocument: in.IDDocument,
	}
	if t.FullName == "" {
		return nil, &apperror.ValidationError{Field: "full_name", Reason: "is required"}
	}
	if t.Phone == "" {
		return nil, &apperror.ValidationError{Field: "phone", Reason: "is required"}
	}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	logger.Success(fmt.Sprintf("Tenant %d created", t.ID))
	return &t, nil
}

// ListSelectable returns tenants a new booking may be made for: everyone not blacklisted.
// search, when set, matches name or phone.
func (s *Service) ListSelectable(ctx context.Context, search string) ([]tenantModel.Tenant, error) {
	q := s.DB.WithContext(ctx).Where("blacklisted = ?", false)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR phone LIKE ?", like, like)
	}
	var tenants []tenantModel.Tenant
	if err := q.Order("full_name ASC").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

// SetBlacklisted flags or clears a tenant. A reason is required to blacklist.
func (s *Service) SetBlacklisted(ctx context.Context, id uint, blacklisted bool, reason string) (*tenantModel.Tenant, error) {
	reason = strings.TrimSpace(reason)
	if blacklisted && reason == "" {
		return nil, &apperror.ValidationError{Field: "reason", Reason: "is required to blacklist a tenant"}
	}

	db := s.DB.WithContext(ctx)
	var t tenantModel.Tenant
	if err := db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "tenant", ID: id}
		}
		return nil, fmt.Errorf("load tenant %d: %w", id, err)
	}

	t.Blacklisted = blacklisted
	t.BlacklistReason = nil
	if blacklisted {
		t.BlacklistReason = &reason
	}
	if err := db.Save(&t).Error; err != nil {
		return nil, fmt.Errorf("update tenant %d: %w", id, err)
	}
	logger.Info(fmt.Sprintf("Tenant %d blacklisted=%t", t.ID, t.Blacklisted))
	return &t, nil
}
