package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"

	"github.com/go-playground/validator/v10"
)

// RegistrationBase holds the fields every registration carries
type RegistrationBase struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	CollegeID  *uint  `json:"college_id" validate:"omitempty,gt=0"`
	CouponCode string `json:"coupon_code" validate:"omitempty,max=50"`
}

// Registration is one of ParticipantRegistration, DelegateRegistration or SponsorRegistration
type Registration interface {
	Role() models.Role
	Base() *RegistrationBase
	applyTo(user *models.User)
}

type ParticipantRegistration struct {
	RegistrationBase
	TeamName    string `json:"team_name" validate:"required,max=100"`
	ProjectName string `json:"project_name" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=100"`
}

func (r *ParticipantRegistration) Role() models.Role        { return models.RoleParticipant }
func (r *ParticipantRegistration) Base() *RegistrationBase { return &r.RegistrationBase }
func (r *ParticipantRegistration) applyTo(u *models.User) {
	u.TeamName = r.TeamName
	u.ProjectName = r.ProjectName
	u.Category = r.Category
}

type DelegateRegistration struct {
	RegistrationBase
	Designation string `json:"designation" validate:"omitempty,max=100"`
}

func (r *DelegateRegistration) Role() models.Role        { return models.RoleDelegate }
func (r *DelegateRegistration) Base() *RegistrationBase { return &r.RegistrationBase }
func (r *DelegateRegistration) applyTo(u *models.User) {
	u.Designation = r.Designation
}

type SponsorRegistration struct {
	RegistrationBase
	CompanyName string `json:"company_name" validate:"required,max=255"`
	Designation string `json:"designation" validate:"required,max=100"`
}

func (r *SponsorRegistration) Role() models.Role        { return models.RoleSponsor }
func (r *SponsorRegistration) Base() *RegistrationBase { return &r.RegistrationBase }
func (r *SponsorRegistration) applyTo(u *models.User) {
	u.CompanyName = r.CompanyName
	u.Designation = r.Designation
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeRegistration picks the variant named by the "role" field, decodes
// body into it and validates it.
func DecodeRegistration(body []byte) (Registration, error) {
	var envelope struct {
		Role models.Role `json:"role"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.Validation("malformed request body", nil)
	}

	var reg Registration
	switch envelope.Role {
	case models.RoleParticipant:
		reg = &ParticipantRegistration{}
	case models.RoleDelegate:
		reg = &DelegateRegistration{}
	case models.RoleSponsor:
		reg = &SponsorRegistration{}
	default:
		return nil, apperrors.Validation("invalid registration role", map[string]string{
			"role": "must be one of Participant, Delegate, Sponsor",
		})
	}

	if err := json.Unmarshal(body, reg); err != nil {
		return nil, apperrors.Validation("malformed request body", nil)
	}
	if err := ValidateStruct(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ValidateStruct runs struct-tag validation and converts failures into a
// VALIDATION_FAILED error keyed by JSON field name.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(apperrors.CodeValidationFailed, "invalid request", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describeFieldError(fe)
	}
	return apperrors.Validation("validation failed", fields)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
