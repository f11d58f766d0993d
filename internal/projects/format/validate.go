package format

import (
	"strings"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

// ValidateIntake checks the fields a new project cannot do without: the
// company and service names identify the Drive folder.
func ValidateIntake(p *Payload) error {
	var errs []domain.FieldError
	if p == nil || strings.TrimSpace(p.BasicInfo["companyName"]) == "" {
		errs = append(errs, domain.FieldError{Field: "basicInfo.companyName", Message: "company name is required"})
	}
	if p == nil || strings.TrimSpace(p.BasicInfo["serviceName"]) == "" {
		errs = append(errs, domain.FieldError{Field: "basicInfo.serviceName", Message: "service name is required"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Fields: errs}
	}
	return nil
}
