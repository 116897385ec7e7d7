package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"buyerlead_backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// BuyerInput is the raw create/update payload before normalization.
type BuyerInput struct {
	FullName     string   `json:"fullName" validate:"required,min=2,max=80"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone" validate:"required,buyerphone"`
	City         string   `json:"city" validate:"required,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=Apartment Villa Plot Office Retail"`
	BHK          string   `json:"bhk" validate:"omitempty,oneof=1 2 3 4 Studio"`
	Purpose      string   `json:"purpose" validate:"required,oneof=Buy Rent"`
	BudgetMin    *int     `json:"budgetMin" validate:"omitempty,gt=0"`
	BudgetMax    *int     `json:"budgetMax" validate:"omitempty,gt=0"`
	Timeline     string   `json:"timeline" validate:"required,oneof=0-3m 3-6m >6m Exploring"`
	Source       string   `json:"source" validate:"required,oneof=Website Referral Walk-in Call Other"`
	Status       string   `json:"status" validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
	Notes        string   `json:"notes" validate:"omitempty,max=1000"`
	Tags         []string `json:"tags"`
}

// Errors maps a field name to its validation message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

var phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("buyerphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(buyerCrossFieldRules, BuyerInput{})

	return v
}

func buyerCrossFieldRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(BuyerInput)

	if model.RequiresBHK(in.PropertyType) && in.BHK == "" {
		sl.ReportError(in.BHK, "bhk", "BHK", "bhkrequired", "")
	}

	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMax < *in.BudgetMin {
		sl.ReportError(in.BudgetMax, "budgetMax", "BudgetMax", "budgetrange", "")
	}
}

// ValidateBuyer normalizes the input in place and checks every field and
// cross-field rule. It performs no I/O; the same input always produces the
// same outcome.
func ValidateBuyer(in *BuyerInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.Status == "" {
		in.Status = string(model.BuyerStatusNew)
	}

	// BHK only applies to residential property types.
	if !model.RequiresBHK(in.PropertyType) {
		in.BHK = ""
	}

	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := Errors{}
	for _, fe := range verrs {
		if _, exists := out[fe.Field()]; !exists {
			out[fe.Field()] = messageFor(fe)
		}
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "buyerphone":
		return "must contain 10 to 15 digits"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "gt":
		return "must be a positive integer"
	case "bhkrequired":
		return "is required for Apartment and Villa property types"
	case "budgetrange":
		return "must be greater than or equal to budgetMin"
	default:
		return "is invalid"
	}
}
