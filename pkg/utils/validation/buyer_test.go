package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() BuyerInput {
	min := 5000000
	max := 7000000
	return BuyerInput{
		FullName:     "Ravi Kumar",
		Email:        "ravi@example.com",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Apartment",
		BHK:          "2",
		Purpose:      "Buy",
		BudgetMin:    &min,
		BudgetMax:    &max,
		Timeline:     "0-3m",
		Source:       "Website",
		Status:       "New",
		Notes:        "prefers corner unit",
		Tags:         []string{"hot", "site-visit"},
	}
}

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	verrs, ok := err.(Errors)
	require.True(t, ok, "expected validation.Errors, got %T: %v", err, err)
	return verrs
}

func TestValidateBuyerAcceptsValidInput(t *testing.T) {
	in := validInput()
	require.NoError(t, ValidateBuyer(&in))
}

func TestValidateBuyerRequiredFields(t *testing.T) {
	in := validInput()
	in.FullName = ""
	in.Phone = ""
	verrs := fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "fullName")
	assert.Contains(t, verrs, "phone")
}

func TestValidateBuyerFullNameBounds(t *testing.T) {
	in := validInput()
	in.FullName = "A"
	verrs := fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "fullName")

	in = validInput()
	in.FullName = strings.Repeat("a", 81)
	verrs = fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "fullName")

	in = validInput()
	in.FullName = strings.Repeat("a", 80)
	require.NoError(t, ValidateBuyer(&in))
}

func TestValidateBuyerPhone(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"987654321012345", true},
		{"987654321", false},
		{"9876543210123456", false},
		{"98765abc10", false},
		{"+919876543210", false},
		{"98765 43210", false},
	}

	for _, tc := range cases {
		in := validInput()
		in.Phone = tc.phone
		err := ValidateBuyer(&in)
		if tc.valid {
			assert.NoError(t, err, "phone %q", tc.phone)
		} else {
			verrs := fieldErrors(t, err)
			assert.Contains(t, verrs, "phone", "phone %q", tc.phone)
		}
	}
}

func TestValidateBuyerEmailOptional(t *testing.T) {
	in := validInput()
	in.Email = ""
	require.NoError(t, ValidateBuyer(&in))

	in = validInput()
	in.Email = "not-an-email"
	verrs := fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "email")
}

func TestValidateBuyerBHKRequiredForResidential(t *testing.T) {
	for _, pt := range []string{"Apartment", "Villa"} {
		in := validInput()
		in.PropertyType = pt
		in.BHK = ""
		verrs := fieldErrors(t, ValidateBuyer(&in))
		assert.Contains(t, verrs, "bhk", "property type %s", pt)
	}
}

func TestValidateBuyerBHKIgnoredForNonResidential(t *testing.T) {
	for _, pt := range []string{"Plot", "Office", "Retail"} {
		in := validInput()
		in.PropertyType = pt
		in.BHK = "3"
		require.NoError(t, ValidateBuyer(&in), "property type %s", pt)
		assert.Empty(t, in.BHK, "bhk should be cleared for %s", pt)

		in = validInput()
		in.PropertyType = pt
		in.BHK = ""
		require.NoError(t, ValidateBuyer(&in), "property type %s", pt)
	}
}

func TestValidateBuyerBudgetRange(t *testing.T) {
	lower := 100
	higher := 200

	in := validInput()
	in.BudgetMin = &higher
	in.BudgetMax = &lower
	verrs := fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "budgetMax")

	in = validInput()
	in.BudgetMin = &lower
	in.BudgetMax = &lower
	require.NoError(t, ValidateBuyer(&in))

	in = validInput()
	in.BudgetMin = nil
	in.BudgetMax = &lower
	require.NoError(t, ValidateBuyer(&in))
}

func TestValidateBuyerBudgetPositive(t *testing.T) {
	zero := 0
	in := validInput()
	in.BudgetMin = &zero
	in.BudgetMax = nil
	verrs := fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "budgetMin")
}

func TestValidateBuyerEnums(t *testing.T) {
	in := validInput()
	in.City = "Delhi"
	verrs := fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "city")

	in = validInput()
	in.PropertyType = "Castle"
	verrs = fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "propertyType")

	in = validInput()
	in.Timeline = "eventually"
	verrs = fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "timeline")

	in = validInput()
	in.Source = "Billboard"
	verrs = fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "source")

	in = validInput()
	in.Status = "Paused"
	verrs = fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "status")
}

func TestValidateBuyerStatusDefaultsToNew(t *testing.T) {
	in := validInput()
	in.Status = ""
	require.NoError(t, ValidateBuyer(&in))
	assert.Equal(t, "New", in.Status)
}

func TestValidateBuyerNotesLength(t *testing.T) {
	in := validInput()
	in.Notes = strings.Repeat("n", 1001)
	verrs := fieldErrors(t, ValidateBuyer(&in))
	assert.Contains(t, verrs, "notes")

	in = validInput()
	in.Notes = strings.Repeat("n", 1000)
	require.NoError(t, ValidateBuyer(&in))
}

func TestValidateBuyerDeterministic(t *testing.T) {
	a := validInput()
	a.Phone = "abc"
	b := validInput()
	b.Phone = "abc"

	errA := ValidateBuyer(&a)
	errB := ValidateBuyer(&b)
	require.Error(t, errA)
	require.Error(t, errB)
	assert.Equal(t, errA.Error(), errB.Error())
}

func TestErrorsMessageIsSortedByField(t *testing.T) {
	e := Errors{"phone": "bad", "bhk": "missing", "city": "unknown"}
	assert.Equal(t, "bhk: missing; city: unknown; phone: bad", e.Error())
}
