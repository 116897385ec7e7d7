package service

import (
	"sort"

	"buyerlead_backend/internal/model"
	"buyerlead_backend/pkg/utils/validation"
)

// FieldChange records one field's transition inside a history diff.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

type fieldSpec struct {
	name     string
	current  func(*model.Buyer) interface{}
	proposed func(*validation.BuyerInput) interface{}
}

// diffFields enumerates every tracked scalar field with its extractors, in a
// fixed order. Tags are handled separately because they compare as a set.
var diffFields = []fieldSpec{
	{"fullName",
		func(b *model.Buyer) interface{} { return b.FullName },
		func(in *validation.BuyerInput) interface{} { return in.FullName }},
	{"email",
		func(b *model.Buyer) interface{} { return b.Email },
		func(in *validation.BuyerInput) interface{} { return in.Email }},
	{"phone",
		func(b *model.Buyer) interface{} { return b.Phone },
		func(in *validation.BuyerInput) interface{} { return in.Phone }},
	{"city",
		func(b *model.Buyer) interface{} { return b.City },
		func(in *validation.BuyerInput) interface{} { return in.City }},
	{"propertyType",
		func(b *model.Buyer) interface{} { return b.PropertyType },
		func(in *validation.BuyerInput) interface{} { return in.PropertyType }},
	{"bhk",
		func(b *model.Buyer) interface{} { return b.BHK },
		func(in *validation.BuyerInput) interface{} { return in.BHK }},
	{"purpose",
		func(b *model.Buyer) interface{} { return b.Purpose },
		func(in *validation.BuyerInput) interface{} { return in.Purpose }},
	{"budgetMin",
		func(b *model.Buyer) interface{} { return intValue(b.BudgetMin) },
		func(in *validation.BuyerInput) interface{} { return intValue(in.BudgetMin) }},
	{"budgetMax",
		func(b *model.Buyer) interface{} { return intValue(b.BudgetMax) },
		func(in *validation.BuyerInput) interface{} { return intValue(in.BudgetMax) }},
	{"timeline",
		func(b *model.Buyer) interface{} { return b.Timeline },
		func(in *validation.BuyerInput) interface{} { return in.Timeline }},
	{"source",
		func(b *model.Buyer) interface{} { return b.Source },
		func(in *validation.BuyerInput) interface{} { return in.Source }},
	{"status",
		func(b *model.Buyer) interface{} { return b.Status },
		func(in *validation.BuyerInput) interface{} { return in.Status }},
	{"notes",
		func(b *model.Buyer) interface{} { return b.Notes },
		func(in *validation.BuyerInput) interface{} { return in.Notes }},
}

func intValue(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// computeDiff compares the stored buyer with the proposed values and returns
// only the fields that actually changed. Tag lists compare order-independent:
// a pure reordering is not a change.
func computeDiff(current *model.Buyer, in *validation.BuyerInput) map[string]FieldChange {
	diff := make(map[string]FieldChange)

	for _, f := range diffFields {
		oldVal := f.current(current)
		newVal := f.proposed(in)
		if oldVal != newVal {
			diff[f.name] = FieldChange{Old: oldVal, New: newVal}
		}
	}

	oldTags := current.TagList()
	newTags := in.Tags
	if newTags == nil {
		newTags = []string{}
	}
	if !equalTagSets(oldTags, newTags) {
		diff["tags"] = FieldChange{Old: oldTags, New: newTags}
	}

	return diff
}

// creationDiff records the initial value of every supplied field with a null
// old side, written as the single history entry for a create.
func creationDiff(in *validation.BuyerInput) map[string]FieldChange {
	diff := make(map[string]FieldChange)

	for _, f := range diffFields {
		newVal := f.proposed(in)
		if newVal == nil || newVal == "" {
			continue
		}
		diff[f.name] = FieldChange{Old: nil, New: newVal}
	}

	if len(in.Tags) > 0 {
		diff["tags"] = FieldChange{Old: nil, New: in.Tags}
	}

	return diff
}

func equalTagSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
