package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type BuyerStatus string

const (
	BuyerStatusNew         BuyerStatus = "New"
	BuyerStatusQualified   BuyerStatus = "Qualified"
	BuyerStatusContacted   BuyerStatus = "Contacted"
	BuyerStatusVisited     BuyerStatus = "Visited"
	BuyerStatusNegotiation BuyerStatus = "Negotiation"
	BuyerStatusConverted   BuyerStatus = "Converted"
	BuyerStatusDropped     BuyerStatus = "Dropped"
)

// BuyerStatuses lists every allowed status value, in lifecycle order.
var BuyerStatuses = []BuyerStatus{
	BuyerStatusNew,
	BuyerStatusQualified,
	BuyerStatusContacted,
	BuyerStatusVisited,
	BuyerStatusNegotiation,
	BuyerStatusConverted,
	BuyerStatusDropped,
}

func ValidBuyerStatus(s string) bool {
	for _, v := range BuyerStatuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

const (
	PropertyTypeApartment = "Apartment"
	PropertyTypeVilla     = "Villa"
	PropertyTypePlot      = "Plot"
	PropertyTypeOffice    = "Office"
	PropertyTypeRetail    = "Retail"
)

// RequiresBHK reports whether the property type is residential and therefore
// needs a BHK value.
func RequiresBHK(propertyType string) bool {
	return propertyType == PropertyTypeApartment || propertyType == PropertyTypeVilla
}

type Buyer struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	FullName     string         `json:"fullName" gorm:"not null"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone" gorm:"not null;index"`
	City         string         `json:"city" gorm:"not null"`
	PropertyType string         `json:"propertyType" gorm:"not null"`
	BHK          string         `json:"bhk"`
	Purpose      string         `json:"purpose" gorm:"not null"`
	BudgetMin    *int           `json:"budgetMin"`
	BudgetMax    *int           `json:"budgetMax"`
	Timeline     string         `json:"timeline" gorm:"not null"`
	Source       string         `json:"source" gorm:"not null"`
	Status       string         `json:"status" gorm:"not null;default:'New'"`
	Notes        string         `json:"notes" gorm:"type:text"`
	Tags         datatypes.JSON `json:"tags"`
	OwnerID      string         `json:"ownerId" gorm:"index;not null"`

	// UpdatedAt doubles as the optimistic-concurrency token, so the service
	// sets it explicitly instead of letting GORM touch it.
	UpdatedAt time.Time `json:"updatedAt" gorm:"index;autoUpdateTime:false"`
}

// TagList decodes the stored tags column. A missing or malformed column
// yields an empty list.
func (b *Buyer) TagList() []string {
	if len(b.Tags) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(b.Tags, &tags); err != nil {
		return []string{}
	}
	return tags
}

// EncodeTags serializes a tag list for the tags column. nil is stored as an
// empty list so reads never have to deal with SQL NULL.
func EncodeTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	raw, _ := json.Marshal(tags)
	return datatypes.JSON(raw)
}
