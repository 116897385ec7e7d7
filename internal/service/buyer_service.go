package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"buyerlead_backend/internal/model"
	"buyerlead_backend/pkg/utils/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PageSize      = 10
	MaxImportRows = 200
	HistoryLimit  = 5
)

// BuyerService owns every buyer operation: creation with an initial audit
// entry, the optimistic-concurrency update path, status changes, deletion,
// filtered listing and the import/export batch paths.
type BuyerService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBuyerService(db *gorm.DB) *BuyerService {
	return &BuyerService{db: db, now: time.Now}
}

// timestamp returns the current time at the precision the concurrency token
// survives a JSON round trip with.
func (s *BuyerService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// BuyerView is a buyer as seen by a particular principal.
type BuyerView struct {
	model.Buyer
	CanEdit bool `json:"canEdit"`
}

// BuyerDetail is the single-record read: the buyer, whether the requester may
// edit it, and its most recent history entries.
type BuyerDetail struct {
	Buyer   BuyerView            `json:"buyer"`
	History []model.BuyerHistory `json:"history"`
}

type ListParams struct {
	Search       string
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Page         int
}

type ListResult struct {
	Items []BuyerView `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Inserted int        `json:"inserted"`
	Errors   []RowError `json:"errors"`
}

// Create validates the payload, persists the new buyer and writes its
// creation history entry in one transaction.
func (s *BuyerService) Create(principalID string, in *validation.BuyerInput) (*model.Buyer, error) {
	if principalID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validation.ValidateBuyer(in); err != nil {
		return nil, err
	}

	now := s.timestamp()
	buyer := buyerFromInput(in)
	buyer.ID = uuid.New().String()
	buyer.OwnerID = principalID
	buyer.UpdatedAt = now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(buyer).Error; err != nil {
			return fmt.Errorf("create buyer: %w", err)
		}
		return appendHistory(tx, buyer.ID, principalID, now, creationDiff(in))
	})
	if err != nil {
		return nil, err
	}
	return buyer, nil
}

// Get returns one buyer with its recent history. Any authenticated principal
// may read; CanEdit reports whether this one may mutate.
func (s *BuyerService) Get(id, principalID string) (*BuyerDetail, error) {
	if principalID == "" {
		return nil, ErrUnauthenticated
	}

	var buyer model.Buyer
	if err := s.db.First(&buyer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch buyer: %w", err)
	}

	history := []model.BuyerHistory{}
	if err := s.db.Where("buyer_id = ?", id).
		Order("changed_at DESC").
		Limit(HistoryLimit).
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	return &BuyerDetail{
		Buyer:   BuyerView{Buyer: buyer, CanEdit: buyer.OwnerID == principalID},
		History: history,
	}, nil
}

// Update runs the full edit path: existence, ownership, concurrency token,
// validation, field diff, then a compare-and-swap write plus an audit entry,
// all inside one transaction. It returns whether anything actually changed.
//
// The token check is an exact match, not "newer than": any mismatch means
// another writer intervened and the caller must refetch.
func (s *BuyerService) Update(id, principalID string, in *validation.BuyerInput, token *time.Time) (bool, error) {
	if principalID == "" {
		return false, ErrUnauthenticated
	}

	changed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current model.Buyer
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch buyer: %w", err)
		}

		if current.OwnerID != principalID {
			return ErrForbidden
		}

		if token != nil && token.UnixMilli() != current.UpdatedAt.UnixMilli() {
			return ErrConflict
		}

		if err := validation.ValidateBuyer(in); err != nil {
			return err
		}

		diff := computeDiff(&current, in)
		if len(diff) == 0 {
			return nil
		}

		now := s.timestamp()
		res := tx.Model(&model.Buyer{}).
			Where("id = ? AND updated_at = ?", id, current.UpdatedAt).
			Updates(updateColumns(in, now))
		if res.Error != nil {
			return fmt.Errorf("update buyer: %w", res.Error)
		}
		// Zero rows means another writer slipped in after our read.
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		if err := appendHistory(tx, id, principalID, now, diff); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// UpdateStatus is the narrow update variant: only the status column moves,
// with the same ownership gate but no diff or full validation pass.
func (s *BuyerService) UpdateStatus(id, principalID, status string) error {
	if principalID == "" {
		return ErrUnauthenticated
	}
	if !model.ValidBuyerStatus(status) {
		return validation.Errors{"status": "must be one of: " + joinStatuses()}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var current model.Buyer
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch buyer: %w", err)
		}

		if current.OwnerID != principalID {
			return ErrForbidden
		}

		res := tx.Model(&model.Buyer{}).
			Where("id = ? AND updated_at = ?", id, current.UpdatedAt).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": s.timestamp(),
			})
		if res.Error != nil {
			return fmt.Errorf("update status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	})
}

// Delete removes the buyer after the usual gates. History rows stay behind
// as an orphan-tolerant audit trail.
func (s *BuyerService) Delete(id, principalID string) error {
	if principalID == "" {
		return ErrUnauthenticated
	}

	var current model.Buyer
	if err := s.db.First(&current, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch buyer: %w", err)
	}

	if current.OwnerID != principalID {
		return ErrForbidden
	}

	if err := s.db.Delete(&model.Buyer{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete buyer: %w", err)
	}
	return nil
}

// List returns one page of buyers matching the filter set, newest edits
// first, plus the total count over the same filters.
func (s *BuyerService) List(principalID string, p ListParams) (*ListResult, error) {
	if principalID == "" {
		return nil, ErrUnauthenticated
	}
	if p.Page < 1 {
		p.Page = 1
	}

	var total int64
	if err := s.applyFilters(s.db.Model(&model.Buyer{}), p).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count buyers: %w", err)
	}

	var buyers []model.Buyer
	err := s.applyFilters(s.db.Model(&model.Buyer{}), p).
		Order("updated_at DESC, id DESC").
		Limit(PageSize).
		Offset((p.Page - 1) * PageSize).
		Find(&buyers).Error
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}

	items := make([]BuyerView, 0, len(buyers))
	for _, b := range buyers {
		items = append(items, BuyerView{Buyer: b, CanEdit: b.OwnerID == principalID})
	}

	return &ListResult{Items: items, Total: total, Page: p.Page, Limit: PageSize}, nil
}

// Import validates each row independently, collecting 1-based row errors, and
// inserts every valid row in a single transaction owned by the importer.
// Imported rows write no history entries.
func (s *BuyerService) Import(principalID string, rows []validation.BuyerInput) (*ImportResult, error) {
	if principalID == "" {
		return nil, ErrUnauthenticated
	}
	if len(rows) > MaxImportRows {
		return nil, ErrTooManyRows
	}

	result := &ImportResult{Errors: []RowError{}}
	valid := make([]*model.Buyer, 0, len(rows))
	now := s.timestamp()

	for i := range rows {
		in := rows[i]
		if err := validation.ValidateBuyer(&in); err != nil {
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				result.Errors = append(result.Errors, RowError{Row: i + 1, Message: verrs.Error()})
				continue
			}
			return nil, err
		}
		buyer := buyerFromInput(&in)
		buyer.ID = uuid.New().String()
		buyer.OwnerID = principalID
		buyer.UpdatedAt = now
		valid = append(valid, buyer)
	}

	if len(valid) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			for _, buyer := range valid {
				if err := tx.Create(buyer).Error; err != nil {
					return fmt.Errorf("import buyer: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	result.Inserted = len(valid)
	return result, nil
}

// Export returns every buyer matching the filter set, newest edits first.
// Same filters as List, no pagination, no side effects.
func (s *BuyerService) Export(principalID string, p ListParams) ([]model.Buyer, error) {
	if principalID == "" {
		return nil, ErrUnauthenticated
	}

	var buyers []model.Buyer
	err := s.applyFilters(s.db.Model(&model.Buyer{}), p).
		Order("updated_at DESC, id DESC").
		Find(&buyers).Error
	if err != nil {
		return nil, fmt.Errorf("export buyers: %w", err)
	}
	return buyers, nil
}

func (s *BuyerService) applyFilters(q *gorm.DB, p ListParams) *gorm.DB {
	if p.Search != "" {
		like := "%" + strings.ToLower(p.Search) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	if p.City != "" {
		q = q.Where("city = ?", p.City)
	}
	if p.PropertyType != "" {
		q = q.Where("property_type = ?", p.PropertyType)
	}
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	if p.Timeline != "" {
		q = q.Where("timeline = ?", p.Timeline)
	}
	return q
}

func buyerFromInput(in *validation.BuyerInput) *model.Buyer {
	return &model.Buyer{
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		City:         in.City,
		PropertyType: in.PropertyType,
		BHK:          in.BHK,
		Purpose:      in.Purpose,
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		Timeline:     in.Timeline,
		Source:       in.Source,
		Status:       in.Status,
		Notes:        in.Notes,
		Tags:         model.EncodeTags(in.Tags),
	}
}

func updateColumns(in *validation.BuyerInput, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"full_name":     in.FullName,
		"email":         in.Email,
		"phone":         in.Phone,
		"city":          in.City,
		"property_type": in.PropertyType,
		"bhk":           in.BHK,
		"purpose":       in.Purpose,
		"budget_min":    in.BudgetMin,
		"budget_max":    in.BudgetMax,
		"timeline":      in.Timeline,
		"source":        in.Source,
		"status":        in.Status,
		"notes":         in.Notes,
		"tags":          model.EncodeTags(in.Tags),
		"updated_at":    now,
	}
}

func appendHistory(tx *gorm.DB, buyerID, principalID string, at time.Time, diff map[string]FieldChange) error {
	raw, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("encode diff: %w", err)
	}
	entry := &model.BuyerHistory{
		ID:        uuid.New().String(),
		BuyerID:   buyerID,
		ChangedBy: principalID,
		ChangedAt: at,
		Diff:      raw,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func joinStatuses() string {
	parts := make([]string, len(model.BuyerStatuses))
	for i, st := range model.BuyerStatuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ", ")
}
