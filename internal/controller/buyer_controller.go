package controller

import (
	"bytes"
	"encoding/csv"
	"errors"
	"log"
	"strconv"
	"time"

	"buyerlead_backend/internal/service"
	"buyerlead_backend/pkg/utils/jwt"
	"buyerlead_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var buyerService *service.BuyerService

func InitBuyerController(db *gorm.DB) {
	buyerService = service.NewBuyerService(db)
}

// UpdateBuyerInput carries the proposed field values plus the concurrency
// token the client last observed.
type UpdateBuyerInput struct {
	validation.BuyerInput
	UpdatedAt *time.Time `json:"updatedAt"`
}

type ImportInput struct {
	Records []validation.BuyerInput `json:"records"`
}

type StatusInput struct {
	Status string `json:"status"`
}

func CreateBuyer(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(validation.BuyerInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	buyer, err := buyerService.Create(claims.UserID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(buyer)
}

func GetBuyer(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	detail, err := buyerService.Get(c.Params("id"), claims.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(detail)
}

func UpdateBuyer(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(UpdateBuyerInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	changed, err := buyerService.Update(c.Params("id"), claims.UserID, &input.BuyerInput, input.UpdatedAt)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Buyer updated successfully"
	if !changed {
		message = "No changes detected"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"changed": changed,
		"message": message,
	})
}

func UpdateBuyerStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := buyerService.UpdateStatus(c.Params("id"), claims.UserID, input.Status); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated successfully",
	})
}

func DeleteBuyer(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	if err := buyerService.Delete(c.Params("id"), claims.UserID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Buyer deleted successfully",
	})
}

func ListBuyers(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	result, err := buyerService.List(claims.UserID, listParamsFromQuery(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

func ImportBuyers(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ImportInput)
	if err := c.BodyParser(input); err != nil || input.Records == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payload",
		})
	}

	result, err := buyerService.Import(claims.UserID, input.Records)
	if err != nil {
		if errors.Is(err, service.ErrTooManyRows) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Max " + strconv.Itoa(service.MaxImportRows) + " rows allowed",
			})
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"inserted": result.Inserted,
		"errors":   result.Errors,
	})
}

// exportColumns is the fixed CSV column set, in wire order.
var exportColumns = []string{
	"id", "fullName", "email", "phone", "city", "propertyType", "bhk",
	"purpose", "budgetMin", "budgetMax", "timeline", "source", "status",
	"tags", "ownerId", "updatedAt",
}

func ExportBuyers(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	params := listParamsFromQuery(c)
	buyers, err := buyerService.Export(claims.UserID, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return respondServiceError(c, err)
	}
	for _, b := range buyers {
		record := []string{
			b.ID,
			b.FullName,
			b.Email,
			b.Phone,
			b.City,
			b.PropertyType,
			b.BHK,
			b.Purpose,
			formatBudget(b.BudgetMin),
			formatBudget(b.BudgetMax),
			b.Timeline,
			b.Source,
			b.Status,
			string(b.Tags),
			b.OwnerID,
			b.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := w.Write(record); err != nil {
			return respondServiceError(c, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=buyers.csv`)
	return c.Send(buf.Bytes())
}

func listParamsFromQuery(c *fiber.Ctx) service.ListParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	return service.ListParams{
		Search:       c.Query("search"),
		City:         c.Query("city"),
		PropertyType: c.Query("propertyType"),
		Status:       c.Query("status"),
		Timeline:     c.Query("timeline"),
		Page:         page,
	}
}

func formatBudget(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// respondServiceError maps the service outcome taxonomy onto HTTP statuses.
// Unexpected errors are logged and surfaced as an opaque 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Buyer not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized for this buyer"})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Record has been modified by another user. Please refresh and try again.",
		})
	case errors.Is(err, service.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": verrs,
		})
	default:
		log.Printf("buyer controller error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
