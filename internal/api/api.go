package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"discount-service/internal/catalog"
	"discount-service/internal/entity"
	"discount-service/internal/repository"
	"discount-service/internal/service"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout prices a basket --> POST /checkout
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	req := entity.CheckoutRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.CatalogName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "catalog is required"})
	}
	if key := c.Request().Header.Get("Idempotent-Key"); key != "" {
		req.IdempotentKey = key
	}

	receipt, err := h.checkoutService.Checkout(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, receipt)
}

// GetReceipt returns a stored receipt --> GET /receipts/:id
func (h *CheckoutHandler) GetReceipt(c echo.Context) error {
	receipt, err := h.checkoutService.GetReceipt(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, receipt)
}

// VoidReceipt deletes a stored receipt --> DELETE /receipts/:id
func (h *CheckoutHandler) VoidReceipt(c echo.Context) error {
	if err := h.checkoutService.VoidReceipt(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetCatalog lists a price list --> GET /catalogs/:name
func (h *CatalogHandler) GetCatalog(c echo.Context) error {
	name := c.Param("name")
	cat, err := h.catalogService.Resolve(c.Request().Context(), name)
	if err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}

	lister, ok := cat.(catalog.Lister)
	if !ok {
		return c.JSON(http.StatusOK, map[string]string{"catalog": cat.Name()})
	}
	return c.JSON(http.StatusOK, lister.Entries())
}

// UpsertPrice stores one price --> PUT /catalogs/:name/prices
func (h *CatalogHandler) UpsertPrice(c echo.Context) error {
	entry := entity.PriceEntry{}
	if err := c.Bind(&entry); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	entry.CatalogName = c.Param("name")

	if err := h.catalogService.UpsertPrice(c.Request().Context(), &entry); err != nil {
		return c.JSON(statusFor(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, entry)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownCatalog), errors.Is(err, repository.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
