package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"catalog/domain"
	"catalog/usecase"

	"github.com/gin-gonic/gin"
)

// ProductHandler serves /api/products.
type ProductHandler struct {
	catalog *usecase.Catalog
	events  domain.EventLog
	logger  *slog.Logger
}

func NewProductHandler(catalog *usecase.Catalog, events domain.EventLog, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, events: events, logger: logger}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req usecase.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	resp, err := h.catalog.Create.Execute(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductHandler) Get(c *gin.Context) {
	resp, err := h.catalog.Get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns active products, or searches every product when q is given.
func (h *ProductHandler) List(c *gin.Context) {
	var (
		out []usecase.ProductResponse
		err error
	)
	if q, ok := c.GetQuery("q"); ok {
		out, err = h.catalog.Search.Execute(c.Request.Context(), q)
	} else {
		out, err = h.catalog.List.Execute(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req usecase.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	resp, err := h.catalog.Update.Execute(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete.Execute(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ChangePrice(c *gin.Context) {
	var req usecase.ChangePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	resp, err := h.catalog.ChangePrice.Execute(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req usecase.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	resp, err := h.catalog.AdjustStock.Execute(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) ChangeStatus(c *gin.Context) {
	var req usecase.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	resp, err := h.catalog.ChangeStatus.Execute(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Discount(c *gin.Context) {
	pct, err := strconv.Atoi(c.Query("percentage"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	quote, err := h.catalog.Discount.Execute(c.Request.Context(), c.Param("id"), pct)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Events lists what was recorded for a product, including after deletion.
func (h *ProductHandler) Events(c *gin.Context) {
	events, err := h.events.ForAggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
