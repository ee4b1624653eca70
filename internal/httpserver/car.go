package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"cardealer/internal/domain"
	catalogsvc "cardealer/internal/service/catalog"
	imagesvc "cardealer/internal/service/image"
	"github.com/gin-gonic/gin"
)

func (h *handlers) listCars(c *gin.Context) {
	cars, err := h.deps.CatalogSvc.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list cars", err)
		return
	}
	if cars == nil {
		cars = []domain.Car{}
	}
	c.JSON(http.StatusOK, cars)
}

func (h *handlers) searchCars(c *gin.Context) {
	result, err := h.deps.CatalogSvc.Search(c.Request.Context(), catalogsvc.Criteria{
		BodyType:   c.Query("bodyType"),
		Fuel:       c.Query("fuel"),
		Make:       c.Query("make"),
		Model:      c.Query("model"),
		MaxPrice:   c.Query("maxPrice"),
		MinYear:    c.Query("minYear"),
		MaxMileage: c.Query("maxMileage"),
		SortBy:     c.Query("sortBy"),
		PageIndex:  c.Query("pageIndex"),
		PageSize:   c.Query("pageSize"),
	})
	if err != nil {
		h.serverError(c, "search cars", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) carFacets(c *gin.Context) {
	facets, err := h.deps.CatalogSvc.Facets(c.Request.Context())
	if err != nil {
		h.serverError(c, "car facets", err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

func (h *handlers) getCar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	car, err := h.deps.CatalogSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		h.serverError(c, "get car", err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *handlers) createCar(c *gin.Context) {
	var req catalogsvc.CreateCarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	car, err := h.deps.CatalogSvc.CreateCar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *handlers) updateCar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalogsvc.UpdateCarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	car, err := h.deps.CatalogSvc.UpdateCar(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *handlers) deleteCar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deps.CatalogSvc.DeleteCar(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		case errors.Is(err, domain.ErrInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Car is used in orders"})
		default:
			h.serverError(c, "delete car", err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) fillCarImages(c *gin.Context) {
	report, err := h.deps.ImageSvc.FillMissing(c.Request.Context())
	if err != nil {
		h.serverError(c, "fill images", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) refreshCarImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	car, err := h.deps.ImageSvc.Refresh(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		case errors.Is(err, imagesvc.ErrNoImage):
			c.JSON(http.StatusNotFound, gin.H{"error": "No image found"})
		default:
			h.serverError(c, "refresh image", err)
		}
		return
	}
	c.JSON(http.StatusOK, car)
}

// pathID parses the :id path segment; a non-numeric id answers 400.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}
