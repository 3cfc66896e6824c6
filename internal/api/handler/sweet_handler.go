package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// SweetHandler handles HTTP requests for inventory operations.
type SweetHandler struct {
	service ports.SweetService
}

func NewSweetHandler(service ports.SweetService) *SweetHandler {
	return &SweetHandler{service: service}
}

// List handles GET /api/sweets: public inventory listing.
//
// @Summary      List all sweets
// @Tags         sweets
// @Produce      json
// @Success      200  {array}  sweetResponse
// @Router       /sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	sweets, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]sweetResponse, 0, len(sweets))
	for _, s := range sweets {
		resp = append(resp, toSweetResponse(&s))
	}
	return c.JSON(http.StatusOK, resp)
}

// Add handles POST /api/sweets/add: admin only.
//
// @Summary      Add a new sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sweetRequest  true  "Sweet details"
// @Success      200   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /sweets/add [post]
func (h *SweetHandler) Add(c echo.Context) error {
	in, err := bindSweetInput(c)
	if err != nil {
		return err
	}

	created, err := h.service.Add(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSweetResponse(created))
}

// Update handles PUT /api/sweets/update/:id: admin only.
//
// @Summary      Update a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Sweet id"
// @Param        body  body      sweetRequest  true  "Sweet details"
// @Success      200   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /sweets/update/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, err := bindSweetInput(c)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSweetResponse(updated))
}

// Delete handles DELETE /api/sweets/delete/:id: admin only.
//
// @Summary      Delete a sweet
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Sweet id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /sweets/delete/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Sweet deleted successfully"})
}

// Purchase handles POST /api/sweets/purchase/:id?quantity=N: any
// authenticated identity. Quantity defaults to 1.
//
// @Summary      Purchase a sweet
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true   "Sweet id"
// @Param        quantity  query     int  false  "Quantity to purchase (default 1)"
// @Success      200       {object}  sweetResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /sweets/purchase/{id} [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	quantity := 1
	if raw := c.QueryParam("quantity"); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be an integer")
		}
	}

	buyer, err := ctxBuyer(c)
	if err != nil {
		return err
	}

	sweet, err := h.service.Purchase(c.Request().Context(), id, quantity, buyer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

func bindSweetInput(c echo.Context) (ports.SweetInput, error) {
	var req sweetRequest
	if err := c.Bind(&req); err != nil {
		return ports.SweetInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.SweetInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ports.SweetInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}, nil
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

func toSweetResponse(s *domain.Sweet) sweetResponse {
	return sweetResponse{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Price:    s.Price,
		Stock:    s.Stock,
		ImageURL: s.ImageURL,
	}
}
