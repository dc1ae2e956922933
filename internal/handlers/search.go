package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/makerlink/server/internal/services"
)

type SearchHandler struct {
	service *services.SearchService
}

func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func SetupSearchRoutes(router fiber.Router, service *services.SearchService) {
	h := NewSearchHandler(service)

	router.Get("/", h.Search)
}

// Search godoc
// @Summary Multilingual search over resources and services
// @Tags search
// @Accept json
// @Produce json
// @Param q query string true "Search query"
// @Param lang query string false "Language code, auto-detected by default"
// @Param type query string false "all | resource | service"
// @Param limit query int false "Max results per table"
// @Success 200 {object} services.SearchResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	params := services.SearchParams{
		Query:          c.Query("q"),
		Lang:           c.Query("lang", "auto"),
		Type:           c.Query("type", "all"),
		Limit:          limit,
		AcceptLanguage: c.Get("Accept-Language"),
	}

	resp, err := h.service.Search(c.UserContext(), params)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
