package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/makerlink/server/internal/services"
)

type MatchHandler struct {
	service *services.MatchService
}

func NewMatchHandler(service *services.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

func SetupMatchRoutes(router fiber.Router, service *services.MatchService) {
	h := NewMatchHandler(service)

	router.Post("/", h.Match)
}

// Match godoc
// @Summary Match engineers to a project request
// @Tags match
// @Accept json
// @Produce json
// @Param request body services.MatchRequest true "Match request"
// @Success 200 {object} services.MatchResponse
// @Router /match [post]
func (h *MatchHandler) Match(c *fiber.Ctx) error {
	var req services.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	// 인증된 호출자만 AI 추천을 받는다 (미인증은 정상 응답에서 null)
	authorized := c.Locals("userID") != nil

	resp, err := h.service.Match(c.UserContext(), &req, authorized)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
