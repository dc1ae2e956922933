package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/makerlink/server/internal/models"
	"github.com/makerlink/server/internal/services"
)

type ListingHandler struct {
	service *services.ListingService
}

func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// SetupServiceRoutes registers the service-listing CRUD surface.
// mutate guards create/update/delete (provider auth).
func SetupServiceRoutes(router fiber.Router, service *services.ListingService, mutate fiber.Handler) {
	h := NewListingHandler(service)

	router.Get("/", h.ListServices)
	router.Get("/:id", h.GetService)
	router.Post("/", mutate, h.CreateService)
	router.Put("/:id", mutate, h.UpdateService)
	router.Delete("/:id", mutate, h.DeleteService)
}

// SetupResourceRoutes registers the resource-listing CRUD surface.
func SetupResourceRoutes(router fiber.Router, service *services.ListingService, mutate fiber.Handler) {
	h := NewListingHandler(service)

	router.Get("/:id", h.GetResource)
	router.Post("/", mutate, h.CreateResource)
	router.Put("/:id", mutate, h.UpdateResource)
	router.Delete("/:id", mutate, h.DeleteResource)
}

// ListServices godoc
// @Summary List service listings
// @Tags services
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param type query string false "Filter by service type"
// @Param q query string false "Filter by keyword"
// @Success 200 {object} services.ServiceListResponse
// @Router /services [get]
func (h *ListingHandler) ListServices(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := services.ListingFilter{
		Page:  page,
		Limit: limit,
		Type:  c.Query("type"),
		Query: c.Query("q"),
	}

	resp, err := h.service.ListServices(c.UserContext(), &filter)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *ListingHandler) GetService(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid service ID"})
	}

	svc, err := h.service.GetServiceByID(c.UserContext(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(svc)
}

func (h *ListingHandler) CreateService(c *fiber.Ctx) error {
	var svc models.Service
	if err := c.BodyParser(&svc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	if err := h.service.CreateService(c.UserContext(), &svc); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(svc)
}

func (h *ListingHandler) UpdateService(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid service ID"})
	}

	svc, err := h.service.GetServiceByID(c.UserContext(), uint(id))
	if err != nil {
		return err
	}
	if err := c.BodyParser(svc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	svc.ID = uint(id)

	if err := h.service.UpdateService(c.UserContext(), svc); err != nil {
		return err
	}
	return c.JSON(svc)
}

func (h *ListingHandler) DeleteService(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid service ID"})
	}

	if err := h.service.DeleteService(c.UserContext(), uint(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ListingHandler) GetResource(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid resource ID"})
	}

	res, err := h.service.GetResourceByID(c.UserContext(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *ListingHandler) CreateResource(c *fiber.Ctx) error {
	var res models.Resource
	if err := c.BodyParser(&res); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	if err := h.service.CreateResource(c.UserContext(), &res); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *ListingHandler) UpdateResource(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid resource ID"})
	}

	res, err := h.service.GetResourceByID(c.UserContext(), uint(id))
	if err != nil {
		return err
	}
	if err := c.BodyParser(res); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	res.ID = uint(id)

	if err := h.service.UpdateResource(c.UserContext(), res); err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *ListingHandler) DeleteResource(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid resource ID"})
	}

	if err := h.service.DeleteResource(c.UserContext(), uint(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
