package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/dto"
	"github.com/opsdesk/helpdesk/internal/classify"
	apperrors "github.com/opsdesk/helpdesk/pkg/util"
)

// ClassifyHandler exposes the suggestion endpoint. Upstream failures never
// surface here; the adapter already degraded them to null suggestions.
type ClassifyHandler struct {
	classifier *classify.Classifier
}

// NewClassifyHandler constructs handler.
func NewClassifyHandler(classifier *classify.Classifier) *ClassifyHandler {
	return &ClassifyHandler{classifier: classifier}
}

// Classify POST /api/tickets/classify.
func (h *ClassifyHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("description required", map[string]any{"description": "must not be empty"})
	}

	suggestion := h.classifier.Classify(c.UserContext(), req.Description)

	resp := dto.ClassifyResponse{}
	if suggestion.Category != nil {
		category := string(*suggestion.Category)
		resp.SuggestedCategory = &category
	}
	if suggestion.Priority != nil {
		priority := string(*suggestion.Priority)
		resp.SuggestedPriority = &priority
	}
	return c.JSON(fiber.Map{"data": resp})
}
