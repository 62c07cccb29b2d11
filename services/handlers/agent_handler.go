package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/NarendraTezu/AI-Agent-Assignment/dto"
	"github.com/NarendraTezu/AI-Agent-Assignment/shared"
)

type AgentHandler struct {
	rateLimitSvc RateLimitServiceInterface
	priceSvc     PriceServiceInterface
	translateSvc TranslateServiceInterface
}

func NewAgentHandler(rateLimitSvc RateLimitServiceInterface, priceSvc PriceServiceInterface, translateSvc TranslateServiceInterface) *AgentHandler {
	return &AgentHandler{
		rateLimitSvc: rateLimitSvc,
		priceSvc:     priceSvc,
		translateSvc: translateSvc,
	}
}

// @Summary Agent
// @Description Dispatches an agent request to the price lookup or the translator, gated by the per-user rate limiter
// @Tags agent
// @Accept  json
// @Produce json
// @Param agentRequest body dto.AgentRequest true "Agent request"
// @Success 200 {object} shared.Response
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 429 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /agent [post]
func (h *AgentHandler) Dispatch(c *fiber.Ctx) error {
	var req dto.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	// Gate before touching either upstream. A store outage propagates as 503
	// rather than letting requests through unmetered.
	allowed, info, err := h.rateLimitSvc.Allow(c.Context(), req.UserID)
	if err != nil {
		return err
	}

	addRateLimitHeaders(c, info)

	if !allowed {
		return shared.NewRateLimitError("Rate limit exceeded. Please retry after the current window.", info)
	}

	switch req.Action {
	case shared.ActionPrice:
		price, err := h.priceSvc.GetPrice(c.Context())
		if err != nil {
			return err
		}
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", price)

	case shared.ActionTranslate:
		translation, err := h.translateSvc.Translate(c.Context(), req.UserID, req.Text, req.TargetLanguage)
		if err != nil {
			return err
		}
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", translation)

	default:
		return shared.NewValidationError(fmt.Sprintf("Unknown action: %q", req.Action), nil)
	}
}

func addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}

	if info.RetryAfter > 0 {
		c.Set("Retry-After", strconv.Itoa(info.RetryAfter))
	}
}
