package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stackflow/models"
	"stackflow/utils"
)

// onboardingLastStep is the final step of the signup questionnaire.
const onboardingLastStep = 9

type OnboardingController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewOnboardingController(db *gorm.DB, logger *log.Logger) *OnboardingController {
	return &OnboardingController{DB: db, Logger: logger}
}

// GetOnboarding returns the caller's onboarding progress.
func (oc *OnboardingController) GetOnboarding(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"step": user.OnboardingStep,
		"done": user.OnboardingDone,
		"last": onboardingLastStep,
	}))
}

// AdvanceOnboarding records one questionnaire step. Profile-shaped steps
// carry fields that land on the user row; the rest just advance the cursor.
// Steps may be resubmitted but not skipped ahead.
func (oc *OnboardingController) AdvanceOnboarding(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Step     int     `json:"step" validate:"min=1,max=9"`
		Name     *string `json:"name" validate:"omitempty,max=120"`
		Timezone *string `json:"timezone" validate:"omitempty,max=60"`
		Language *string `json:"language" validate:"omitempty,max=10"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if user.OnboardingDone {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Onboarding already completed", nil)
	}
	if input.Step > user.OnboardingStep+1 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Steps must be completed in order", nil)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Timezone != nil {
		updates["timezone"] = *input.Timezone
	}
	if input.Language != nil {
		updates["language"] = *input.Language
	}
	newStep := user.OnboardingStep
	if input.Step > newStep {
		newStep = input.Step
		updates["onboarding_step"] = newStep
	}
	newDone := input.Step == onboardingLastStep
	if newDone {
		updates["onboarding_done"] = true
	}

	if len(updates) > 0 {
		if err := oc.DB.Model(user).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save progress", err)
		}
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"step": newStep,
		"done": newDone,
	}))
}

// SkipOnboarding marks the questionnaire as finished without answers.
func (oc *OnboardingController) SkipOnboarding(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := oc.DB.Model(user).Updates(map[string]interface{}{
		"onboarding_step": onboardingLastStep,
		"onboarding_done": true,
	}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to skip onboarding", err)
	}

	oc.Logger.Printf("user %d skipped onboarding", user.ID)
	return c.JSON(fiber.Map{"message": "Onboarding skipped"})
}
