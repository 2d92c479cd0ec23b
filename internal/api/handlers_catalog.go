package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/skinderma/internal/services"
)

type symptomResponse struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type conditionResponse struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Symptoms  []string `json:"symptoms"`
	Treatment []string `json:"treatment"`
}

type diagnoseRequest struct {
	Symptoms []string `json:"symptoms"`
}

type diagnoseResponse struct {
	Outcome    services.Outcome `json:"outcome"`
	Condition  string           `json:"condition,omitempty"`
	Label      string           `json:"label,omitempty"`
	Treatment  []string         `json:"treatment,omitempty"`
	Score      int              `json:"score"`
	Selected   []string         `json:"selected"`
	ShareToken string           `json:"share_token,omitempty"`
}

func (handler *Handler) GetSymptoms(c *fiber.Ctx) error {
	messages := currentMessages(c)
	symptoms := handler.diagnosis.Catalog().Symptoms()
	response := make([]symptomResponse, 0, len(symptoms))
	for _, symptom := range symptoms {
		response = append(response, symptomResponse{
			Name:        symptom.Name,
			Label:       localizedSymptomName(messages, symptom.Name),
			Description: symptom.Description,
		})
	}
	return c.JSON(response)
}

func (handler *Handler) GetConditions(c *fiber.Ctx) error {
	messages := currentMessages(c)
	conditions := handler.diagnosis.Catalog().Conditions()
	response := make([]conditionResponse, 0, len(conditions))
	for _, condition := range conditions {
		names := make([]string, 0, len(condition.Symptoms))
		for _, symptom := range condition.Symptoms {
			names = append(names, symptom.Name)
		}
		response = append(response, conditionResponse{
			Name:      condition.Name,
			Label:     localizedConditionName(messages, condition.Name),
			Symptoms:  names,
			Treatment: condition.Treatment,
		})
	}
	return c.JSON(response)
}

func (handler *Handler) Diagnose(c *fiber.Ctx) error {
	payload := diagnoseRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	diagnosis := handler.diagnosis.DiagnoseNames(payload.Symptoms)
	handler.logDiagnosis(diagnosis, "api")
	if diagnosis.Outcome == services.OutcomeEmptySelection {
		return apiError(c, fiber.StatusBadRequest, errSelectSymptom)
	}

	token, err := services.BuildShareToken(handler.secretKey, diagnosis.Selected, handler.shareTTL, handler.now())
	if err != nil {
		handler.logger.WithError(err).Error("build share token")
		return apiError(c, fiber.StatusInternalServerError, "failed to build share token")
	}

	response := diagnoseResponse{
		Outcome:    diagnosis.Outcome,
		Score:      diagnosis.Score,
		Selected:   diagnosis.Selected,
		ShareToken: token,
	}
	if diagnosis.Matched() {
		response.Condition = diagnosis.Condition.Name
		response.Label = localizedConditionName(currentMessages(c), diagnosis.Condition.Name)
		response.Treatment = diagnosis.Condition.Treatment
	}
	return c.JSON(response)
}
