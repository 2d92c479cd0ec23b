package api

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/skinderma/internal/services"
)

const errSelectSymptom = "select at least one symptom"

type symptomOption struct {
	Name  string
	Label string
}

func (handler *Handler) ShowHome(c *fiber.Ctx) error {
	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)

	symptoms := handler.diagnosis.Catalog().Symptoms()
	options := make([]symptomOption, 0, len(symptoms))
	for _, symptom := range symptoms {
		options = append(options, symptomOption{
			Name:  symptom.Name,
			Label: localizedSymptomName(messages, symptom.Name),
		})
	}

	return handler.render(c, "home", fiber.Map{
		"Symptoms":   options,
		"ErrorKey":   flash.Error,
		"HasError":   flash.Error != "",
		"FormAction": "/diagnose",
	})
}

func (handler *Handler) SubmitDiagnosis(c *fiber.Ctx) error {
	names := formValues(c, "symptoms")
	diagnosis := handler.diagnosis.DiagnoseNames(names)
	handler.logDiagnosis(diagnosis, "form")

	if diagnosis.Outcome == services.OutcomeEmptySelection {
		handler.setFlashCookie(c, FlashPayload{Error: outcomeErrorTranslationKey(errSelectSymptom)})
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	token, err := services.BuildShareToken(handler.secretKey, diagnosis.Selected, handler.shareTTL, handler.now())
	if err != nil {
		handler.logger.WithError(err).Error("build share token")
		handler.setFlashCookie(c, FlashPayload{Error: "error.generic"})
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect(resultPath(token), fiber.StatusSeeOther)
}

func (handler *Handler) ShowResult(c *fiber.Ctx) error {
	rawToken, err := url.PathUnescape(c.Params("token"))
	if err != nil {
		rawToken = ""
	}

	claims, err := services.ParseShareToken(handler.secretKey, rawToken, handler.now())
	if err != nil {
		key := outcomeErrorTranslationKey("invalid share token")
		if errors.Is(err, services.ErrShareTokenExpired) {
			key = outcomeErrorTranslationKey("expired share token")
		}
		handler.setFlashCookie(c, FlashPayload{Error: key})
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	diagnosis := handler.diagnosis.DiagnoseNames(claims.Symptoms)
	if diagnosis.Outcome == services.OutcomeEmptySelection {
		handler.setFlashCookie(c, FlashPayload{Error: outcomeErrorTranslationKey(errSelectSymptom)})
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	messages := currentMessages(c)
	selectedLabels := make([]string, 0, len(diagnosis.Selected))
	for _, name := range diagnosis.Selected {
		selectedLabels = append(selectedLabels, localizedSymptomName(messages, name))
	}

	data := fiber.Map{
		"Matched":        diagnosis.Matched(),
		"SelectedLabels": selectedLabels,
		"SelectedCount":  len(diagnosis.Selected),
		"SharePath":      c.Path(),
	}
	if diagnosis.Matched() {
		data["ConditionName"] = diagnosis.Condition.Name
		data["Treatment"] = diagnosis.Condition.Treatment
		data["Score"] = diagnosis.Score
	}
	return handler.render(c, "result", data)
}

func (handler *Handler) logDiagnosis(diagnosis services.Diagnosis, source string) {
	fields := logrus.Fields{
		"source":   source,
		"outcome":  diagnosis.Outcome,
		"selected": len(diagnosis.Selected),
	}
	if diagnosis.Matched() {
		fields["condition"] = diagnosis.Condition.Name
		fields["score"] = diagnosis.Score
	}
	handler.logger.WithFields(fields).Info("diagnosis computed")
}

func resultPath(token string) string {
	return "/result/" + url.PathEscape(token)
}

func formValues(c *fiber.Ctx, key string) []string {
	raw := c.Request().PostArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, value := range raw {
		trimmed := strings.TrimSpace(string(value))
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
