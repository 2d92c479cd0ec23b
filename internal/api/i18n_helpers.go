package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

var outcomeErrorKeys = map[string]string{
	"select at least one symptom": "error.select_symptom",
	"invalid share token":         "error.invalid_share_token",
	"expired share token":         "error.expired_share_token",
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

// catalogSlug turns "Athlete's Foot" into "athlete_s_foot" for message keys.
func catalogSlug(name string) string {
	var builder strings.Builder
	pendingSeparator := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSeparator = builder.Len() > 0
			continue
		}
		if pendingSeparator {
			builder.WriteByte('_')
			pendingSeparator = false
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func localizedCatalogName(messages map[string]string, prefix string, name string) string {
	key := prefix + "." + catalogSlug(name)
	if translated := translateMessage(messages, key); translated != key {
		return translated
	}
	return name
}

func localizedSymptomName(messages map[string]string, name string) string {
	return localizedCatalogName(messages, "symptom", name)
}

func localizedConditionName(messages map[string]string, name string) string {
	return localizedCatalogName(messages, "condition", name)
}

func outcomeErrorTranslationKey(message string) string {
	return outcomeErrorKeys[strings.ToLower(strings.TrimSpace(message))]
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	messages := currentMessages(c)
	if len(messages) == 0 {
		messages = handler.i18n.Messages(handler.i18n.DefaultLanguage())
	}
	if _, ok := data["Messages"]; !ok {
		data["Messages"] = messages
	}

	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}
	if _, ok := data["Languages"]; !ok {
		data["Languages"] = handler.i18n.SupportedLanguages()
	}
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = c.OriginalURL()
	}
	if _, ok := data["Year"]; !ok {
		data["Year"] = handler.now().Year()
	}
	return data
}

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}

	if cookieLanguage != language {
		handler.setLanguageCookie(c, language)
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	language := handler.i18n.NormalizeLanguage(c.Params("lang"))
	handler.setLanguageCookie(c, language)
	return c.Redirect(sanitizeRedirectPath(c.Query("next"), "/"), fiber.StatusSeeOther)
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    handler.i18n.NormalizeLanguage(language),
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().AddDate(1, 0, 0),
	})
}
