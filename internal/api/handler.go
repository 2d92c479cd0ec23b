package api

import (
	"errors"
	"html/template"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/skinderma/internal/i18n"
	"github.com/terraincognita07/skinderma/internal/services"
	"github.com/terraincognita07/skinderma/internal/templates"
)

const (
	languageCookieName = "skinderma_lang"
	flashCookieName    = "skinderma_flash"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
	flashCookiePurpose = "flash"
)

type Handler struct {
	diagnosis    *services.DiagnosisService
	i18n         *i18n.Manager
	logger       *logrus.Logger
	secretKey    []byte
	cookieSecure bool
	shareTTL     time.Duration
	cookies      *secureCookieCodec
	templates    map[string]*template.Template
	now          func() time.Time
}

type Options struct {
	Diagnosis    *services.DiagnosisService
	I18n         *i18n.Manager
	Logger       *logrus.Logger
	SecretKey    string
	CookieSecure bool
	ShareTTL     time.Duration
	// TemplateDir overrides the templates embedded in the binary.
	TemplateDir string
}

func NewHandler(options Options) (*Handler, error) {
	if options.Diagnosis == nil {
		return nil, errors.New("diagnosis service is required")
	}
	if options.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if strings.TrimSpace(options.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Logger == nil {
		options.Logger = logrus.StandardLogger()
	}
	if options.ShareTTL <= 0 {
		options.ShareTTL = services.DefaultShareTokenTTL
	}

	cookies, err := newSecureCookieCodec([]byte(options.SecretKey))
	if err != nil {
		return nil, err
	}

	var templateFiles fs.FS = templates.Files
	if strings.TrimSpace(options.TemplateDir) != "" {
		templateFiles = os.DirFS(options.TemplateDir)
	}
	parsed, err := parsePageTemplates(templateFiles, newTemplateFuncMap(), pageTemplates)
	if err != nil {
		return nil, err
	}

	return &Handler{
		diagnosis:    options.Diagnosis,
		i18n:         options.I18n,
		logger:       options.Logger,
		secretKey:    []byte(options.SecretKey),
		cookieSecure: options.CookieSecure,
		shareTTL:     options.ShareTTL,
		cookies:      cookies,
		templates:    parsed,
		now:          time.Now,
	}, nil
}
