package translator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string
}

const (
	LanguageFr = "fr"
	LanguageEn = "en"
)

// InitTranslator loads every <lang>.toml file of the folder into a fresh
// bundle. A missing folder leaves an empty bundle, so lookups fall back to
// message ids.
func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		if !isSupported(cfg.SupportedLanguages, strings.TrimSuffix(entry.Name(), ".toml")) {
			zap.L().Debug("skipping unsupported translation file", zap.String("file", entry.Name()))
			continue
		}

		if _, err := Translator.LoadMessageFile(filepath.Join(cfg.TranslationFolder, entry.Name())); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", entry.Name()), zap.Error(err))
		}
	}
}

// Localize translates messageID for lang, falling back to English. The
// message id itself is returned when no translation exists.
func Localize(lang, messageID string, data map[string]interface{}) string {
	if Translator == nil {
		return messageID
	}

	localizer := i18n.NewLocalizer(Translator, lang, LanguageEn)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		if errors.As(err, &notFound) && msg != "" {
			zap.L().Debug("translation falls back to default language", zap.String("lang", lang), zap.String("message_id", messageID))
			return msg
		}
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", messageID), zap.Error(err))
		return messageID
	}
	return msg
}

func isSupported(languages []string, lang string) bool {
	if len(languages) == 0 {
		return true
	}
	for _, supported := range languages {
		if supported == lang {
			return true
		}
	}
	return false
}
