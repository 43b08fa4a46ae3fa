package i18n

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/currency"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/kk"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
)

const (
	LocaleEnglish = "en"
	LocaleRussian = "ru"
	LocaleKazakh  = "kk"

	DefaultLocale = LocaleKazakh
)

// Supported lists the locales the gateway ships messages for.
var Supported = []string{LocaleKazakh, LocaleRussian, LocaleEnglish}

// Locale renders messages for one language. It is resolved per request and
// passed explicitly to whoever renders user-facing text.
type Locale struct {
	trans ut.Translator
}

func (l Locale) Code() string {
	return l.trans.Locale()
}

// T returns the message for key, or the key itself when no message exists.
func (l Locale) T(key string, params ...string) string {
	msg, err := l.trans.T(key, params...)
	if err != nil || msg == "" {
		return key
	}
	return msg
}

// Money formats an amount in tenge using the locale's number rules.
func (l Locale) Money(amount float64) string {
	return l.trans.FmtCurrency(amount, 0, currency.KZT)
}

type Translator struct {
	uni      *ut.UniversalTranslator
	fallback string
}

// New builds a translator with the bundled catalog. An unsupported
// defaultLocale falls back to Kazakh.
func New(defaultLocale string) (*Translator, error) {
	fallback := normalize(defaultLocale)
	if !isSupported(fallback) {
		fallback = DefaultLocale
	}

	translators := map[string]locales.Translator{
		LocaleEnglish: en.New(),
		LocaleRussian: ru.New(),
		LocaleKazakh:  kk.New(),
	}

	uni := ut.New(translators[fallback], translators[LocaleEnglish], translators[LocaleRussian], translators[LocaleKazakh])
	for code, msgs := range catalog {
		trans, found := uni.GetTranslator(code)
		if !found {
			return nil, fmt.Errorf("translator for %q not registered", code)
		}
		for key, text := range msgs {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("add %s message %q: %w", code, key, err)
			}
		}
	}

	if err := uni.VerifyTranslations(); err != nil {
		return nil, fmt.Errorf("verify translations: %w", err)
	}

	return &Translator{uni: uni, fallback: fallback}, nil
}

// Locale returns the locale for code, or the default one.
func (t *Translator) Locale(code string) Locale {
	if trans, found := t.uni.GetTranslator(normalize(code)); found {
		return Locale{trans: trans}
	}
	return t.Default()
}

func (t *Translator) Default() Locale {
	trans, _ := t.uni.GetTranslator(t.fallback)
	return Locale{trans: trans}
}

// Resolve picks the first supported language from an Accept-Language header.
// Quality values are ignored; header order wins.
func (t *Translator) Resolve(acceptLanguage string) Locale {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		code := normalize(tag)
		if isSupported(code) {
			return t.Locale(code)
		}
	}
	return t.Default()
}

// normalize turns "ru-RU" or "KK_kz" into the base language code.
func normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

func isSupported(code string) bool {
	for _, s := range Supported {
		if s == code {
			return true
		}
	}
	return false
}
