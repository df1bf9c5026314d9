package i18n

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/currency"
	"github.com/go-playground/locales/en"

	"learnhub-storefront/internal/model"
)

var currencies = map[string]currency.Type{
	"USD": currency.USD,
	"EUR": currency.EUR,
	"GBP": currency.GBP,
	"EGP": currency.EGP,
	"SAR": currency.SAR,
	"AED": currency.AED,
}

// SupportedCurrency reports whether code can be formatted.
func SupportedCurrency(code string) bool {
	_, ok := currencies[strings.ToUpper(code)]
	return ok
}

// Formatter renders prices for one locale and currency.
type Formatter struct {
	locale     Locale
	translator locales.Translator
	currency   currency.Type
}

// NewFormatter creates a formatter. currencyCode is an ISO 4217 code.
func NewFormatter(l Locale, currencyCode string) (*Formatter, error) {
	cur, ok := currencies[strings.ToUpper(currencyCode)]
	if !ok {
		return nil, fmt.Errorf("unsupported currency %q", currencyCode)
	}

	var trans locales.Translator
	switch l {
	case Arabic:
		trans = ar.New()
	case English:
		trans = en.New()
	default:
		return nil, fmt.Errorf("unsupported locale %q", l)
	}

	return &Formatter{locale: l, translator: trans, currency: cur}, nil
}

// Locale returns the formatter's locale.
func (f *Formatter) Locale() Locale { return f.locale }

// Price formats m with the currency symbol and two decimals.
func (f *Formatter) Price(m model.Money) string {
	return f.translator.FmtCurrency(m.Major(), 2, f.currency)
}

// ItemTitle returns the display title of item, with a placeholder for
// unknown items.
func (f *Formatter) ItemTitle(item model.Item) string {
	if title := item.Title(); title != "" {
		return title
	}
	return Text(f.locale, UnknownItem)
}
