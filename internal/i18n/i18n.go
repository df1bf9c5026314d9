// Package i18n holds the bilingual notification texts and price formatting.
package i18n

import (
	"errors"
	"strings"

	"learnhub-storefront/internal/model"
)

// Locale is a supported UI language.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Default is used when no supported preference is given.
const Default = English

// Parse reduces a language tag ("ar-EG", "EN") to a supported locale.
func Parse(tag string) (Locale, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	switch Locale(tag) {
	case English, Arabic:
		return Locale(tag), true
	default:
		return "", false
	}
}

// RTL reports whether the locale is written right to left.
func (l Locale) RTL() bool { return l == Arabic }

// Key names a notification text.
type Key string

const (
	GenericFailure      Key = "generic_failure"
	Unauthorized        Key = "unauthorized"
	InvalidInput        Key = "invalid_input"
	CouponRequired      Key = "coupon_required"
	SelectItems         Key = "select_items"
	AddedToCart         Key = "added_to_cart"
	RemovedFromCart     Key = "removed_from_cart"
	CartCleared         Key = "cart_cleared"
	AddedToWishlist     Key = "added_to_wishlist"
	RemovedFromWishlist Key = "removed_from_wishlist"
	CouponApplied       Key = "coupon_applied"
	OrderPlaced         Key = "order_placed"
	UnknownItem         Key = "unknown_item"
)

var texts = map[Locale]map[Key]string{
	English: {
		GenericFailure:      "Something went wrong. Please try again.",
		Unauthorized:        "Your session has expired. Please sign in again.",
		InvalidInput:        "Please check your input and try again.",
		CouponRequired:      "Please enter a coupon code.",
		SelectItems:         "Please select at least one item to check out.",
		AddedToCart:         "Added to cart.",
		RemovedFromCart:     "Removed from cart.",
		CartCleared:         "Your cart is now empty.",
		AddedToWishlist:     "Added to wishlist.",
		RemovedFromWishlist: "Removed from wishlist.",
		CouponApplied:       "Coupon applied.",
		OrderPlaced:         "Your order has been placed.",
		UnknownItem:         "Unavailable item",
	},
	Arabic: {
		GenericFailure:      "حدث خطأ ما. يرجى المحاولة مرة أخرى.",
		Unauthorized:        "انتهت صلاحية الجلسة. يرجى تسجيل الدخول مرة أخرى.",
		InvalidInput:        "يرجى التحقق من البيانات والمحاولة مرة أخرى.",
		CouponRequired:      "يرجى إدخال رمز القسيمة.",
		SelectItems:         "يرجى اختيار عنصر واحد على الأقل لإتمام الشراء.",
		AddedToCart:         "تمت الإضافة إلى السلة.",
		RemovedFromCart:     "تمت الإزالة من السلة.",
		CartCleared:         "سلتك فارغة الآن.",
		AddedToWishlist:     "تمت الإضافة إلى قائمة الأمنيات.",
		RemovedFromWishlist: "تمت الإزالة من قائمة الأمنيات.",
		CouponApplied:       "تم تطبيق القسيمة.",
		OrderPlaced:         "تم تقديم طلبك.",
		UnknownItem:         "عنصر غير متاح",
	},
}

// Text returns the text for key, falling back to English.
func Text(l Locale, key Key) string {
	if s, ok := texts[l][key]; ok {
		return s
	}
	return texts[English][key]
}

// KeyForError picks the notification for an error surfaced at a call site.
// Validation failures on known fields get a specific text; everything that
// is not a 401 or a validation failure is the generic failure.
func KeyForError(err error) Key {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrUnauthorized):
		return Unauthorized
	case errors.Is(err, model.ErrInvalidRequest):
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Field {
			case "couponCode":
				return CouponRequired
			case "items":
				return SelectItems
			}
		}
		return InvalidInput
	default:
		return GenericFailure
	}
}

// Describe returns the localized notification for err.
func Describe(l Locale, err error) string {
	if err == nil {
		return ""
	}
	return Text(l, KeyForError(err))
}
