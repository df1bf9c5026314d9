package normalize

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"learnhub-storefront/internal/model"
)

// =============================================================================
// BACKEND WIRE TYPES
// =============================================================================
//
// The marketplace backend is loosely typed. Observed variations:
//
//   - ids are strings, occasionally numbers, and references may be either
//     populated objects ({"_id": ..., "title": ...}) or bare id strings
//   - prices are numbers, numeric strings, or null
//   - display text is usually a string, sometimes a localized object
//   - the collection may be the top-level object or nested under a key
//     ("cart", "wishlist", "data")
//
// Every type below decodes leniently: an unexpected value degrades to the
// zero value instead of failing the whole payload.
// =============================================================================

// FlexNumber is a JSON number that also accepts numeric strings and null.
type FlexNumber struct {
	value float64
	set   bool
}

// Number returns a set FlexNumber. Used by tests and fixtures.
func Number(f float64) FlexNumber {
	return FlexNumber{value: f, set: true}
}

// UnmarshalJSON never fails; unparseable values decode as unset.
func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	*n = FlexNumber{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*n = FlexNumber{value: f, set: true}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	*n = FlexNumber{value: f, set: true}
	return nil
}

// Set reports whether the field was present with a numeric value.
func (n FlexNumber) Set() bool { return n.set }

// Money converts the value to minor units; unset is zero.
func (n FlexNumber) Money() model.Money {
	if !n.set {
		return 0
	}
	return model.FromMajor(n.value)
}

// FlexID is an identifier that may arrive as a string, a number, or a
// populated object carrying "_id".
type FlexID string

// UnmarshalJSON never fails; unsupported shapes decode as empty.
func (id *FlexID) UnmarshalJSON(b []byte) error {
	*id = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if json.Unmarshal(b, &s) == nil {
			*id = FlexID(strings.TrimSpace(s))
		}
	case '{':
		var ref struct {
			ID FlexID `json:"_id"`
		}
		if json.Unmarshal(b, &ref) == nil {
			*id = ref.ID
		}
	default:
		var n json.Number
		if json.Unmarshal(b, &n) == nil {
			*id = FlexID(n.String())
		}
	}
	return nil
}

// FlexText is a display string that may arrive as a string, a number, or a
// localized object such as {"en": ..., "ar": ...} or {"url": ...}.
type FlexText string

// textKeys is the lookup order for object-shaped text.
var textKeys = []string{"en", "ar", "url", "src", "name", "title"}

// UnmarshalJSON never fails; unsupported shapes decode as empty.
func (t *FlexText) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if json.Unmarshal(b, &s) == nil {
			*t = FlexText(strings.TrimSpace(s))
		}
	case '{':
		var obj map[string]FlexText
		if json.Unmarshal(b, &obj) != nil {
			return nil
		}
		for _, k := range textKeys {
			if v := obj[k]; v != "" {
				*t = v
				return nil
			}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := obj[k]; v != "" {
				*t = v
				return nil
			}
		}
	case '[', 'n':
	default:
		var n json.Number
		if json.Unmarshal(b, &n) == nil {
			*t = FlexText(n.String())
		}
	}
	return nil
}

// RawTeacher is the teacher reference embedded in catalog entries.
// A bare id string decodes into ID only.
type RawTeacher struct {
	ID    FlexID   `json:"_id"`
	Name  FlexText `json:"name"`
	Image FlexText `json:"image"`
}

// UnmarshalJSON accepts either an object or an id string.
func (t *RawTeacher) UnmarshalJSON(b []byte) error {
	*t = RawTeacher{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		var id FlexID
		_ = id.UnmarshalJSON(b)
		t.ID = id
		return nil
	}

	type plain RawTeacher
	var p plain
	if json.Unmarshal(b, &p) == nil {
		*t = RawTeacher(p)
	}
	return nil
}

// RawCourse is a populated course reference.
type RawCourse struct {
	ID        FlexID      `json:"_id"`
	Title     FlexText    `json:"title"`
	Name      FlexText    `json:"name"`
	Thumbnail FlexText    `json:"thumbnail"`
	Image     FlexText    `json:"image"`
	Level     FlexText    `json:"level"`
	Price     FlexNumber  `json:"price"`
	Teacher   *RawTeacher `json:"teacher"`
}

// RawPrivateLesson is a populated private lesson reference.
type RawPrivateLesson struct {
	ID             FlexID      `json:"_id"`
	Title          FlexText    `json:"title"`
	Name           FlexText    `json:"name"`
	Thumbnail      FlexText    `json:"thumbnail"`
	Image          FlexText    `json:"image"`
	OneLessonPrice FlexNumber  `json:"oneLessonPrice"`
	PackagePrice   FlexNumber  `json:"packagePrice"`
	Price          FlexNumber  `json:"price"`
	LessonsCount   FlexNumber  `json:"lessonsCount"`
	Teacher        *RawTeacher `json:"teacher"`
}

// RawItem is one cart/wishlist/order record as sent by the backend.
// The shape tag is implicit: presence of course, privateLesson, or only
// the bare ids.
type RawItem struct {
	ID              FlexID            `json:"_id"`
	Course          *RawCourse        `json:"-"`
	PrivateLesson   *RawPrivateLesson `json:"-"`
	CourseID        FlexID            `json:"courseId"`
	PrivateLessonID FlexID            `json:"privateLessonId"`
	Price           FlexNumber        `json:"price"`
}

// UnmarshalJSON decodes embedded entities separately so that an unpopulated
// reference (a bare id string under "course") is dropped instead of failing
// the record.
func (r *RawItem) UnmarshalJSON(b []byte) error {
	type plain RawItem
	var wire struct {
		plain
		Course        json.RawMessage `json:"course"`
		PrivateLesson json.RawMessage `json:"privateLesson"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	*r = RawItem(wire.plain)
	r.Course = decodeObject[RawCourse](wire.Course)
	r.PrivateLesson = decodeObject[RawPrivateLesson](wire.PrivateLesson)
	return nil
}

// decodeObject decodes raw into T only when raw is a JSON object.
func decodeObject[T any](raw json.RawMessage) *T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// RawCollection is a cart or wishlist document.
// Items stay raw so each record is decoded on its own.
type RawCollection struct {
	ID     FlexID            `json:"_id"`
	User   FlexID            `json:"user"`
	UserID FlexID            `json:"userId"`
	Items  []json.RawMessage `json:"items"`
}

// RawOrder is an order document.
type RawOrder struct {
	ID         FlexID            `json:"_id"`
	Status     string            `json:"status"`
	Items      []json.RawMessage `json:"items"`
	OrderItems []json.RawMessage `json:"orderItems"`
	TotalPrice FlexNumber        `json:"totalPrice"`
	CreatedAt  string            `json:"createdAt"`
}

// RawCouponQuote is the response of POST /coupons/apply.
type RawCouponQuote struct {
	CouponCode string     `json:"couponCode"`
	Code       string     `json:"code"`
	Discount   FlexNumber `json:"discount"`
	FinalPrice FlexNumber `json:"finalPrice"`
}

// RawAuthResponse is the response of POST /auth/login.
type RawAuthResponse struct {
	Token string `json:"token"`
	User  *struct {
		ID    FlexID `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// RawMessage is the {message} body returned by DELETE endpoints.
type RawMessage struct {
	Message string `json:"message"`
}
