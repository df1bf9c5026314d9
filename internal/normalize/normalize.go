// Package normalize converts the backend's heterogeneous cart, wishlist and
// order payloads into the single model.Item shape.
//
// Normalization is fail-open: every input record yields exactly one item.
// A record matching neither the course nor the private lesson shape becomes
// a ReferenceUnknown item so consumers can render a placeholder instead of
// silently losing cart state.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"learnhub-storefront/internal/model"
)

// Envelope keys the backend nests collections under.
const (
	keyCart     = "cart"
	keyWishlist = "wishlist"
	keyData     = "data"
	keyOrders   = "orders"
	keyOrder    = "order"
)

// ResolvePrice returns the first positive candidate, or zero.
// The order of candidates is the precedence rule.
func ResolvePrice(candidates ...FlexNumber) model.Money {
	for _, c := range candidates {
		if m := c.Money(); m.Positive() {
			return m
		}
	}
	return 0
}

// NormalizeItem classifies one raw record. First match wins:
//
//  1. course._id present        → course, price = course.price (0 if absent)
//  2. privateLesson._id present → privateLesson, price = first positive of
//     oneLessonPrice, packagePrice, privateLesson.price, item.price
//  3. otherwise                 → unknown, id = first non-empty of
//     courseId, privateLessonId, _id; price = item.price (0 if absent)
func NormalizeItem(raw json.RawMessage) model.Item {
	var item RawItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return salvage(raw)
	}

	switch {
	case item.Course != nil && item.Course.ID != "":
		course := courseSummary(item.Course)
		return model.Item{
			ReferenceID: course.ID,
			Type:        model.ReferenceCourse,
			Price:       item.Course.Price.Money(),
			Course:      course,
		}

	case item.PrivateLesson != nil && item.PrivateLesson.ID != "":
		pl := item.PrivateLesson
		return model.Item{
			ReferenceID:   string(pl.ID),
			Type:          model.ReferencePrivateLesson,
			Price:         ResolvePrice(pl.OneLessonPrice, pl.PackagePrice, pl.Price, item.Price),
			PrivateLesson: privateLessonSummary(pl),
		}

	default:
		return model.Item{
			ReferenceID: firstNonEmpty(item.CourseID, item.PrivateLessonID, item.ID),
			Type:        model.ReferenceUnknown,
			Price:       item.Price.Money(),
		}
	}
}

// salvage builds an unknown item from a record that is not an object.
// A bare string record is taken as the reference id.
func salvage(raw json.RawMessage) model.Item {
	var id FlexID
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		_ = id.UnmarshalJSON(raw)
	}
	return model.Item{
		ReferenceID: string(id),
		Type:        model.ReferenceUnknown,
	}
}

// NormalizeItems normalizes records in order, one output item per input.
func NormalizeItems(raws []json.RawMessage) []model.Item {
	items := make([]model.Item, len(raws))
	for i, raw := range raws {
		items[i] = NormalizeItem(raw)
	}
	return items
}

// NormalizeCart decodes a GET/POST /cart response.
func NormalizeCart(payload []byte) (model.Collection, error) {
	return normalizeCollection(payload, keyCart)
}

// NormalizeWishlist decodes a GET/POST /wishlist response.
// Wishlist records use the same shapes as cart records, usually without a
// record-level price.
func NormalizeWishlist(payload []byte) (model.Collection, error) {
	return normalizeCollection(payload, keyWishlist)
}

// normalizeCollection unwraps the envelope and normalizes the items.
// A null or empty document is an empty collection, and a bare array is the
// items with no owner. Only a payload that is not JSON, or whose items are
// not an array, is an error.
func normalizeCollection(payload []byte, key string) (model.Collection, error) {
	doc, err := unwrap(payload, key)
	if err != nil {
		return model.Collection{}, fmt.Errorf("decoding %s payload: %w", key, err)
	}
	if isNull(doc) {
		return model.NewCollection("", nil), nil
	}

	if doc[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(doc, &items); err != nil {
			return model.Collection{}, fmt.Errorf("decoding %s payload: %w", key, err)
		}
		return model.NewCollection("", NormalizeItems(items)), nil
	}

	var raw RawCollection
	if err := json.Unmarshal(doc, &raw); err != nil {
		return model.Collection{}, fmt.Errorf("decoding %s payload: %w", key, err)
	}

	owner := string(raw.User)
	if owner == "" {
		owner = string(raw.UserID)
	}
	return model.NewCollection(owner, NormalizeItems(raw.Items)), nil
}

// NormalizeOrders decodes a GET /orders response.
// Accepts {"orders": [...]}, {"data": [...]} or a bare array.
func NormalizeOrders(payload []byte) ([]model.Order, error) {
	doc, err := unwrap(payload, keyOrders)
	if err != nil {
		return nil, fmt.Errorf("decoding orders payload: %w", err)
	}
	if isNull(doc) {
		return []model.Order{}, nil
	}

	var raws []RawOrder
	if err := json.Unmarshal(doc, &raws); err != nil {
		return nil, fmt.Errorf("decoding orders payload: %w", err)
	}

	orders := make([]model.Order, len(raws))
	for i := range raws {
		orders[i] = orderFromRaw(&raws[i])
	}
	return orders, nil
}

// NormalizeOrder decodes a POST /orders response.
func NormalizeOrder(payload []byte) (model.Order, error) {
	doc, err := unwrap(payload, keyOrder)
	if err != nil {
		return model.Order{}, fmt.Errorf("decoding order payload: %w", err)
	}

	var raw RawOrder
	if err := json.Unmarshal(doc, &raw); err != nil {
		return model.Order{}, fmt.Errorf("decoding order payload: %w", err)
	}
	return orderFromRaw(&raw), nil
}

// orderFromRaw normalizes an order. The backend's totalPrice wins because it
// already reflects coupons; the item sum is the fallback.
func orderFromRaw(raw *RawOrder) model.Order {
	records := raw.Items
	if len(records) == 0 {
		records = raw.OrderItems
	}
	items := NormalizeItems(records)

	total := raw.TotalPrice.Money()
	if !raw.TotalPrice.Set() {
		total = model.Sum(items)
	}

	order := model.Order{
		ID:     string(raw.ID),
		Status: raw.Status,
		Items:  items,
		Total:  total,
	}
	if t, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
		order.CreatedAt = t
	}
	return order
}

// NormalizeCouponQuote decodes a POST /coupons/apply response.
func NormalizeCouponQuote(payload []byte, code string) (model.CouponQuote, error) {
	doc, err := unwrap(payload, "coupon")
	if err != nil {
		return model.CouponQuote{}, fmt.Errorf("decoding coupon payload: %w", err)
	}

	var raw RawCouponQuote
	if err := json.Unmarshal(doc, &raw); err != nil {
		return model.CouponQuote{}, fmt.Errorf("decoding coupon payload: %w", err)
	}

	quote := model.CouponQuote{
		Code:       firstNonEmpty(FlexID(raw.CouponCode), FlexID(raw.Code), FlexID(code)),
		Discount:   raw.Discount.Money(),
		FinalPrice: raw.FinalPrice.Money(),
	}
	return quote, nil
}

// NormalizeCredentials decodes a POST /auth/login response.
func NormalizeCredentials(payload []byte) (model.Credentials, error) {
	doc, err := unwrap(payload, "")
	if err != nil {
		return model.Credentials{}, fmt.Errorf("decoding login payload: %w", err)
	}

	var raw RawAuthResponse
	if err := json.Unmarshal(doc, &raw); err != nil {
		return model.Credentials{}, fmt.Errorf("decoding login payload: %w", err)
	}
	if raw.Token == "" {
		return model.Credentials{}, fmt.Errorf("login response carries no token")
	}

	creds := model.Credentials{Token: raw.Token}
	if raw.User != nil {
		creds.User = &model.User{
			ID:    string(raw.User.ID),
			Name:  raw.User.Name,
			Email: raw.User.Email,
			Role:  raw.User.Role,
		}
	}
	return creds, nil
}

// unwrap strips up to two levels of envelope: the resource key and/or "data".
// Returns the innermost document, which may be JSON null.
func unwrap(payload []byte, key string) (json.RawMessage, error) {
	doc := json.RawMessage(bytes.TrimSpace(payload))
	if len(doc) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(doc) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}

	for depth := 0; depth < 2; depth++ {
		if doc[0] != '{' {
			break
		}
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(doc, &envelope); err != nil {
			return nil, err
		}
		inner, ok := envelope[key]
		if !ok || key == "" {
			inner, ok = envelope[keyData]
		}
		if !ok {
			break
		}
		doc = bytes.TrimSpace(inner)
		if len(doc) == 0 {
			return json.RawMessage("null"), nil
		}
	}
	return doc, nil
}

func isNull(doc json.RawMessage) bool {
	return bytes.Equal(doc, []byte("null"))
}

func firstNonEmpty(ids ...FlexID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}

func courseSummary(c *RawCourse) *model.CourseSummary {
	return &model.CourseSummary{
		ID:        string(c.ID),
		Title:     firstText(c.Title, c.Name),
		Thumbnail: firstText(c.Thumbnail, c.Image),
		Level:     string(c.Level),
		Price:     c.Price.Money(),
		Teacher:   teacherSummary(c.Teacher),
	}
}

func privateLessonSummary(p *RawPrivateLesson) *model.PrivateLessonSummary {
	return &model.PrivateLessonSummary{
		ID:             string(p.ID),
		Title:          firstText(p.Title, p.Name),
		Thumbnail:      firstText(p.Thumbnail, p.Image),
		OneLessonPrice: p.OneLessonPrice.Money(),
		PackagePrice:   p.PackagePrice.Money(),
		Price:          p.Price.Money(),
		LessonsCount:   int(p.LessonsCount.value),
		Teacher:        teacherSummary(p.Teacher),
	}
}

func teacherSummary(t *RawTeacher) *model.TeacherSummary {
	if t == nil || (t.ID == "" && t.Name == "") {
		return nil
	}
	return &model.TeacherSummary{
		ID:    string(t.ID),
		Name:  string(t.Name),
		Image: string(t.Image),
	}
}

func firstText(values ...FlexText) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}
