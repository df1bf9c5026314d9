package handler

import (
	"time"

	"learnhub-storefront/internal/i18n"
	"learnhub-storefront/internal/model"
	"learnhub-storefront/internal/store"
)

// Views are the normalized model plus display strings for one locale and
// currency. They are shared by the REST and MCP surfaces.

// ItemView is one cart, wishlist or order entry.
type ItemView struct {
	ReferenceID   string                      `json:"referenceId"`
	ReferenceType model.ReferenceType         `json:"referenceType"`
	Title         string                      `json:"title"`
	Price         model.Money                 `json:"price"`
	PriceDisplay  string                      `json:"priceDisplay"`
	Course        *model.CourseSummary        `json:"course,omitempty"`
	PrivateLesson *model.PrivateLessonSummary `json:"privateLesson,omitempty"`
	Selected      bool                        `json:"selected,omitempty"`
}

// CollectionView is a cart or wishlist.
type CollectionView struct {
	Kind         store.Kind  `json:"kind"`
	OwnerID      string      `json:"ownerId,omitempty"`
	Items        []ItemView  `json:"items"`
	Total        model.Money `json:"total"`
	TotalDisplay string      `json:"totalDisplay"`
	Version      uint64      `json:"version"`
	Loaded       bool        `json:"loaded"`
	Direction    string      `json:"dir"`
	Notification string      `json:"notification,omitempty"`
}

// ToggleView reports which way a wishlist toggle went.
type ToggleView struct {
	Added    bool           `json:"added"`
	Wishlist CollectionView `json:"wishlist"`
}

// QuoteView is a priced coupon.
type QuoteView struct {
	Code              string      `json:"code"`
	Discount          model.Money `json:"discount"`
	DiscountDisplay   string      `json:"discountDisplay"`
	FinalPrice        model.Money `json:"finalPrice"`
	FinalPriceDisplay string      `json:"finalPriceDisplay"`
	Notification      string      `json:"notification,omitempty"`
}

// OrderView is a placed order.
type OrderView struct {
	ID           string      `json:"id"`
	Status       string      `json:"status,omitempty"`
	Items        []ItemView  `json:"items"`
	Total        model.Money `json:"total"`
	TotalDisplay string      `json:"totalDisplay"`
	CreatedAt    string      `json:"createdAt,omitempty"`
	Notification string      `json:"notification,omitempty"`
}

// OrdersView lists orders.
type OrdersView struct {
	Orders []OrderView `json:"orders"`
}

func direction(l i18n.Locale) string {
	if l.RTL() {
		return "rtl"
	}
	return "ltr"
}

func itemView(f *i18n.Formatter, item model.Item, selected bool) ItemView {
	return ItemView{
		ReferenceID:   item.ReferenceID,
		ReferenceType: item.Type,
		Title:         f.ItemTitle(item),
		Price:         item.Price,
		PriceDisplay:  f.Price(item.Price),
		Course:        item.Course,
		PrivateLesson: item.PrivateLesson,
		Selected:      selected,
	}
}

// collectionView renders snap. selected marks cart items chosen for checkout.
func collectionView(f *i18n.Formatter, snap store.Snapshot, selected []string) CollectionView {
	marked := make(map[string]bool, len(selected))
	for _, id := range selected {
		marked[id] = true
	}

	items := make([]ItemView, len(snap.Collection.Items))
	for i, item := range snap.Collection.Items {
		items[i] = itemView(f, item, marked[item.ReferenceID])
	}

	return CollectionView{
		Kind:         snap.Kind,
		OwnerID:      snap.Collection.OwnerID,
		Items:        items,
		Total:        snap.Collection.Total,
		TotalDisplay: f.Price(snap.Collection.Total),
		Version:      snap.Version,
		Loaded:       snap.Loaded,
		Direction:    direction(f.Locale()),
	}
}

func quoteView(f *i18n.Formatter, q model.CouponQuote) QuoteView {
	return QuoteView{
		Code:              q.Code,
		Discount:          q.Discount,
		DiscountDisplay:   f.Price(q.Discount),
		FinalPrice:        q.FinalPrice,
		FinalPriceDisplay: f.Price(q.FinalPrice),
	}
}

func orderView(f *i18n.Formatter, o model.Order) OrderView {
	items := make([]ItemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = itemView(f, item, false)
	}

	v := OrderView{
		ID:           o.ID,
		Status:       o.Status,
		Items:        items,
		Total:        o.Total,
		TotalDisplay: f.Price(o.Total),
	}
	if !o.CreatedAt.IsZero() {
		v.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	return v
}

func ordersView(f *i18n.Formatter, orders []model.Order) OrdersView {
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = orderView(f, o)
	}
	return OrdersView{Orders: views}
}
