package model

// Item is one normalized cart/wishlist/order entry.
//
// Type is decided once at the normalization boundary. Exactly one of Course or
// PrivateLesson is set when Type is course or privateLesson respectively; both
// are nil for unknown. Embedded entities are for display only: identity is
// ReferenceID and the price was resolved when the item was built.
type Item struct {
	ReferenceID   string                `json:"referenceId"`
	Type          ReferenceType         `json:"referenceType"`
	Price         Money                 `json:"price"`
	Course        *CourseSummary        `json:"course,omitempty"`
	PrivateLesson *PrivateLessonSummary `json:"privateLesson,omitempty"`
}

// Title returns a display title for the item.
func (i Item) Title() string {
	switch i.Type {
	case ReferenceCourse:
		if i.Course != nil {
			return i.Course.Title
		}
	case ReferencePrivateLesson:
		if i.PrivateLesson != nil {
			return i.PrivateLesson.Title
		}
	case ReferenceUnknown:
	}
	return ""
}

// Teacher returns the embedded teacher, if any.
func (i Item) Teacher() *TeacherSummary {
	switch i.Type {
	case ReferenceCourse:
		if i.Course != nil {
			return i.Course.Teacher
		}
	case ReferencePrivateLesson:
		if i.PrivateLesson != nil {
			return i.PrivateLesson.Teacher
		}
	case ReferenceUnknown:
	}
	return nil
}

// Collection is a normalized cart or wishlist.
//
// Total always equals the sum of Items[i].Price. It is derived inside every
// method that changes Items and is never assigned by callers.
type Collection struct {
	OwnerID string `json:"ownerId"`
	Items   []Item `json:"items"`
	Total   Money  `json:"total"`
}

// NewCollection builds a collection and derives its total.
func NewCollection(ownerID string, items []Item) Collection {
	if items == nil {
		items = []Item{}
	}
	return Collection{
		OwnerID: ownerID,
		Items:   items,
		Total:   Sum(items),
	}
}

// Contains reports whether an item with referenceID is present.
func (c Collection) Contains(referenceID string) bool {
	for _, item := range c.Items {
		if item.ReferenceID == referenceID {
			return true
		}
	}
	return false
}

// ReferenceIDs returns the reference ids in collection order.
func (c Collection) ReferenceIDs() []string {
	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ReferenceID
	}
	return ids
}

// Without returns a copy with every item keyed by referenceID dropped.
// Removing an absent id yields an equal collection.
func (c Collection) Without(referenceID string) Collection {
	kept := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ReferenceID != referenceID {
			kept = append(kept, item)
		}
	}
	return NewCollection(c.OwnerID, kept)
}

// Emptied returns a copy with no items and a zero total.
func (c Collection) Emptied() Collection {
	return NewCollection(c.OwnerID, nil)
}

// Clone returns a copy whose item slice does not alias c.
func (c Collection) Clone() Collection {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Collection{OwnerID: c.OwnerID, Items: items, Total: c.Total}
}
