package model

// Reference names the catalog entry a cart or wishlist mutation targets.
// Exactly one of CourseID and PrivateLessonID is set.
type Reference struct {
	CourseID        string `json:"courseId,omitempty" validate:"required_without=PrivateLessonID,excluded_with=PrivateLessonID"`
	PrivateLessonID string `json:"privateLessonId,omitempty" validate:"required_without=CourseID,excluded_with=CourseID"`
}

// CourseRef returns a reference to a course.
func CourseRef(id string) Reference { return Reference{CourseID: id} }

// PrivateLessonRef returns a reference to a private lesson.
func PrivateLessonRef(id string) Reference { return Reference{PrivateLessonID: id} }

// ID returns the reference id used as the collection key.
func (r Reference) ID() string {
	if r.CourseID != "" {
		return r.CourseID
	}
	return r.PrivateLessonID
}

// Type returns the reference type implied by which id is set.
func (r Reference) Type() ReferenceType {
	switch {
	case r.CourseID != "":
		return ReferenceCourse
	case r.PrivateLessonID != "":
		return ReferencePrivateLesson
	default:
		return ReferenceUnknown
	}
}

// ReferenceOf rebuilds the mutation reference for a normalized item.
// Unknown items are assumed to be courses, which is how the backend keys
// bare ids.
func ReferenceOf(item Item) Reference {
	if item.Type == ReferencePrivateLesson {
		return PrivateLessonRef(item.ReferenceID)
	}
	return CourseRef(item.ReferenceID)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CouponRequest is the body of POST /coupons/apply.
type CouponRequest struct {
	Code  string      `json:"couponCode" validate:"required"`
	Items []Reference `json:"items,omitempty" validate:"dive"`
}

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	Items      []Reference `json:"items" validate:"required,min=1,dive"`
	CouponCode string      `json:"couponCode,omitempty"`
}
