// Package model defines the normalized storefront types shared by the API
// client, the state store and the storefront surfaces.
package model

import "time"

// ReferenceType discriminates which kind of catalog entry an Item refers to.
type ReferenceType string

const (
	ReferenceCourse        ReferenceType = "course"
	ReferencePrivateLesson ReferenceType = "privateLesson"
	// ReferenceUnknown marks a record that matched neither known shape.
	// It is kept so the consumer can still render a placeholder.
	ReferenceUnknown ReferenceType = "unknown"
)

// TeacherSummary is the teacher block embedded in catalog entries.
type TeacherSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// CourseSummary is the display data for a course in a cart, wishlist or order.
type CourseSummary struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Level     string          `json:"level,omitempty"`
	Price     Money           `json:"price"`
	Teacher   *TeacherSummary `json:"teacher,omitempty"`
}

// PrivateLessonSummary is the display data for a private lesson.
// Lessons are sold per session or as a package, hence the separate prices.
type PrivateLessonSummary struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
	OneLessonPrice Money           `json:"oneLessonPrice"`
	PackagePrice   Money           `json:"packagePrice"`
	Price          Money           `json:"price"`
	LessonsCount   int             `json:"lessonsCount,omitempty"`
	Teacher        *TeacherSummary `json:"teacher,omitempty"`
}

// User is the signed-in account as returned by the backend.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Credentials is the token/user pair kept in persistent storage.
type Credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Order is a placed order with its items normalized like cart items.
type Order struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Items     []Item    `json:"items"`
	Total     Money     `json:"total"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// CouponQuote is the backend's answer to a coupon application.
type CouponQuote struct {
	Code       string `json:"code"`
	Discount   Money  `json:"discount"`
	FinalPrice Money  `json:"finalPrice"`
}
