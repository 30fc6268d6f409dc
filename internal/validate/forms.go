package validate

import (
	"fmt"
	"time"

	"github.com/planit-ai/planit/internal/trip"
)

// LoginForm is the sign-in form.
type LoginForm struct {
	LoginID  string `form:"loginId" validate:"required,loginid"`
	Password string `form:"password" validate:"required"`
}

// SignupForm is the account creation form.
type SignupForm struct {
	LoginID         string `form:"loginId" validate:"required,loginid"`
	Password        string `form:"password" validate:"required,password"`
	PasswordConfirm string `form:"passwordConfirm" validate:"required,eqfield=Password"`
	Nickname        string `form:"nickname" validate:"required,nickname"`
}

// ProfileForm edits nickname and optionally the password.
type ProfileForm struct {
	Nickname        string `form:"nickname" validate:"required,nickname"`
	Password        string `form:"password" validate:"omitempty,password"`
	PasswordConfirm string `form:"passwordConfirm" validate:"eqfield=Password"`
}

// PostForm creates or edits a post.
type PostForm struct {
	BoardType string   `form:"boardType" validate:"required,board"`
	Title     string   `form:"title" validate:"notblank,max=24"`
	Content   string   `form:"content" validate:"notblank,max=2000"`
	ImageKeys []string `form:"images" validate:"max=5"`
}

// CommentForm adds a comment.
type CommentForm struct {
	Content string `form:"comment" validate:"notblank,max=500"`
}

// SearchForm is the board search box.
type SearchForm struct {
	Query string `form:"search" validate:"notblank,min=2,max=24,searchquery"`
}

// ImageForm describes a file about to be uploaded.
type ImageForm struct {
	Extension string `form:"image" validate:"imageext"`
	Size      int64  `form:"size" validate:"min=1,max=5242880"`
}

// TripForm is the trip creation form. Hours are local 0-23.
type TripForm struct {
	Title         string    `form:"title" validate:"notblank,max=15"`
	City          string    `form:"city" validate:"required,destination"`
	ArrivalDate   time.Time `form:"arrivalDate" validate:"required"`
	DepartureDate time.Time `form:"departureDate" validate:"required,gtefield=ArrivalDate"`
	ArrivalHour   int       `form:"arrivalHour" validate:"min=0,max=23"`
	DepartureHour int       `form:"departureHour" validate:"min=0,max=23"`
	Budget        int64     `form:"budget"`
	Themes        []string  `form:"themes" validate:"min=1,dive,theme"`
	WantedPlaces  []string  `form:"wantedPlaces"`
}

// Login validates a sign-in form.
func (val *Validator) Login(f LoginForm) error { return val.Struct(f) }

// Signup validates an account creation form.
func (val *Validator) Signup(f SignupForm) error { return val.Struct(f) }

// Profile validates a profile edit.
func (val *Validator) Profile(f ProfileForm) error { return val.Struct(f) }

// Post validates a post.
func (val *Validator) Post(f PostForm) error { return val.Struct(f) }

// Comment validates a comment.
func (val *Validator) Comment(f CommentForm) error { return val.Struct(f) }

// Search validates a board search query.
func (val *Validator) Search(f SearchForm) error { return val.Struct(f) }

// Image validates an upload candidate.
func (val *Validator) Image(f ImageForm) error { return val.Struct(f) }

// Trip validates a trip form including the day and budget rules.
func (val *Validator) Trip(f TripForm) error {
	if err := val.Struct(f); err != nil {
		return err
	}
	var errs Errors
	days := trip.Days(f.ArrivalDate, f.DepartureDate)
	if days > trip.MaxDays {
		errs = append(errs, FieldError{Field: "departureDate", Message: fmt.Sprintf("trips can be at most %d days", trip.MaxDays)})
	}
	if minBudget := trip.MinBudget(days); f.Budget < minBudget || f.Budget > trip.MaxBudget {
		errs = append(errs, FieldError{Field: "budget", Message: fmt.Sprintf("budget must be between %d and %d", minBudget, trip.MaxBudget)})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
