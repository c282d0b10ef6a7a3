package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	MinScore = 1
	MaxScore = 10

	maxUsernameLength = 150
	maxEmailLength    = 254

	// A client cannot register under the name the /users/me endpoint uses.
	reservedUsername = "me"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.@+-]+$`)

// ValidateUsername checks the username charset, length and the reserved
// word. Messages are keyed under "username".
func ValidateUsername(username string) FieldErrors {
	errs := FieldErrors{}
	if username == "" {
		errs.Add("username", "must be provided")
		return errs
	}
	if len(username) > maxUsernameLength {
		errs.Add("username", fmt.Sprintf("must not be longer than %d characters", maxUsernameLength))
	}
	if !usernameRegex.MatchString(username) {
		errs.Add("username", "may only contain letters, digits and @/./+/-/_ characters")
	}
	if strings.EqualFold(username, reservedUsername) {
		errs.Add("username", fmt.Sprintf("username %q is not allowed", reservedUsername))
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateEmail checks the address is well formed and within length bounds.
func ValidateEmail(email string) FieldErrors {
	errs := FieldErrors{}
	if email == "" {
		errs.Add("email", "must be provided")
		return errs
	}
	if len(email) > maxEmailLength {
		errs.Add("email", fmt.Sprintf("must not be longer than %d characters", maxEmailLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "must be a valid email address")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateScore enforces the inclusive score bounds, naming the violated
// bound in the message.
func ValidateScore(score int) FieldErrors {
	if score < MinScore {
		return FieldErrors{"score": {fmt.Sprintf("must be at least %d", MinScore)}}
	}
	if score > MaxScore {
		return FieldErrors{"score": {fmt.Sprintf("must be at most %d", MaxScore)}}
	}
	return nil
}

// ValidateYear rejects years after the current calendar year. Evaluated at
// validation time, so it holds on every write, not just creation.
func ValidateYear(year int) FieldErrors {
	if current := time.Now().Year(); year > current {
		return FieldErrors{"year": {fmt.Sprintf("must not be after the current year (%d)", current)}}
	}
	return nil
}
