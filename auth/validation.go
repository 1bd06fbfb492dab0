package auth

import (
	"strings"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Validate trims the identifying fields and checks that every required
// field is present.
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.BadgeNumber = strings.TrimSpace(r.BadgeNumber)
	r.Rank = strings.TrimSpace(r.Rank)
	r.District = strings.TrimSpace(r.District)

	if r.Username == "" || r.Email == "" || r.Password == "" || r.FullName == "" || r.BadgeNumber == "" {
		return MissingFieldsErr
	}
	if len(r.Password) > maxPasswordBytes {
		return PasswordTooLongErr
	}
	return nil
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return MissingCredentialsErr
	}
	return nil
}
