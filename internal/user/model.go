package user

import "time"

// User is either an organizer (may own events) or a participant.
type User struct {
	ID           int64     `json:"id" db:"id"`
	FirstName    string    `json:"firstname" db:"firstname"`
	Surname      string    `json:"surname" db:"surname"`
	Age          int       `json:"age" db:"age"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // never returned in responses
	IsOrganizer  bool      `json:"isOrganizer" db:"is_organizer"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UpdateInput is a partial update: nil fields are left untouched.
type UpdateInput struct {
	FirstName   *string
	Surname     *string
	Age         *int
	Email       *string
	Password    *string
	IsOrganizer *bool
}

// UpdateParams is what reaches the repository; the password is already hashed.
type UpdateParams struct {
	FirstName    *string
	Surname      *string
	Age          *int
	Email        *string
	PasswordHash *string
	IsOrganizer  *bool
}

func (p UpdateParams) IsEmpty() bool {
	return p.FirstName == nil && p.Surname == nil && p.Age == nil &&
		p.Email == nil && p.PasswordHash == nil && p.IsOrganizer == nil
}
