package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a candidate identity. The password field holds a bcrypt hash and
// is stripped before any response is written.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Firstname string             `json:"firstname" bson:"firstname"`
	Lastname  string             `json:"lastname" bson:"lastname"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Avatar    string             `json:"avatar,omitempty" bson:"avatar,omitempty"`

	Password     string `json:"-" bson:"password"`
	RefreshToken string `json:"-" bson:"refreshToken,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser is the response shape for identity endpoints.
type PublicUser struct {
	ID        primitive.ObjectID `json:"id"`
	Firstname string             `json:"firstname"`
	Lastname  string             `json:"lastname"`
	Username  string             `json:"username"`
	Email     string             `json:"email"`
	Avatar    string             `json:"avatar,omitempty"`
}

// Public returns the user without credential fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
	}
}
