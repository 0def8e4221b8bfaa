package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/blogfront/internal/model"
)

func TestValidateReportsFormFieldNames(t *testing.T) {
	errs := Validate(Register{Email: "nope", Username: "ab", Password: "short", PasswordConfirm: "other"})

	assert.Equal(t, "Enter a valid email address", errs["email"])
	assert.Equal(t, "Must be at least 3 characters", errs["username"])
	assert.Equal(t, "Must be at least 8 characters", errs["password"])
	assert.Equal(t, "Passwords do not match", errs["password_confirm"])
}

func TestValidatePassesGoodInput(t *testing.T) {
	assert.Nil(t, Validate(Login{Email: "a@b.com", Password: "x"}))
	assert.Nil(t, Validate(Register{Email: "a@b.com", Username: "alice", Password: "password123", PasswordConfirm: "password123"}))
}

func TestChangePasswordRules(t *testing.T) {
	errs := Validate(ChangePassword{CurrentPassword: "password123", NewPassword: "password123", ConfirmPassword: "password123"})
	assert.Equal(t, "New password must differ from the current password", errs["new_password"])

	errs = Validate(ChangePassword{CurrentPassword: "old-password", NewPassword: "new-password", ConfirmPassword: "new-passw0rd"})
	assert.Equal(t, "Passwords do not match", errs["confirm_password"])
	assert.NotContains(t, errs, "new_password")
}

func TestValidateUsesJSONNamesForModelInput(t *testing.T) {
	errs := Validate(model.NewComment{PostID: 1})

	assert.Contains(t, errs, "author")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "content")
}

func TestStrength(t *testing.T) {
	tests := []struct {
		password string
		want     int
	}{
		{"", 0},
		{"abc", 0},
		{"abcdefgh", 1},
		{"abcdefghijkl", 2},
		{"Abcdefghijkl", 3},
		{"Abcdefghijk1", 4},
		{"Abcdefghij1!", 5},
		{"1!", 2},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, Strength(tt.password))
		})
	}
}
