package validation_test

import (
	"testing"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"full_name" validate:"notblank"`
}

type filter struct {
	Category string `json:"category" validate:"omitempty,category"`
	Status   string `json:"status" validate:"omitempty,grievance_status"`
}

func TestStruct_Valid(t *testing.T) {
	err := validation.Struct(signup{Email: "a@uni.edu", Password: "secret1", Name: "Asha"})

	assert.NoError(t, err)
}

func TestStruct_FieldErrorsUseJSONNames(t *testing.T) {
	err := validation.Struct(signup{Email: "not-an-email", Password: "123", Name: "   "})

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	got := map[string]string{}
	for _, fe := range apperr.FieldsOf(err) {
		got[fe.Field] = fe.Error
	}
	assert.Equal(t, "email must be a valid email address", got["email"])
	assert.Contains(t, got["password"], "at least 6 characters")
	assert.Equal(t, "this field cannot be blank", got["full_name"])
}

func TestStruct_CustomTags(t *testing.T) {
	tests := []struct {
		name    string
		in      filter
		wantErr bool
	}{
		{"empty is allowed", filter{}, false},
		{"known values", filter{Category: "Facility", Status: "In Progress"}, false},
		{"unknown category", filter{Category: "Transport"}, true},
		{"unknown status", filter{Status: "Escalated"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.in)
			if tt.wantErr {
				assert.True(t, apperr.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
