package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name        string `json:"name" validate:"required,max=10"`
	Email       string `json:"email" validate:"required,email"`
	Description string `json:"description"`
}

func TestStructValidPayload(t *testing.T) {
	out := Struct(samplePayload{Name: "ok", Email: "a@b.com"})
	assert.True(t, out.Valid())
}

func TestStructAccumulatesAllFieldViolations(t *testing.T) {
	out := Struct(samplePayload{Name: "", Email: "nope"})

	require.False(t, out.Valid())
	assert.Contains(t, out["name"], "name is required.")
	assert.Contains(t, out["email"], "email must be a valid email address.")
}

func TestStructMaxLength(t *testing.T) {
	out := Struct(samplePayload{Name: "far too long for the rule", Email: "a@b.com"})

	require.False(t, out.Valid())
	assert.Contains(t, out["name"], "name must not exceed 10 characters.")
}

func TestStructReportsFieldAndCrossFieldTogether(t *testing.T) {
	// Two field violations plus one cross-field violation must all land in
	// the same outcome, not one at a time.
	rule := func(out Outcome) { out.AddGlobal("fields must differ") }

	out := Struct(samplePayload{Name: "", Email: "nope"}, rule)

	require.False(t, out.Valid())
	assert.Len(t, out["name"], 1)
	assert.Len(t, out["email"], 1)
	assert.Contains(t, out[GlobalField], "fields must differ")
}

func TestNotIdentical(t *testing.T) {
	cases := []struct {
		name  string
		a, b  string
		valid bool
	}{
		{"identical", "Same", "Same", false},
		{"case insensitive", "same", "SAME", false},
		{"trimmed", " same ", "same", false},
		{"different", "Support", "Customer support", true},
		{"empty second", "Support", "", true},
		{"both empty", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Outcome{}
			NotIdentical(tc.a, tc.b, "must differ")(out)
			assert.Equal(t, tc.valid, out.Valid())
			if !tc.valid {
				assert.Contains(t, out[GlobalField], "must differ")
			}
		})
	}
}
