package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"+55 (11) 98765-4321": "5511987654321",
		"11987654321":         "11987654321",
		"":                    "",
		"sem telefone":        "",
		"٣٤٥ 12":              "12",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestPhonePtr(t *testing.T) {
	assert.Nil(t, PhonePtr("---"))
	p := PhonePtr("(11) 9999-0000")
	if assert.NotNil(t, p) {
		assert.Equal(t, "1199990000", *p)
	}
}
