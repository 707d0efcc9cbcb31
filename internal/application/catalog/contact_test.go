package catalog

import (
	"strings"
	"testing"

	"autovia-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestContactLink_WithVIN(t *testing.T) {
	l := &domain.Listing{Title: "Mazda 3", Year: 2017, VIN: "JM1BN123456789000"}
	link := ContactLink(l, "525536343619")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/525536343619?text="))
	assert.Contains(t, link, "Mazda%203%202017")
	// Last six VIN characters, upper-cased.
	assert.Contains(t, link, "789000")
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "+")
}

func TestContactLink_WithoutVIN(t *testing.T) {
	l := &domain.Listing{Title: "Honda Civic", Year: 2019}
	link := ContactLink(l, "525536343619")
	assert.Contains(t, link, "Honda%20Civic%202019")
	assert.NotContains(t, link, "VIN")
}

func TestContactLink_ShortVIN(t *testing.T) {
	l := &domain.Listing{Title: "VW Jetta", Year: 2015, VIN: "abc12"}
	link := ContactLink(l, "525536343619")
	assert.Contains(t, link, "ABC12")
}

func TestContactLink_NoPhoneConfigured(t *testing.T) {
	l := &domain.Listing{Title: "Mazda 3", Year: 2017}
	assert.Empty(t, ContactLink(l, ""))
}
