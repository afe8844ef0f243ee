package s3_test

import (
	"seva/infras/s3"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyFromURL(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		url    string
		want   string
	}{
		{name: "matching domain", domain: "https://cdn.seva.app", url: "https://cdn.seva.app/bookings/bk-1/before-1.jpg", want: "bookings/bk-1/before-1.jpg"},
		{name: "trailing slash on domain", domain: "https://cdn.seva.app/", url: "https://cdn.seva.app/bookings/a.jpg", want: "bookings/a.jpg"},
		{name: "foreign url", domain: "https://cdn.seva.app", url: "https://elsewhere.app/a.jpg", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3.ObjectKeyFromURL(tt.domain, tt.url))
		})
	}
}
