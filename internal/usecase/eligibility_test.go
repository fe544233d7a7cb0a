package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniversityEmail(t *testing.T) {
	cases := []struct {
		email    string
		accepted bool
	}{
		{"a@gmail.com", false},
		{"a@GMAIL.COM", false},
		{"a@yahoo.co.uk", false},
		{"a@tempmail.xyz", false},
		{"a@mailinator.net", false},
		{"a@myuniversity.edu", true},
		{"a@cs.stateu.edu", true},
		// Any domain outside both lists passes; this is exclusion, not an
		// allow-list.
		{"a@smallcollege.org", true},
		{"not-an-email", false},
		{"", false},
		{"trailing@", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.accepted, IsUniversityEmail(tc.email), tc.email)
	}
}
