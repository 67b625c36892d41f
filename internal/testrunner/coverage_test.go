package testrunner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProfileExpandsLineRange(t *testing.T) {
	data := []byte("mode: count\n" +
		"example.com/pkg/file.go:12.12,14.3 2 1\n" +
		"example.com/pkg/file.go:20.1,20.10 1 0\n")

	locs := parseProfile(data)

	assert.Equal(t, []location{
		{Path: "example.com/pkg/file.go", Line: 12},
		{Path: "example.com/pkg/file.go", Line: 13},
		{Path: "example.com/pkg/file.go", Line: 14},
	}, locs)
}

func TestParseProfileSkipsZeroCount(t *testing.T) {
	data := []byte("mode: count\nfile.go:1.1,2.2 1 0\n")
	assert.Empty(t, parseProfile(data))
}

func TestParseProfileIgnoresMalformedLines(t *testing.T) {
	data := []byte("mode: count\nnot a profile line\n")
	assert.Empty(t, parseProfile(data))
}

func TestLeadingInt(t *testing.T) {
	assert.Equal(t, 12, leadingInt("12.34"))
	assert.Equal(t, 7, leadingInt("7"))
	assert.Equal(t, 0, leadingInt("nope"))
}
