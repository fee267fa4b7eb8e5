package main

import (
	"strings"
	"testing"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")

	err := run()
	if err == nil || !strings.Contains(err.Error(), "load configuration") {
		t.Fatalf("expected configuration error from run, got %v", err)
	}
}
