package app

import "testing"

func TestInTestModeFollowsEnvironment(t *testing.T) {
	t.Setenv("TALLER_TEST_MODE", "1")
	RefreshTestMode()
	if !InTestMode() {
		t.Fatal("expected test mode on")
	}

	t.Setenv("TALLER_TEST_MODE", "")
	RefreshTestMode()
	if InTestMode() {
		t.Fatal("expected test mode off")
	}

	t.Setenv("TALLER_TEST_MODE", "1")
	RefreshTestMode()
}
