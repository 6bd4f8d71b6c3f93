package config

import (
	"strings"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("STACKFLOW_TEST_VALUE", "from-env")

	if got := getEnv("STACKFLOW_TEST_VALUE", "fallback"); got != "from-env" {
		t.Errorf("expected env value, got %q", got)
	}
	if got := getEnv("STACKFLOW_TEST_ABSENT", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("STACKFLOW_TEST_INT", "42")
	t.Setenv("STACKFLOW_TEST_NOT_INT", "forty-two")

	if got := getEnvAsInt("STACKFLOW_TEST_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := getEnvAsInt("STACKFLOW_TEST_NOT_INT", 7); got != 7 {
		t.Errorf("expected fallback on unparsable value, got %d", got)
	}
	if got := getEnvAsInt("STACKFLOW_TEST_INT_ABSENT", 7); got != 7 {
		t.Errorf("expected fallback on missing value, got %d", got)
	}
}

func TestMaskPassword(t *testing.T) {
	dsn := "host=localhost port=5432 user=postgres password=s3cret dbname=stackflow"
	masked := maskPassword(dsn)

	if strings.Contains(masked, "s3cret") {
		t.Errorf("password leaked: %q", masked)
	}
	if !strings.Contains(masked, "password=*****") {
		t.Errorf("expected masked marker, got %q", masked)
	}
	if !strings.Contains(masked, "dbname=stackflow") {
		t.Errorf("rest of the DSN must survive masking, got %q", masked)
	}

	plain := "host=localhost dbname=stackflow"
	if got := maskPassword(plain); got != plain {
		t.Errorf("DSN without password must pass through, got %q", got)
	}
}
