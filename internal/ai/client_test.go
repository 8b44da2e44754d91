package ai

import "testing"

func TestDefaultModel(t *testing.T) {
	t.Setenv("WIKIPLAN_MODEL", "")
	if got := DefaultModel(); got != ModelDefault {
		t.Errorf("DefaultModel() = %q, want %q", got, ModelDefault)
	}

	t.Setenv("WIKIPLAN_MODEL", "claude-test-override")
	if got := DefaultModel(); got != "claude-test-override" {
		t.Errorf("env override not honored: %q", got)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error without an API key")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != ModelDefault {
		t.Errorf("model = %q, want %q", c.Model(), ModelDefault)
	}
	if c.maxTokens != 4096 {
		t.Errorf("maxTokens = %d, want 4096", c.maxTokens)
	}
	if c.circuitBreaker == nil {
		t.Error("default retry config should enable the circuit breaker")
	}
}

func TestHealthCheck_ClosedCircuit(t *testing.T) {
	c, err := NewClient(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.HealthCheck(); err != nil {
		t.Errorf("fresh client should be healthy: %v", err)
	}
}
