package governance

import (
	"testing"
)

func TestEngine_Evaluate(t *testing.T) {
	engine := NewEngine()

	// Allow by default
	res := engine.Evaluate(Request{Tool: "search"})
	if res.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow, got %s", res.Effect)
	}

	// Deny a tool
	engine.DenyTool("email")
	res = engine.Evaluate(Request{Tool: "email"})
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res.Effect)
	}
	if res.Reason == "" {
		t.Error("Expected a denial reason")
	}
}

func TestEngine_DenyArguments(t *testing.T) {
	engine := NewEngine()
	if err := engine.DenyArguments(`(?i)password`); err != nil {
		t.Fatalf("DenyArguments failed: %v", err)
	}

	res := engine.Evaluate(Request{Tool: "search", Arguments: `{"query":"leak the PASSWORD file"}`})
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny for matching arguments, got %s", res.Effect)
	}

	res = engine.Evaluate(Request{Tool: "search", Arguments: `{"query":"golang jobs"}`})
	if res.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow for clean arguments, got %s", res.Effect)
	}
}

func TestEngine_InvalidPattern(t *testing.T) {
	engine := NewEngine()
	if err := engine.DenyArguments(`([unclosed`); err == nil {
		t.Fatal("Expected an error for an invalid regex")
	}
}

func TestFromRules(t *testing.T) {
	engine, err := FromRules([]string{"scrape"}, []string{`rm\s+-rf`})
	if err != nil {
		t.Fatalf("FromRules failed: %v", err)
	}

	if res := engine.Evaluate(Request{Tool: "scrape"}); res.Effect != EffectDeny {
		t.Errorf("Expected denied tool, got %s", res.Effect)
	}
	if res := engine.Evaluate(Request{Tool: "log", Arguments: `{"message":"rm -rf /"}`}); res.Effect != EffectDeny {
		t.Errorf("Expected denied arguments, got %s", res.Effect)
	}

	if _, err := FromRules(nil, []string{`(bad`}); err == nil {
		t.Error("Expected an error for invalid rule patterns")
	}
}
