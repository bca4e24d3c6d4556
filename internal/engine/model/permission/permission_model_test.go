package permission

import (
	"testing"
)

func validRule() Rule {
	return Rule{
		RuleId:     "rule-1",
		RoleId:     "agent",
		ResourceId: "leads",
		Action:     ActionView,
		Effect:     EffectAllow,
		Status:     RuleActive,
	}
}

func TestRuleValidate(t *testing.T) {
	r := validRule()
	if err := r.Validate(); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}

	wildcard := validRule()
	wildcard.Action = ActionAll
	if err := wildcard.Validate(); err != nil {
		t.Errorf("wildcard action rejected: %v", err)
	}
}

func TestRuleValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rule)
	}{
		{"empty role id", func(r *Rule) { r.RoleId = "" }},
		{"empty resource id", func(r *Rule) { r.ResourceId = "" }},
		{"unknown action", func(r *Rule) { r.Action = "fly" }},
		{"empty action", func(r *Rule) { r.Action = "" }},
		{"unknown effect", func(r *Rule) { r.Effect = "maybe" }},
		{"unknown status", func(r *Rule) { r.Status = "paused" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRule()
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDecodeConditions(t *testing.T) {
	r := validRule()
	r.Conditions = []byte(`{"projectId":"p1","channelId":"web"}`)

	conditions, err := r.DecodeConditions()
	if err != nil {
		t.Fatalf("DecodeConditions: %v", err)
	}
	if conditions["projectId"] != "p1" || conditions["channelId"] != "web" {
		t.Errorf("unexpected conditions: %v", conditions)
	}
}

func TestDecodeConditionsEmptyColumn(t *testing.T) {
	r := validRule()
	conditions, err := r.DecodeConditions()
	if err != nil {
		t.Fatalf("DecodeConditions on empty column: %v", err)
	}
	if conditions != nil {
		t.Errorf("expected nil conditions, got %v", conditions)
	}
}

func TestDecodeConditionsCorruptColumn(t *testing.T) {
	r := validRule()
	r.Conditions = []byte(`{"projectId":`)
	if _, err := r.DecodeConditions(); err == nil {
		t.Error("expected error on corrupt conditions column")
	}
}
