package rbac

import "testing"

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "attempt:submit", true},
		{"student", "report:view-own", true},
		{"student", "quiz:publish", false},
		{"student", "users:list", false},
		{"teacher", "quiz:publish", true},
		{"teacher", "generate:questions", true}, // generate:* wildcard
		{"teacher", "attempt:view-all", true},
		{"teacher", "attempt:view-own", false},
		{"admin", "anything:at-all", true},
		{"", "quiz:view", false},
		{"guest", "quiz:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestAnyAndAll(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("student", "attempt:view-all", "attempt:view-own") {
		t.Fatalf("student should match view-own via Any")
	}
	if c.All("student", "attempt:view-own", "attempt:view-all") {
		t.Fatalf("student must not satisfy All with view-all included")
	}
	if !c.All("teacher", "quiz:create", "quiz:publish") {
		t.Fatalf("teacher should satisfy authoring perms")
	}
}

func TestCustomPolicyOverridesDefault(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"report:*"}})
	if !c.Has("auditor", "report:view-all") {
		t.Fatalf("prefix wildcard should match")
	}
	if c.Has("student", "quiz:view") {
		t.Fatalf("custom policy must not inherit the default roles")
	}
}
