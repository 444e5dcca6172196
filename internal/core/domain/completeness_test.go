package domain

import (
	"reflect"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func fullProfile() Profile {
	return Profile{
		Bio:        strPtr("Photographer"),
		Interests:  strPtr("travel"),
		Skills:     strPtr("editing"),
		Location:   strPtr("Lisbon"),
		Experience: strPtr("5 years"),
		Services:   strPtr("portraits"),
		Socials:    strPtr("@ava"),
	}
}

func TestProfile_IsComplete_AllFieldsPresent(t *testing.T) {
	p := fullProfile()
	for _, role := range []Role{RoleProvider, RoleInfluencer, RoleAdmin, Role("member")} {
		if !p.IsComplete(role) {
			t.Errorf("role %q: expected complete profile", role)
		}
	}
}

func TestProfile_IsComplete_RoleSpecificField(t *testing.T) {
	p := fullProfile()
	p.Socials = nil
	if p.IsComplete(RoleInfluencer) {
		t.Error("influencer without socials must be incomplete")
	}
	if !p.IsComplete(RoleProvider) {
		t.Error("provider does not need socials")
	}

	p = fullProfile()
	p.Services = nil
	if p.IsComplete(RoleProvider) {
		t.Error("provider without services must be incomplete")
	}
	if p.IsComplete(Role("member")) {
		t.Error("default role falls back to services")
	}
	if !p.IsComplete(RoleInfluencer) {
		t.Error("influencer does not need services")
	}
}

func TestProfile_IsComplete_WhitespaceIsBlank(t *testing.T) {
	p := fullProfile()
	p.Bio = strPtr("   \t\n")
	if p.IsComplete(RoleProvider) {
		t.Error("whitespace-only bio must count as missing")
	}
}

func TestProfile_IsComplete_ToggleEachRequiredField(t *testing.T) {
	cases := []struct {
		role  Role
		field func(*Profile) **string
	}{
		{RoleProvider, func(p *Profile) **string { return &p.Bio }},
		{RoleProvider, func(p *Profile) **string { return &p.Interests }},
		{RoleProvider, func(p *Profile) **string { return &p.Skills }},
		{RoleProvider, func(p *Profile) **string { return &p.Location }},
		{RoleProvider, func(p *Profile) **string { return &p.Experience }},
		{RoleProvider, func(p *Profile) **string { return &p.Services }},
		{RoleInfluencer, func(p *Profile) **string { return &p.Socials }},
	}

	for i, tc := range cases {
		p := fullProfile()
		slot := tc.field(&p)
		original := *slot

		first := p.IsComplete(tc.role)
		if first != p.IsComplete(tc.role) {
			t.Fatalf("case %d: evaluation is not stable", i)
		}
		if !first {
			t.Fatalf("case %d: expected complete before toggle", i)
		}

		*slot = strPtr("")
		if p.IsComplete(tc.role) {
			t.Errorf("case %d: expected incomplete after clearing field", i)
		}

		*slot = original
		if !p.IsComplete(tc.role) {
			t.Errorf("case %d: expected complete after restoring field", i)
		}
	}
}

func TestProfile_MissingFields_Order(t *testing.T) {
	p := Profile{Skills: strPtr("x"), Socials: strPtr("@x")}

	got := p.MissingFields(RoleInfluencer)
	want := []string{"bio", "interests", "location", "experience"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("influencer: want %v, got %v", want, got)
	}

	got = p.MissingFields(RoleProvider)
	want = []string{"bio", "interests", "location", "experience", "services"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("provider: want %v, got %v", want, got)
	}
}

func TestProfile_MissingFields_EmptyProfile(t *testing.T) {
	got := Profile{}.MissingFields(RoleAdmin)
	if len(got) != 6 {
		t.Fatalf("expected 6 missing fields, got %v", got)
	}
}

func TestNewDefaultListing(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewDefaultListing("01HZ", "Ava", now)

	if l.Name != "Ava's Service" {
		t.Errorf("name: got %q", l.Name)
	}
	if l.Provider != "Ava" {
		t.Errorf("provider: got %q", l.Provider)
	}
	if l.Price != "1000" || l.Status != "Active" {
		t.Errorf("unexpected defaults: price=%q status=%q", l.Price, l.Status)
	}
	if !l.CreatedAt.Equal(now) || l.ID != "01HZ" {
		t.Errorf("unexpected id/created_at: %q %v", l.ID, l.CreatedAt)
	}
}

func TestProfilePatch_Empty(t *testing.T) {
	if !(ProfilePatch{}).Empty() {
		t.Error("zero patch must be empty")
	}
	if (ProfilePatch{Profile: Profile{Bio: strPtr("")}}).Empty() {
		t.Error("patch with an explicit empty bio is not empty")
	}
}
