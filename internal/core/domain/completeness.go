package domain

import "strings"

// roleRequirement is the role-specific part of profile completeness. Each
// role variant names exactly one extra field that must be filled.
type roleRequirement interface {
	fieldName() string
	value(p Profile) *string
}

type socialsRequirement struct{}

func (socialsRequirement) fieldName() string       { return "socials" }
func (socialsRequirement) value(p Profile) *string { return p.Socials }

type servicesRequirement struct{}

func (servicesRequirement) fieldName() string       { return "services" }
func (servicesRequirement) value(p Profile) *string { return p.Services }

// roleRequirements maps roles with a dedicated variant. Roles absent from the
// map (provider, admin, the default role) fall back to servicesRequirement.
var roleRequirements = map[Role]roleRequirement{
	RoleInfluencer: socialsRequirement{},
	RoleProvider:   servicesRequirement{},
}

func requirementFor(role Role) roleRequirement {
	if req, ok := roleRequirements[role]; ok {
		return req
	}
	return servicesRequirement{}
}

type profileField struct {
	name  string
	value *string
}

// commonFields returns the five attributes every role must fill, in display order.
func (p Profile) commonFields() []profileField {
	return []profileField{
		{"bio", p.Bio},
		{"interests", p.Interests},
		{"skills", p.Skills},
		{"location", p.Location},
		{"experience", p.Experience},
	}
}

// IsComplete reports whether the profile satisfies onboarding for role: the
// five common fields plus the role's own field must be non-blank.
func (p Profile) IsComplete(role Role) bool {
	return len(p.MissingFields(role)) == 0
}

// MissingFields lists the required fields that are absent or blank after
// trimming, common fields first and the role field last.
func (p Profile) MissingFields(role Role) []string {
	var missing []string
	for _, f := range p.commonFields() {
		if blank(f.value) {
			missing = append(missing, f.name)
		}
	}
	req := requirementFor(role)
	if blank(req.value(p)) {
		missing = append(missing, req.fieldName())
	}
	return missing
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
