// internal/domain/models/roles.go
package models

// User roles. Stored as plain strings in Mongo but validated against this
// closed set everywhere a role is written.
const (
	RoleStudent    = "student"
	RoleWarden     = "warden"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

// IsValidRole reports whether value is one of the user roles.
func IsValidRole(value string) bool {
	switch value {
	case RoleStudent, RoleWarden, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdminRole reports whether value may perform admin operations.
func IsAdminRole(value string) bool {
	return value == RoleAdmin || value == RoleSuperAdmin
}

// Staff skill tags. A staff member carries a set of these; a complaint is
// assigned exactly one.
const (
	SkillElectrician = "electrician"
	SkillPlumber     = "plumber"
	SkillCleaner     = "cleaner"
	SkillNetwork     = "network"
	SkillCarpenter   = "carpenter"
)

// AllSkills lists every staff skill tag, in display order.
var AllSkills = []string{
	SkillElectrician,
	SkillPlumber,
	SkillCleaner,
	SkillNetwork,
	SkillCarpenter,
}

// IsValidSkill reports whether value is a known staff skill tag.
func IsValidSkill(value string) bool {
	for _, s := range AllSkills {
		if s == value {
			return true
		}
	}
	return false
}
