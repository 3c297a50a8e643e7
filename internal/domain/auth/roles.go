package auth

const (
	RoleSuperUser = "Super User"
	RoleAdmin     = "Admin"
	RoleManager   = "Manager"
	RolePayroll   = "Payroll"
	RoleEmployee  = "Employee"
)

// PayrollReadRoles may view pay rules, pay codes and calculations.
var PayrollReadRoles = []string{RoleSuperUser, RoleAdmin, RolePayroll}

// PayrollManageRoles may create, update, delete, toggle and reorder rules and
// codes, and run calculations.
var PayrollManageRoles = []string{RoleSuperUser}

// AbsenceCodeRoles may list active absence codes for scheduling screens.
var AbsenceCodeRoles = []string{RoleSuperUser, RoleAdmin, RoleManager, RolePayroll}

func HasAnyRole(user UserContext, roles []string) bool {
	for _, have := range user.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IsPrivileged reports whether the caller may run payroll batch calculations.
func IsPrivileged(user UserContext) bool {
	return HasAnyRole(user, PayrollManageRoles)
}
