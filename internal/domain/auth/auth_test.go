package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: 7, Username: "payroll.admin", Roles: []string{RoleSuperUser}}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.UserID != claims.UserID || parsed.Username != claims.Username {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
	if len(parsed.Roles) != 1 || parsed.Roles[0] != RoleSuperUser {
		t.Fatalf("roles mismatch: %v", parsed.Roles)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("right-secret", Claims{UserID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("wrong-secret", token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: 1}, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestHasAnyRole(t *testing.T) {
	user := UserContext{UserID: 1, Roles: []string{RolePayroll}}

	if !HasAnyRole(user, PayrollReadRoles) {
		t.Fatal("payroll role should grant read access")
	}
	if HasAnyRole(user, PayrollManageRoles) {
		t.Fatal("payroll role should not grant manage access")
	}
	if IsPrivileged(user) {
		t.Fatal("only super users run batch calculations")
	}

	super := UserContext{UserID: 2, Roles: []string{RoleSuperUser}}
	if !IsPrivileged(super) {
		t.Fatal("super user should be privileged")
	}
}
