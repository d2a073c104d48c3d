package user

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// ActorFromContext reads the caller from the verified token stored by
// jwtauth.Verifier.
func ActorFromContext(ctx context.Context) (Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, _ := claims["user_id"].(string)
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || employeeID == "" {
		return Actor{}, ErrMissingClaims
	}
	if _, ok := RolePermissions[Role(role)]; !ok {
		return Actor{}, ErrUnknownRole
	}

	return Actor{UserID: userID, EmployeeID: employeeID, Role: Role(role)}, nil
}
