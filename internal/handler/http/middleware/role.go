package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireApprover requires a role allowed to decide advances and submit batches.
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Manager or admin access required")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Manager or admin access required")
			return
		}

		if !(user.User{Role: user.Role(roleStr)}).CanApprove() {
			response.Forbidden(w, fmt.Sprintf("Manager or admin access required, but user role is '%s'", roleStr))
			return
		}

		next.ServeHTTP(w, r)
	})
}
