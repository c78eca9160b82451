package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-hq/kintai-backend-go/internal/handler/http/response"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// Actor is the caller identity handlers pass down to services explicitly.
type Actor struct {
	UserID     string
	EmployeeID string
	IsAdmin    bool
}

// ActorFromRequest resolves the actor from verified JWT claims.
func ActorFromRequest(r *http.Request) (Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return Actor{}, auth.ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Actor{}, auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return Actor{UserID: userID, EmployeeID: employeeID, IsAdmin: isAdmin}, nil
}
