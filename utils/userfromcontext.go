package utils

import (
	"net/http"

	"agrimart/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	id, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

func GetRoleFromRequest(r *http.Request) string {
	role, ok := r.Context().Value(globals.RoleKey).(string)
	if !ok {
		return ""
	}
	return role
}
