package handlers

import (
	"errors"
	"net/http"
	"reflect"

	"gamyartha/internal/config"
	"gamyartha/pkg/utils"
)

// AppConfig is set once at startup and read by handlers that need tunables
// such as budget alert thresholds.
var AppConfig *config.Config

func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.String && field.String() == "" {
			return utils.ErrorHandler(errors.New("all fields are required"), "all fields are required")
		}
	}
	return nil
}

// UserIDFromContext pulls the authenticated user id set by the JWT middleware.
func UserIDFromContext(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}
