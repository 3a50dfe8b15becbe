package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/footprint/pkg/identity"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/middleware"
)

// maxBodyBytes bounds JSON and CSV request bodies.
const maxBodyBytes = 10 << 20

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func errorBody(code, message string) map[string]interface{} {
	return map[string]interface{}{"code": code, "message": message}
}

func badRequest(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusBadRequest, errorBody("bad_request", message))
}

func notFound(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusNotFound, errorBody("not_found", message))
}

func unprocessable(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnprocessableEntity, errorBody("validation_failed", message))
}

func tooLarge(w http.ResponseWriter) {
	respondWithError(w, http.StatusRequestEntityTooLarge, errorBody("too_large", fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes)))
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func unavailable(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusServiceUnavailable, errorBody("unavailable", message))
}

func internalError(s *server.Server, w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondWithError(w, http.StatusInternalServerError, errorBody("internal", "internal server error"))
}

// fieldError is one failed validation rule.
type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func respondValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		unprocessable(w, err.Error())
		return
	}
	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	body := errorBody("validation_failed", "request failed validation")
	body["fields"] = fields
	respondWithError(w, http.StatusUnprocessableEntity, body)
}

// decodeJSON reads and validates a JSON body. It writes the error response
// and returns false when the request can't be used.
func decodeJSON(s *server.Server, w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if isTooLarge(err) {
			tooLarge(w)
			return false
		}
		badRequest(w, "Invalid JSON: "+err.Error())
		return false
	}
	if err := s.Validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// currentIdentity returns the identity set by the JWT middleware.
func currentIdentity(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	id, ok := identity.Get(r.Context())
	if !ok || id == nil || id.UserID == "" {
		middleware.Unauthorized(w, "Unable to determine identity")
		return nil, false
	}
	return id, true
}

func clientIP(id *identity.Identity) string {
	if id == nil || id.RemoteIP == nil {
		return ""
	}
	return id.RemoteIP.String()
}

// intParam parses an optional positive integer query parameter.
func intParam(r *http.Request, name string, def, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	if max > 0 && n > max {
		return 0, fmt.Errorf("%s must be at most %d", name, max)
	}
	return n, nil
}
