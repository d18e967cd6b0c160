package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"noleggio/internal/errors"

	"github.com/gorilla/mux"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errors.Write(w, errors.BadRequest("invalid request body"))
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		errors.Write(w, errors.BadRequest("invalid %s", name))
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. Absent means 0; a
// non-numeric value is a 400, never a silent 0.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errors.Write(w, errors.BadRequest("invalid %s", name))
		return 0, false
	}
	return v, true
}

func formInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errors.Write(w, errors.BadRequest("invalid %s", name))
		return 0, false
	}
	return v, true
}

func queryIntPtr(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errors.Write(w, errors.BadRequest("invalid %s", name))
		return nil, false
	}
	return &v, true
}
