package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"hallms-backend/internal/service"
)

var validate = validator.New()

// decodeAndValidate unmarshals the request body into dst and runs the
// struct-tag validators over it.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.Error{Kind: service.KindValidation, Message: "malformed request body"}
	}
	if err := validate.Struct(dst); err != nil {
		return &service.Error{Kind: service.KindValidation, Message: err.Error()}
	}
	return nil
}

// pathID pulls a positive integer path variable out of the route.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, service.Validationf("invalid %s %q", name, raw)
	}
	return int32(id), nil
}

// pagination reads page/page_size query parameters with sane defaults.
func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
