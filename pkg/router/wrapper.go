package router

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/loyalx-lab/backend/pkg/errorx"
	"github.com/loyalx-lab/backend/pkg/xcontext"
)

var errMethodNotAllowed = errorx.New(errorx.BadRequest, "Method is not allowed")

// bindRequest fills req from the query string for read methods and from the
// JSON body otherwise.
func bindRequest(ctx xcontext.Context, method string, req any) error {
	switch method {
	case http.MethodGet, http.MethodDelete:
		return bindQuery(ctx.Request(), req)
	default:
		return bindBody(ctx.Request(), req)
	}
}

func bindBody(r *http.Request, req any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errorx.New(errorx.BadRequest, "Cannot read the request body")
	}

	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, req); err != nil {
		return errorx.New(errorx.BadRequest, "Cannot parse the request body")
	}

	return nil
}

func bindQuery(r *http.Request, req any) error {
	v := reflect.ValueOf(req).Elem()
	for i := 0; i < v.NumField(); i++ {
		name := v.Type().Field(i).Tag.Get("json")
		value := r.URL.Query().Get(name)
		if value == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(value)

		case reflect.Int, reflect.Int64:
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return errorx.New(errorx.BadRequest, "Invalid value of %s", name)
			}
			field.SetInt(parsed)

		case reflect.Uint64:
			parsed, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return errorx.New(errorx.BadRequest, "Invalid value of %s", name)
			}
			field.SetUint(parsed)

		case reflect.Bool:
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return errorx.New(errorx.BadRequest, "Invalid value of %s", name)
			}
			field.SetBool(parsed)
		}
	}

	return nil
}
