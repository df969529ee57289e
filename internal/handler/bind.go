package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into out. On failure it writes a 400
// describing what was wrong with the body and returns false.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondValidation(c, "Invalid request body", parseBindError(err, out))
		return false
	}
	return true
}

func parseBindError(err error, out interface{}) map[string]string {
	if errors.Is(err, io.EOF) {
		return map[string]string{"body": "request body is empty"}
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string]string{"body": "invalid JSON syntax"}
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := jsonFieldName(out, typeError.Field)
		if field == "" {
			return map[string]string{"body": fmt.Sprintf("must be a JSON %s", typeError.Type.String())}
		}
		return map[string]string{field: fmt.Sprintf("must be of type %s", typeError.Type.String())}
	}

	return map[string]string{"body": err.Error()}
}

// jsonFieldName maps a decoder field path back to the json tag of out's field.
func jsonFieldName(out interface{}, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return path
	}

	first, _, _ := strings.Cut(path, ".")
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == first || sf.Name == first {
			if name == "" || name == "-" {
				return sf.Name
			}
			return name
		}
	}
	return path
}
