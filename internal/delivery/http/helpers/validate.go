package helpers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest and validates it.
// JSON bodies are decoded with DisallowUnknownFields; application/x-www-form-urlencoded
// bodies are mapped onto dest's json field names. dest is validated with either
// Validator or ozzo-validation's Validatable. On failure it writes a 400 JSON error
// and returns false; callers should return immediately.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := decodeForm(r, dest); err != nil {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return false
		}
	} else {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return false
		}
	}
	return Validate(w, dest)
}

// Validate runs dest's validation and writes a 400 JSON error when it fails.
func Validate(w http.ResponseWriter, dest any) bool {
	switch v := dest.(type) {
	case Validator:
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	case validation.Validatable:
		if err := v.Validate(); err != nil {
			field, message := firstValidationError(err)
			WriteJSONFieldError(w, http.StatusBadRequest, ErrCodeBadRequest, field, message)
			return false
		}
	}
	return true
}

// firstValidationError picks a deterministic field and message from an ozzo error.
func firstValidationError(err error) (string, string) {
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "", err.Error()
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields[0], err.Error()
}

// decodeForm copies the first value of each form field into dest via its json tags.
func decodeForm(r *http.Request, dest any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	values := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}
