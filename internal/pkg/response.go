package pkg

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// Response is the standard JSON envelope for API responses.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse carries per-field messages keyed by JSON name.
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func send(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func sendFields(c *gin.Context, status int, fields map[string]string) {
	c.JSON(status, ValidationErrorResponse{Code: status, Message: "validation error", Errors: fields})
}

func Success(c *gin.Context, data any) { send(c, http.StatusOK, "success", data) }
func Created(c *gin.Context, data any) { send(c, http.StatusCreated, "created", data) }

// List sends a page of results. result is normally a *domain.Page[T], whose
// cursor serialises as an opaque token.
func List(c *gin.Context, result any) { send(c, http.StatusOK, "success", result) }

// Error renders err with the status its AppError code maps to. Anything that
// is not an AppError becomes a bare 500. Backend causes are logged, never
// sent to the client.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		slog.ErrorContext(c.Request.Context(), "unhandled error",
			slog.String("path", c.FullPath()), slog.Any("error", err))
		send(c, status, "internal error", nil)
		return
	}
	if len(appErr.Fields) > 0 {
		sendFields(c, status, appErr.Fields)
		return
	}
	if status >= http.StatusInternalServerError && appErr.Err != nil {
		slog.ErrorContext(c.Request.Context(), appErr.Message,
			slog.String("path", c.FullPath()), slog.Any("error", appErr.Err))
	}
	send(c, status, appErr.Message, nil)
}

// ValidationError sends a 400. Validator failures are broken out per field;
// other errors are sent as the message.
func ValidationError(c *gin.Context, err error) {
	bindError(c, err, nil)
}

// BindAndValidate binds the request into obj and runs its binding rules. On
// failure the 400 has already been written and it returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		bindError(c, err, obj)
		return false
	}
	return true
}

func bindError(c *gin.Context, err error, obj any) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		send(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	names := jsonNames(obj)
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		name, ok := names[fe.StructField()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		fields[name] = fieldMessage(fe)
	}
	sendFields(c, http.StatusBadRequest, fields)
}

var jsonNameCache sync.Map // reflect.Type -> map[string]string

// jsonNames maps struct field names of obj's type to their JSON names. It
// returns nil for anything that is not a struct or pointer to one.
func jsonNames(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if m, ok := jsonNameCache.Load(t); ok {
		return m.(map[string]string)
	}

	m := make(map[string]string, t.NumField())
	for _, f := range reflect.VisibleFields(t) {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name != "" && name != "-" {
			m[f.Name] = name
		}
	}
	jsonNameCache.Store(t, m)
	return m
}

// fieldMessage renders a validator failure in the same register as the
// domain validation messages.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	}
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}
