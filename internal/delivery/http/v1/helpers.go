package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// currentUserID reads the id AuthMiddleware put on the context.
func currentUserID(c *gin.Context) int64 {
	id, _ := c.Get(string(domain.KeyUserID))
	v, _ := id.(int64)
	return v
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid ID format"))
		return 0, false
	}
	return id, true
}

// bindJSON binds the body and reports a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			c.Error(apperror.BadRequest("Request body is required"))
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			c.Error(apperror.BadRequest("Malformed JSON"))
		case errors.As(err, &typeErr):
			c.Error(apperror.BadRequest("Invalid value for " + typeErr.Field))
		default:
			c.Error(apperror.BadRequest(validation.Message(err)))
		}
		return false
	}
	return true
}

// optDate drops blank dates, which the form sends for untouched inputs.
func optDate(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// Number accepts a JSON number, a numeric string, "" or null.
type Number struct {
	Value *float64
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			n.Value = nil
			return nil
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	n.Value = &f
	return nil
}

// Int returns the value truncated to an int, or nil.
func (n Number) Int() *int {
	if n.Value == nil {
		return nil
	}
	v := int(*n.Value)
	return &v
}
