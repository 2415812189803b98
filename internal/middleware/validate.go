package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
	"github.com/user/moovie-watchlist/internal/utils"
)

const payloadKey = "payload"

const passwordSpecials = "@$!%*?&"

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义规则，并让错误字段名使用 json tag
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("strongpassword", strongPassword)
		_ = v.RegisterValidation("releaseyear", releaseYear)
		_ = v.RegisterValidation("urlorempty", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || v.Var(s, "url") == nil
		})
	})
}

// strongPassword 至少 8 位，包含大小写字母、数字和 @$!%*?& 之一，且只允许这些字符
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// releaseYear 不晚于当前年份 + 10
func releaseYear(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(time.Now().Year()+10)
}

// Validate 按 T 的 tag 校验 JSON 请求体。失败时直接返回 400，handler 与数据库都不会被调用。
// 整数字段接受数字字符串；通过后用 Payload[T] 取出。
func Validate[T any]() gin.HandlerFunc {
	RegisterValidators()
	return func(c *gin.Context) {
		payload, fields := Bind[T](c.Request.Body)
		if len(fields) > 0 {
			utils.Fail(c, utils.ValidationError(fields))
			return
		}

		c.Set(payloadKey, payload)
		c.Next()
	}
}

// Payload 获取 Validate 中间件解析好的请求体
func Payload[T any](c *gin.Context) *T {
	if v, exists := c.Get(payloadKey); exists {
		if p, ok := v.(*T); ok {
			return p
		}
	}
	return nil
}

// Bind 解码、类型转换、规范化并校验请求体
func Bind[T any](body io.Reader) (*T, []utils.FieldError) {
	RegisterValidators()

	var payload T
	raw := map[string]interface{}{}

	if body != nil {
		dec := json.NewDecoder(body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, []utils.FieldError{{Field: "body", Message: "Request body must be a valid JSON object"}}
		}
	}

	fields := coerce(raw, reflect.TypeOf(payload))

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, []utils.FieldError{{Field: "body", Message: "Request body must be a valid JSON object"}}
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			fields = append(fields, utils.FieldError{Field: typeErr.Field, Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeName(typeErr.Type))})
			return nil, fields
		}
		return nil, append(fields, utils.FieldError{Field: "body", Message: "Request body must be a valid JSON object"})
	}
	if len(fields) > 0 {
		return nil, fields
	}

	if err := conform.Strings(&payload); err != nil {
		return nil, []utils.FieldError{{Field: "body", Message: "Request body could not be normalized"}}
	}

	if err := binding.Validator.ValidateStruct(&payload); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, []utils.FieldError{{Field: "body", Message: err.Error()}}
		}
		for _, fe := range verrs {
			fields = append(fields, utils.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return nil, fields
	}

	return &payload, nil
}

// coerce 把整数字段上的数字字符串转为数字，无法转换的字段从 raw 中移除并记录错误
func coerce(raw map[string]interface{}, t reflect.Type) []utils.FieldError {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []utils.FieldError
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}

		value, present := raw[name]
		if !present || value == nil || !isInteger(f.Type) {
			continue
		}

		n, ok := toInteger(value)
		if !ok {
			delete(raw, name)
			fields = append(fields, utils.FieldError{Field: name, Message: name + " must be an integer"})
			continue
		}
		raw[name] = n
	}
	return fields
}

func isInteger(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func toInteger(v interface{}) (json.Number, bool) {
	var s string
	switch x := v.(type) {
	case json.Number:
		s = x.String()
	case string:
		// 与 JS Number("") 一致，空串按 0 处理，再交给范围规则判断
		s = strings.TrimSpace(x)
		if s == "" {
			return "0", true
		}
	default:
		return "", false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return json.Number(strconv.FormatInt(n, 10)), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		return json.Number(strconv.FormatInt(int64(f), 10)), true
	}
	return "", false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Bool:
		return "boolean"
	}
	return t.String()
}

// fieldMessage 校验规则 → 可读消息
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	numeric := fe.Kind() >= reflect.Int && fe.Kind() <= reflect.Float64

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Email must be a valid email address"
	case "strongpassword":
		return "Password must be at least 8 characters long Aa-Zz 0-9 " + passwordSpecials
	case "uuid", "uuid4":
		return field + " must be a valid UUID"
	case "urlorempty", "url":
		return field + " must be a valid URL"
	case "releaseyear":
		return "Release year must be a valid year"
	case "oneof":
		return field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		if numeric {
			return field + " must be at least " + fe.Param()
		}
		return field + " must be at least " + fe.Param() + " characters"
	case "max", "lte":
		if numeric {
			return field + " must be at most " + fe.Param()
		}
		return field + " must be at most " + fe.Param() + " characters"
	case "gt":
		return field + " must be greater than " + fe.Param()
	}
	return field + " is invalid"
}
