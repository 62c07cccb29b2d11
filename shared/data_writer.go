package shared

import (
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var jsonAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

var (
	successResponse       = mustMarshal(Response{Code: 200, Message: "Success"})
	badRequestResponse    = mustMarshal(Response{Code: 400, Message: "Bad Request"})
	notFoundResponse      = mustMarshal(Response{Code: 404, Message: "Not Found"})
	internalErrorResponse = mustMarshal(Response{Code: 500, Message: "Internal Server Error"})
)

func mustMarshal(v interface{}) []byte {
	b, _ := jsonAPI.Marshal(v)
	return b
}

func writePrecomputed(c *fiber.Ctx, httpCode int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(body)
}

func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	if data == nil {
		switch httpCode {
		case 200:
			if message == "Success" {
				return writePrecomputed(c, httpCode, successResponse)
			}
		case 400:
			if message == "Bad Request" {
				return writePrecomputed(c, httpCode, badRequestResponse)
			}
		case 404:
			if message == "Not Found" {
				return writePrecomputed(c, httpCode, notFoundResponse)
			}
		case 500:
			if message == "Internal Server Error" {
				return writePrecomputed(c, httpCode, internalErrorResponse)
			}
		}
	}

	body, err := jsonAPI.Marshal(Response{
		Code:    httpCode,
		Message: message,
		Data:    data,
	})
	if err != nil {
		return err
	}

	return writePrecomputed(c, httpCode, body)
}

func ResponseOK(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, 200, "Success", data)
}

func ResponseNotFound(c *fiber.Ctx) error {
	return ResponseJSON(c, 404, "Not Found", nil)
}

func ResponseBadRequest(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Bad Request"
	}
	return ResponseJSON(c, 400, message, nil)
}

func ResponseInternalError(c *fiber.Ctx, err error) error {
	return ResponseJSON(c, 500, "Internal Server Error", err.Error())
}

// ErrorHandler is installed as the Fiber app-level error handler. Every
// service error reaches here; AppErrors keep their status and payload,
// anything else becomes a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if appErr, ok := GetAppError(err); ok {
		return ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return ResponseInternalError(c, err)
}
