package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"prepezia-be/internal/pkg/logger"
	"prepezia-be/internal/repository/contract"
	"prepezia-be/pkg/genai"
	"prepezia-be/pkg/storage"
)

// ErrorHandlerMiddleware maps domain error types to HTTP responses so
// controllers can just return errors.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		var genErr *genai.GenerationError
		var upErr *storage.UploadError
		var persistErr *contract.PersistenceError

		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, gorm.ErrRecordNotFound):
			code = fiber.StatusNotFound
			message = "Resource not found"
		case errors.As(err, &genErr):
			code = fiber.StatusBadGateway
			message = "Content generation failed, please retry"
		case errors.As(err, &upErr):
			code = fiber.StatusBadGateway
			message = "Media upload failed, please retry"
		case errors.As(err, &persistErr):
			code = fiber.StatusServiceUnavailable
			message = "Storage temporarily unavailable"
		}

		if code >= 500 {
			log.Error("http", "request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
		} else {
			log.Warn("http", "request rejected", map[string]interface{}{
				"path":   ctx.Path(),
				"status": code,
				"error":  err.Error(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
