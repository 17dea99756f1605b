package middleware

import (
	"time"

	"github.com/filecabinet/backend/internal/models"
	"github.com/filecabinet/backend/pkg/logger"
	"github.com/filecabinet/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

const currentUserKey = "currentUser"

func CORS(frontendURL string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: frontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("http_request", map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		})
		return err
	}
}

// UserContext is the single-user auth placeholder: every request runs as
// the seeded catalog user. Swapping in real authentication means
// replacing WithDefaultUser and nothing else.
type UserContext struct {
	DB *gorm.DB
}

func NewUserContext(db *gorm.DB) *UserContext {
	return &UserContext{DB: db}
}

func (u *UserContext) WithDefaultUser(c *fiber.Ctx) error {
	var user models.User
	err := u.DB.Where("deleted_at IS NULL").Order("created_at ASC").First(&user).Error
	if err != nil {
		logger.Error("default_user_missing", map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, "default user is not seeded")
	}

	c.Locals(currentUserKey, &user)
	return c.Next()
}

func GetCurrentUser(c *fiber.Ctx) *models.User {
	value := c.Locals(currentUserKey)
	if value == nil {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
