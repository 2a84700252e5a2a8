// file: internals/middlewares/setup.go
package middlewares

import "github.com/gofiber/fiber/v2"

// SetupMiddlewares memasang middleware global, urutan penting:
// recovery paling luar supaya panic di handler mana pun tertangkap.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
}
