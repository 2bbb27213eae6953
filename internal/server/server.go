package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/moneta-app/moneta/internal/auth"
	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/mail"
	"github.com/moneta-app/moneta/internal/store"
)

// Server owns the fiber app and the wired controllers. Strategies and
// handlers are constructed once here and injected; nothing registers
// itself globally.
type Server struct {
	app    *fiber.App
	logger *logging.Logger
	cfg    *config.Config
}

// New wires the full HTTP surface.
func New(cfg *config.Config, repo store.RepositoryManager, mailer mail.Mailer, logger *logging.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "moneta",
		ErrorHandler: NewErrorHandler(logger.WithComponent("http")),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return !cfg.IsProduction() },
		AllowCredentials: true,
	}))

	tokens := auth.NewTokenService(
		[]byte(cfg.JWTSecret),
		cfg.TokenTTL,
		"moneta",
		logger.WithComponent("tokens"),
	)

	local := auth.NewLocalStrategy(repo.Users(), logger.WithComponent("auth"))
	bearer := auth.NewCookieTokenStrategy(repo.Users(), tokens, logger.WithComponent("auth"))

	cookies := CookiePolicy{
		Name:     cfg.CookieName,
		Secure:   true,
		SameSite: cfg.CookieSameSite(),
		TTL:      cfg.TokenTTL,
	}

	authCtl := &AuthController{
		Logger:   logger.WithComponent("auth_controller"),
		Local:    local,
		Tokens:   tokens,
		Register: auth.NewRegisterUserHandler(repo, mailer, logger.WithComponent("register")),
		Verify:   auth.NewVerifyEmailHandler(repo, logger.WithComponent("verify")),
		Cookies:  cookies,

		DeterministicIDs: cfg.DeterministicUserIDs,
	}

	categoryCtl := &CategoryController{
		Logger: logger.WithComponent("category_controller"),
		Repo:   repo,
	}

	transactionCtl := &TransactionController{
		Logger: logger.WithComponent("transaction_controller"),
		Repo:   repo,
	}

	protected := RequireAuth(bearer, cfg.CookieName)

	app.Post("/register", BodyValidator[RegisterPayload](), authCtl.RegisterPost)
	app.Get("/verify-email", authCtl.VerifyEmailGet)
	app.Post("/login", BodyValidator[LoginPayload](), authCtl.LoginPost)
	app.Post("/logout", authCtl.LogoutPost)
	app.Get("/profile", protected, authCtl.ProfileGet)

	app.Post("/categories", protected, BodyValidator[CategoryPayload](), categoryCtl.CreatePost)
	app.Get("/categories", protected, categoryCtl.ListGet)
	app.Put("/categories/:categoryId", protected, BodyValidator[CategoryPayload](), categoryCtl.UpdatePut)
	app.Delete("/categories/:categoryId", protected, categoryCtl.DeleteDelete)

	app.Post("/transactions", protected, BodyValidator[TransactionPayload](), transactionCtl.CreatePost)
	app.Get("/transactions", protected, transactionCtl.ListGet)
	app.Put("/transactions/:transactionId", protected, BodyValidator[TransactionPayload](), transactionCtl.UpdatePut)
	app.Delete("/transactions/:transactionId", protected, transactionCtl.DeleteDelete)

	return &Server{app: app, logger: logger, cfg: cfg}
}

// App exposes the fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Port)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
