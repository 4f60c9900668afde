package app

import (
	"net/http"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	gohttp "github.com/km-arc/go-autowire/framework/http"
	"github.com/km-arc/go-autowire/framework/routing"
)

type UserController struct {
	users *UserService
	cfg   *config.Config
}

func NewUserController(users *UserService, cfg *config.Config) *UserController {
	return &UserController{users: users, cfg: cfg}
}

// Index handles GET /api/users.
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(map[string]any{
		"app":   c.cfg.App.Name,
		"users": c.users.List(),
	})
}

// Show handles GET /api/users/{id}.
func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	u, ok := c.users.Get(routing.Param(r, "id"))
	if !ok {
		res.NotFound("User not found.")
		return
	}
	res.Success(u)
}

// Routes resolves the controller from c and mounts its routes.
func Routes(c *container.Container, router *routing.Router) error {
	ctrl, err := container.Resolve[*UserController](c, autowire.NameOf[UserController]())
	if err != nil {
		return err
	}
	router.Prefix("/api", func(api *routing.Router) {
		api.Get("/users", ctrl.Index)
		api.Get("/users/{id}", ctrl.Show)
	})
	return nil
}
