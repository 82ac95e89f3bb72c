package routes

import (
	"Cookbook-Backend/domain"
	"Cookbook-Backend/internal/api/handlers"
	"Cookbook-Backend/internal/api/presenters"
	"Cookbook-Backend/internal/middleware"
	"Cookbook-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recipes()
	c.Tags()
	c.Ingredients()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/set_password", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.ChangePassword)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
		user.Get("/subscriptions", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetSubscriptions)
		user.Get("/:id", c.Middleware.SoftAuthMiddleware(c.JWTService), c.UserHandler.GetProfile)
		user.Post("/:id/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	softAuth := c.Middleware.SoftAuthMiddleware(c.JWTService)
	{
		// download_shopping_cart must come before the :id routes
		recipes.Get("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingCart)

		recipes.Get("", softAuth, c.RecipeHandler.GetRecipes)
		recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
		recipes.Get("/:id", softAuth, c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)

		recipes.Post("/:id/favorite", auth, c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", auth, c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", auth, c.RecipeHandler.AddToCart)
		recipes.Delete("/:id/shopping_cart", auth, c.RecipeHandler.RemoveFromCart)
	}
}

func (c *Config) Tags() {
	tags := c.App.Group("/api/v1/tags")
	{
		tags.Get("", c.TagHandler.GetTags)
		tags.Get("/:id", c.TagHandler.GetTagByID)
		tags.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.adminOnly, c.TagHandler.CreateTag)
	}
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/v1/ingredients")
	{
		ingredients.Get("", c.IngredientHandler.GetIngredients)
		ingredients.Get("/:id", c.IngredientHandler.GetIngredientByID)
		ingredients.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.adminOnly, c.IngredientHandler.CreateIngredient)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) adminOnly(ctx *fiber.Ctx) error {
	if role, _ := ctx.Locals("role").(string); role != domain.RoleAdmin {
		return presenters.ErrorResponse(ctx, fiber.StatusForbidden, domain.MesaageUserNotAllowed, domain.ErrUserNotAllowed)
	}
	return ctx.Next()
}
