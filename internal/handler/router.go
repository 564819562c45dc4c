package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/recipebox/recipebox-go/internal/config"
	"github.com/recipebox/recipebox-go/internal/middleware"
	"github.com/recipebox/recipebox-go/internal/service"
)

// NewRouter assembles the full API surface. Everything under /api/v1 except
// user creation and token issuance requires a bearer token; the two public
// routes are rate-limited per client IP.
func NewRouter(cfg config.Config, auth *service.AuthService, recipes *service.RecipeService, tags *service.TagService, ingredients *service.IngredientService) http.Handler {
	userHandler := NewUserHandler(auth)
	recipeHandler := NewRecipeHandler(recipes)
	tagHandler := NewTagHandler(tags)
	ingredientHandler := NewIngredientHandler(ingredients)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logger)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Uploaded recipe images.
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaRoot))))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/user/create", userHandler.HandleCreateUser)
			r.Post("/user/token", userHandler.HandleToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(cfg.JWTSecret))

			r.Get("/user/me", userHandler.HandleMe)
			r.Patch("/user/me", userHandler.HandleUpdateMe)

			r.Route("/recipe", func(r chi.Router) {
				r.Get("/recipes", recipeHandler.HandleList)
				r.Post("/recipes", recipeHandler.HandleCreate)
				r.Get("/recipes/{recipe_id}", recipeHandler.HandleGet)
				r.Patch("/recipes/{recipe_id}", recipeHandler.HandleUpdate)
				r.Delete("/recipes/{recipe_id}", recipeHandler.HandleDelete)
				r.Post("/recipes/{recipe_id}/upload-image", recipeHandler.HandleUploadImage)

				r.Get("/tags", tagHandler.HandleList)
				r.Patch("/tags/{tag_id}", tagHandler.HandleUpdate)
				r.Delete("/tags/{tag_id}", tagHandler.HandleDelete)

				r.Get("/ingredients", ingredientHandler.HandleList)
				r.Patch("/ingredients/{ingredient_id}", ingredientHandler.HandleUpdate)
				r.Delete("/ingredients/{ingredient_id}", ingredientHandler.HandleDelete)
			})
		})
	})

	return r
}
