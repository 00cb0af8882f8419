package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beside-app/beside-backend/internal/handlers"
)

// SetupRoutes mounts the versioned API. protect guards the routes that need
// an authenticated user.
func SetupRoutes(r *chi.Mux, auth *handlers.AuthHandler, trips *handlers.TripHandler, protect func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Get("/logout", auth.Logout)
			r.Post("/forgot-password", auth.ForgotPassword)
			r.Post("/reset-password/{token}", auth.ResetPassword)
			r.Post("/send-email-otp", auth.SendEmailOTP)
			r.Post("/verify-email-otp", auth.VerifyEmailOTP)

			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Get("/current-user", auth.CurrentUser)
				r.Post("/verify", auth.VerifyUser)
			})
		})

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", trips.CreateTrip)
			r.Post("/get", trips.GetTrip)
			r.Post("/request", trips.CreateTripRequest)
			r.Post("/request/get", trips.GetTripRequest)
			r.Patch("/request/{tripReqId}", trips.UpdateTripRequest)
			r.Post("/request/{tripReqId}/photo", trips.UploadTripPhoto)
		})
	})
}
