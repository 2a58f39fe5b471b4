package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))
	userAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	providerAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("provider"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Users
	mux.Post("/users/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/users/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/users/refresh", standardMiddleware.ThenFunc(app.userHandler.Refresh))
	mux.Get("/users/me", authMiddleware.ThenFunc(app.userHandler.Me))
	mux.Get("/users/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))

	// Providers
	mux.Post("/providers/sign_up", standardMiddleware.ThenFunc(app.providerHandler.SignUp))
	mux.Post("/providers/sign_in", standardMiddleware.ThenFunc(app.providerHandler.SignIn))
	mux.Post("/providers/filtered", authMiddleware.ThenFunc(app.providerHandler.GetFilteredProviders))
	mux.Get("/providers/:id", authMiddleware.ThenFunc(app.providerHandler.GetProviderByID))

	// Categories
	mux.Post("/categories", adminAuthMiddleware.ThenFunc(app.categoryHandler.CreateCategory))
	mux.Get("/categories", standardMiddleware.ThenFunc(app.categoryHandler.GetAllCategories))
	mux.Get("/categories/:id", standardMiddleware.ThenFunc(app.categoryHandler.GetCategoryByID))
	mux.Put("/categories/:id", adminAuthMiddleware.ThenFunc(app.categoryHandler.UpdateCategory))
	mux.Del("/categories/:id", adminAuthMiddleware.ThenFunc(app.categoryHandler.DeleteCategory))

	// Service requests. Literal segments go before :id captures so pat
	// matches them first.
	mux.Post("/service-requests", userAuthMiddleware.ThenFunc(app.requestHandler.CreateServiceRequest))
	mux.Get("/service-requests", authMiddleware.ThenFunc(app.requestHandler.GetServiceRequests))
	mux.Post("/service-requests/bid", providerAuthMiddleware.ThenFunc(app.bidHandler.PlaceBid))
	mux.Post("/service-requests/accept-bid", userAuthMiddleware.ThenFunc(app.bidHandler.AcceptBid))
	mux.Post("/service-requests/accept-fixed", providerAuthMiddleware.ThenFunc(app.requestHandler.AcceptFixedRequest))
	mux.Get("/service-requests/provider-bids/:providerId", providerAuthMiddleware.ThenFunc(app.bidHandler.GetProviderBids))
	mux.Get("/service-requests/:id/bids", userAuthMiddleware.ThenFunc(app.bidHandler.GetBidsForRequest))
	mux.Get("/service-requests/:id", authMiddleware.ThenFunc(app.requestHandler.GetServiceRequestByID))

	// Bookings
	mux.Get("/bookings", authMiddleware.ThenFunc(app.bookingHandler.GetBookings))
	mux.Post("/bookings", adminAuthMiddleware.ThenFunc(app.bookingHandler.CreateBooking))
	mux.Put("/bookings/:id/status", authMiddleware.ThenFunc(app.bookingHandler.UpdateStatus))
	mux.Get("/bookings/:id/messages", authMiddleware.ThenFunc(app.bookingHandler.GetMessages))
	mux.Post("/bookings/:id/messages", authMiddleware.ThenFunc(app.bookingHandler.SendMessage))
	mux.Get("/bookings/:id", authMiddleware.ThenFunc(app.bookingHandler.GetBookingByID))

	// Payments
	mux.Post("/payments/initiate", userAuthMiddleware.ThenFunc(app.paymentHandler.InitiatePayment))
	mux.Post("/payments/mark-completed", providerAuthMiddleware.ThenFunc(app.bookingHandler.MarkCompleted))
	mux.Post("/payments/confirm-release", userAuthMiddleware.ThenFunc(app.bookingHandler.ConfirmRelease))
	mux.Post("/payments/dispute", authMiddleware.ThenFunc(app.paymentHandler.RaiseDispute))
	mux.Get("/payments/wallet", authMiddleware.ThenFunc(app.paymentHandler.GetWallet))
	mux.Get("/payments/transactions/:bookingId", authMiddleware.ThenFunc(app.paymentHandler.GetTransactionByBooking))
	mux.Get("/payments/transactions", authMiddleware.ThenFunc(app.paymentHandler.GetTransactionHistory))
	mux.Post("/payments/withdraw", providerAuthMiddleware.ThenFunc(app.paymentHandler.Withdraw))
	mux.Post("/payments/bank-details", authMiddleware.ThenFunc(app.paymentHandler.SaveBankDetails))

	// Uploads
	mux.Post("/uploads/images", authMiddleware.ThenFunc(app.uploadHandler.UploadImages))

	// Stats
	mux.Get("/stats", adminAuthMiddleware.ThenFunc(app.statsHandler.GetStats))

	// WebSocket
	mux.Get("/ws", http.HandlerFunc(app.WebSocketHandler))

	return mux
}
