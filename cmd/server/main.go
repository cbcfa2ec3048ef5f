package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/askelund/routine-manager/internal/config"
	"github.com/askelund/routine-manager/internal/database"
	"github.com/askelund/routine-manager/internal/handlers"
	"github.com/askelund/routine-manager/internal/repository"
	cronjobs "github.com/askelund/routine-manager/internal/scheduler"
	"github.com/askelund/routine-manager/internal/services"
	"github.com/askelund/routine-manager/pkg/logger"
	"github.com/askelund/routine-manager/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	readRepo := repository.NewReadRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	routineService := services.NewRoutineService(routineRepo, notificationRepo, readRepo, completionRepo)
	shiftService := services.NewShiftService(shiftRepo, sectionRepo, routineService)
	sectionService := services.NewSectionService(sectionRepo, shiftRepo)
	completionService := services.NewCompletionService(completionRepo, routineRepo)
	announcementService := services.NewAnnouncementService(announcementRepo, readRepo)
	notificationService := services.NewNotificationService(userRepo, announcementRepo, notificationRepo, routineRepo, readRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	sectionHandler := handlers.NewSectionHandler(sectionService)
	routineHandler := handlers.NewRoutineHandler(routineService)
	completionHandler := handlers.NewCompletionHandler(completionService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Authenticated routes
	authRoutes := router.PathPrefix("/").Subrouter()
	authRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	authRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))

	authRoutes.HandleFunc("/users/me", userHandler.GetMeHandler).Methods("GET")
	authRoutes.HandleFunc("/users/password", userHandler.ChangePasswordHandler).Methods("PATCH")

	authRoutes.HandleFunc("/shifts", shiftHandler.GetShiftsHandler).Methods("GET")
	authRoutes.HandleFunc("/shifts/{id}/sections", sectionHandler.GetSectionsHandler).Methods("GET")
	authRoutes.HandleFunc("/shifts/{id}/routines", routineHandler.GetRoutinesHandler).Methods("GET")

	authRoutes.HandleFunc("/routines/{id}/toggle", completionHandler.ToggleCompletionHandler).Methods("POST")
	authRoutes.HandleFunc("/completions", completionHandler.GetCompletionsHandler).Methods("GET")

	authRoutes.HandleFunc("/announcements", announcementHandler.GetAnnouncementsHandler).Methods("GET")

	authRoutes.HandleFunc("/notifications", notificationHandler.ListNotificationsHandler).Methods("GET")
	authRoutes.HandleFunc("/notifications/unread-count", notificationHandler.UnreadCountHandler).Methods("GET")
	authRoutes.HandleFunc("/notifications/{type}/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")

	// Admin routes
	adminRoutes := router.PathPrefix("/").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))

	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")
	adminRoutes.HandleFunc("/users/invite", userHandler.InviteUserHandler).Methods("POST")

	adminRoutes.HandleFunc("/shifts", shiftHandler.CreateShiftHandler).Methods("POST")
	adminRoutes.HandleFunc("/shifts/{id}", shiftHandler.UpdateShiftHandler).Methods("PUT")
	adminRoutes.HandleFunc("/shifts/{id}", shiftHandler.DeleteShiftHandler).Methods("DELETE")

	adminRoutes.HandleFunc("/sections", sectionHandler.CreateSectionHandler).Methods("POST")
	adminRoutes.HandleFunc("/sections/{id}", sectionHandler.UpdateSectionHandler).Methods("PUT")
	adminRoutes.HandleFunc("/sections/{id}", sectionHandler.DeleteSectionHandler).Methods("DELETE")

	adminRoutes.HandleFunc("/routines", routineHandler.CreateRoutineHandler).Methods("POST")
	adminRoutes.HandleFunc("/routines/{id}", routineHandler.UpdateRoutineHandler).Methods("PUT")
	adminRoutes.HandleFunc("/routines/{id}", routineHandler.DeleteRoutineHandler).Methods("DELETE")

	adminRoutes.HandleFunc("/announcements", announcementHandler.CreateAnnouncementHandler).Methods("POST")
	adminRoutes.HandleFunc("/announcements/{id}", announcementHandler.DeleteAnnouncementHandler).Methods("DELETE")

	router.Use(middleware.LoggingMiddleware)

	// Nightly maintenance
	cronjobs.StartCleanupJobs(completionRepo)

	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
