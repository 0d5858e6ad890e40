package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"edubridge_server/config"
	"edubridge_server/controllers"
	"edubridge_server/models"
	"edubridge_server/routes"
	"edubridge_server/services"
	"edubridge_server/socket"
	"edubridge_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Socket.IO server and the notifier backed by it
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()
	notifier := socket.NewNotifier(socketServer)

	// Initialize Services
	requestPolicy := models.RequestPolicy{AllowCollegeToCollege: cfg.AllowCollegeToCollege}
	userService := &services.UserService{Dynamo: dynamoService}
	connectionService := &services.ConnectionService{Dynamo: dynamoService, Notifier: notifier, Policy: requestPolicy}
	chatService := &services.ChatService{Dynamo: dynamoService, Notifier: notifier}
	searchService := &services.SearchService{
		Dynamo:        dynamoService,
		RequestPolicy: requestPolicy,
		Policy: services.SearchPolicy{
			RequireQuery:  cfg.RequireSearchQuery,
			SearchLimit:   cfg.SearchLimit,
			FeaturedLimit: cfg.FeaturedLimit,
		},
	}
	s3Service := &services.S3Service{
		Presigner: s3.NewPresignClient(services.InitializeS3Client()),
		Bucket:    cfg.S3Bucket,
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to EduBridge")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Socket.IO transport endpoint
	r.Handle("/socket.io/", socketServer)

	// Public auth routes
	routes.RegisterAuthRoutes(r, controllers.NewAuthController(userService, cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL))

	// Everything else requires a valid bearer token
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(utils.AuthMiddleware(cfg.JWTSecret))
	routes.RegisterUserRoutes(protected, controllers.NewUserProfileController(userService, s3Service))
	routes.RegisterConnectionRoutes(protected, controllers.NewConnectionController(connectionService, userService))
	routes.RegisterChatRoutes(protected, controllers.NewChatController(chatService))
	routes.RegisterSearchRoutes(protected, controllers.NewSearchController(searchService))

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
