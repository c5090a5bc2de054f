package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"pairup_server/routes"
	"pairup_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := services.NewDynamoMatchStore(dynamoService)
	log.Println("DynamoDB client initialized.")

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selection := services.NewSelectionService(store, rng)
	generation := services.NewGenerationService(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_MODEL"))
	matchmaking := services.NewMatchmakingService(store, selection, generation)
	lifecycle := services.NewLifecycleService(store, services.NewReadmeService(), generation)
	participants := services.NewParticipantService(store)
	catalog := services.NewCatalogService(store)

	// Seed the archetype/theme catalog on first boot
	if err := catalog.SeedDefaults(context.Background()); err != nil {
		log.Printf("⚠️ Failed to seed catalog defaults: %v", err)
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to PairUp")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterParticipantRoutes(r, participants)
	routes.RegisterMatchRoutes(r, matchmaking, lifecycle)
	routes.RegisterCatalogRoutes(r, catalog)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
