package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	advisorAPI "mixeduse_planner/pkg/api/advisor"
	"mixeduse_planner/pkg/api/config"
	projectionAPI "mixeduse_planner/pkg/api/projection"
	scenarioAPI "mixeduse_planner/pkg/api/scenario"
	"mixeduse_planner/pkg/core/agent"
	"mixeduse_planner/pkg/core/prompt"
	"mixeduse_planner/pkg/core/store"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Persistence: Postgres when DATABASE_URL is set, file fallback otherwise
	ctx := context.Background()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] Postgres unavailable, using file store: %v\n", err)
		}
	}
	scenarioStore := store.NewScenarioStore(store.GetPool(), os.Getenv("SCENARIO_DIR"))

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Scenario endpoints
	scenarioAPI.InitHandler(scenarioStore)
	http.HandleFunc("/api/scenarios", scenarioAPI.HandleList)
	http.HandleFunc("/api/scenarios/load", scenarioAPI.HandleLoad)
	http.HandleFunc("/api/scenarios/save", scenarioAPI.HandleSave)
	http.HandleFunc("/api/scenarios/delete", scenarioAPI.HandleDelete)

	// Projection endpoint
	projectionAPI.InitHandler(scenarioStore)
	http.HandleFunc("/api/projection/run", projectionAPI.HandleRun)

	// Advisor endpoints
	advisorAPI.InitHandler(agentMgr, scenarioStore)
	http.HandleFunc("/api/advisor/ask", advisorAPI.HandleAsk)
	http.HandleFunc("/api/advisor/stream", advisorAPI.HandleStream)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - GET  /api/scenarios")
	fmt.Println("  - GET  /api/scenarios/load")
	fmt.Println("  - POST /api/scenarios/save")
	fmt.Println("  - POST /api/scenarios/delete")
	fmt.Println("  - POST /api/projection/run")
	fmt.Println("  - POST /api/advisor/ask")
	fmt.Println("  - GET  /api/advisor/stream  (SSE streaming)")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
