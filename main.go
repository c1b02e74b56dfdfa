package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/lista-compras/server/internal/core"
	"github.com/lista-compras/server/internal/list/model"
	"github.com/lista-compras/server/internal/list/notify"
	"github.com/lista-compras/server/internal/list/orchestrator"
	"github.com/lista-compras/server/internal/list/price"
	"github.com/lista-compras/server/internal/list/repo"
	"github.com/lista-compras/server/internal/list/session"
	logx "github.com/lista-compras/server/pkg/logger"
	pkgredis "github.com/lista-compras/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the shopping list,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	Environment  string `envconfig:"APP_ENV" default:"development"`
	SessionToken string `envconfig:"SESSION_TOKEN" default:"local-dev-session"`
	SessionTTL   string `envconfig:"SESSION_TTL" default:"24h"`

	List model.ListConfig
}

// editorStub stands in for the add/edit form: it applies the update remotely
// and fires ItemsChanged, which is the editor's side of the contract.
type editorStub struct {
	store   model.ItemStore
	updates *notify.Bus
	userID  string
}

func (e *editorStub) StartEdit(item model.Item, category model.Category) {
	fmt.Printf("✏️  editing %q in %s\n", item.Name, category.Label())
	item.Name = item.Name + " (editado)"
	if err := e.store.UpdateItem(context.Background(), e.userID, category, item); err != nil {
		log.Printf("Warning: edit failed: %v", err)
		return
	}
	e.updates.Publish()
}

func main() {
	fmt.Println("Testing Shopping List Orchestrator...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	sessionTTL, err := time.ParseDuration(envCfg.SessionTTL)
	if err != nil {
		log.Fatalf("Invalid SESSION_TTL '%s': %v", envCfg.SessionTTL, err)
	}
	timings, err := envCfg.List.Timings()
	if err != nil {
		log.Fatalf("Invalid list timings: %v", err)
	}

	store := repo.NewRedisItemStore(rdb)
	sessions := session.NewRedisSessionRepository(rdb, envCfg.SessionToken, sessionTTL)

	// Seed a user session and a few items so the run is self-contained.
	user := model.User{UserID: "demo-user", Name: "Demo"}
	if err := sessions.SaveUser(ctx, user); err != nil {
		log.Fatalf("Failed to seed session: %v", err)
	}
	if err := store.ClearLists(ctx, user.UserID); err != nil {
		log.Fatalf("Failed to reset lists: %v", err)
	}

	two := 2
	seed := []struct {
		category model.Category
		item     model.Item
	}{
		{model.CategoryCold, model.NewItem("queijo", "10.00", &two)},
		{model.CategoryPerishables, model.NewItem("banana", "5.50", nil)},
		{model.CategoryCleaning, model.NewItem("detergente", "3.25", nil)},
	}
	for _, s := range seed {
		if err := store.AddItem(ctx, user.UserID, s.category, s.item); err != nil {
			log.Fatalf("Failed to seed item %q: %v", s.item.Name, err)
		}
	}

	updates := notify.NewBus()
	errBus := notify.NewErrorBus()
	notifier := notify.NewNotifier(nil)

	editor := &editorStub{store: store, updates: updates, userID: user.UserID}
	orch := orchestrator.New(orchestrator.Config{
		Store:       store,
		Sessions:    sessions,
		Editor:      editor,
		Updates:     updates,
		Errors:      errBus,
		Notifier:    notifier,
		Timings:     timings,
		ScrollToTop: func() { fmt.Println("⬆️  scrolled to top") },
	})

	orch.Start(ctx)
	defer orch.Stop()

	// give the startup-delayed first reload time to land
	time.Sleep(timings.StartupDelay + 500*time.Millisecond)

	printState := func(stage string) {
		fmt.Printf("\n── %s ──\n", stage)
		for _, view := range orch.Views() {
			fmt.Printf("%-12s %d item(s)\n", view.Category.Label(), len(view.Items))
		}
		fmt.Printf("total: %s\n", price.MaskCurrency(orch.TotalPrice()))
	}

	printState("after initial load")

	views := orch.Views()
	cold := views[0]
	if len(cold.Items) > 0 {
		orch.BuyItem(ctx, cold.Items[0], cold.Category)
		fmt.Println("notification:", notifier.SuccessMessage())
		printState("after buy")
	}

	perishables := orch.Views()[1]
	if len(perishables.Items) > 0 {
		orch.EditItem(perishables.Items[0], perishables.Category)
		time.Sleep(200 * time.Millisecond)
		orch.NotifyEdited()
		fmt.Println("notification:", notifier.SuccessMessage())
		printState("after edit")
	}

	cleaning := orch.Views()[2]
	if len(cleaning.Items) > 0 {
		orch.DeleteItem(ctx, cleaning.Category, cleaning.Items[0].ID)
		fmt.Println("notification:", notifier.SuccessMessage())
		printState("after delete")
	}

	bought, err := store.ListPurchased(ctx, user.UserID, model.CategoryCold)
	if err != nil {
		log.Fatalf("Failed to list purchased items: %v", err)
	}
	fmt.Printf("\npurchased (%s): %d item(s)\n", model.CategoryCold.Label(), len(bought))

	fmt.Println("🎉 Shopping list run completed successfully!")
}
