package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	errx "github.com/lista-compras/server/internal/core/error"
	"github.com/lista-compras/server/internal/list/model"
	"github.com/lista-compras/server/internal/list/notify"
	"github.com/lista-compras/server/internal/list/price"
	logx "github.com/lista-compras/server/pkg/logger"
)

const (
	msgAdded   = "adcionado com sucesso! ✅"
	msgEdited  = "Editado com sucesso! ✅"
	msgRemoved = "Removido com sucesso! ✅"
	msgBought  = "adcionado No carrinho! ✅"
)

// Config wires the orchestrator to its collaborators.
type Config struct {
	Store       model.ItemStore
	Sessions    model.SessionResolver
	Editor      model.Editor
	Updates     *notify.Bus
	Errors      *notify.ErrorBus
	Notifier    *notify.Notifier
	Timings     model.Timings
	ScrollToTop func()
}

// Orchestrator keeps the four fixed category views in sync with the remote
// item store for the current user, aggregates the running total, and exposes
// the delete / buy / edit entry points.
//
// Buy is two remote calls with no rollback: when the copy into the purchased
// bucket succeeds but the delete fails, the item is counted in both places
// until removed by hand.
type Orchestrator struct {
	store       model.ItemStore
	sessions    model.SessionResolver
	editor      model.Editor
	updates     *notify.Bus
	errorBus    *notify.ErrorBus
	notifier    *notify.Notifier
	timings     model.Timings
	scrollToTop func()
	log         zerolog.Logger

	mu         sync.Mutex
	started    bool
	userID     string
	views      []*model.CategoryView
	total      decimal.Decimal
	open       model.Category
	generation uint64

	cancel     context.CancelFunc
	cancelSubs []func()
	wg         sync.WaitGroup
}

func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		store:       cfg.Store,
		sessions:    cfg.Sessions,
		editor:      cfg.Editor,
		updates:     cfg.Updates,
		errorBus:    cfg.Errors,
		notifier:    cfg.Notifier,
		timings:     cfg.Timings,
		scrollToTop: cfg.ScrollToTop,
		log:         logx.With("orchestrator"),
		views:       model.NewCategoryViews(),
		total:       decimal.Zero,
	}
}

// Start subscribes to the error and update buses and resolves the session.
// When a user is present the first reload runs after the configured startup
// delay. All background work is tied to the lifecycle context cancelled by
// Stop, so in-flight fetches do not outlive the orchestrator. Start is
// one-shot: calls after the first are ignored.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		o.log.Warn().Msg("orchestrator already started, ignoring")
		return
	}
	o.started = true
	o.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	errCh, cancelErrs := o.errorBus.Subscribe()
	updCh, cancelUpds := o.updates.Subscribe()
	o.cancelSubs = []func(){cancelErrs, cancelUpds}

	o.wg.Add(3)
	go func() {
		defer o.wg.Done()
		for msg := range errCh {
			o.notifier.ShowError(msg, o.timings.Error)
		}
	}()
	go func() {
		defer o.wg.Done()
		for range updCh {
			o.LoadItems(ctx)
		}
	}()
	go func() {
		defer o.wg.Done()
		o.resolveSession(ctx)
	}()
}

// Stop tears the orchestrator down: lifecycle context cancelled, bus
// subscriptions dropped, pending notification clears stopped.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	for _, cancelSub := range o.cancelSubs {
		cancelSub()
	}
	o.wg.Wait()
	o.notifier.Stop()
}

func (o *Orchestrator) resolveSession(ctx context.Context) {
	user, err := o.sessions.CurrentUser(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("failed to resolve session")
		return
	}
	if user == nil {
		o.log.Debug().Msg("no active session, skipping initial load")
		return
	}

	o.mu.Lock()
	o.userID = user.UserID
	o.mu.Unlock()

	// debounce against the session provider racing the first render
	select {
	case <-ctx.Done():
		return
	case <-time.After(o.timings.StartupDelay):
	}
	o.LoadItems(ctx)
}

// LoadItems fetches all four categories concurrently and recomputes the
// total. A failed category logs, raises the error notification and falls
// back to an empty list without aborting its siblings. Overlapping reloads
// are sequenced by generation: a snapshot is dropped whenever a newer reload
// started after it, so stale fetches can never overwrite fresher state.
func (o *Orchestrator) LoadItems(ctx context.Context) {
	o.mu.Lock()
	userID := o.userID
	if userID == "" {
		o.mu.Unlock()
		return
	}
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	categories := model.Categories()
	results := make([][]model.Item, len(categories))

	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(i int, category model.Category) {
			defer wg.Done()
			items, err := o.store.ListByCategory(ctx, userID, category)
			if err != nil {
				o.log.Error().Err(err).Str("category", category.String()).Msg("failed to load category")
				o.showFetchError(err)
				return
			}
			results[i] = items
		}(i, category)
	}
	wg.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		o.log.Debug().Uint64("generation", gen).Msg("dropping stale reload snapshot")
		return
	}
	for i, view := range o.views {
		if results[i] == nil {
			results[i] = []model.Item{}
		}
		view.Items = results[i]
	}
	o.total = price.Total(o.views)
}

func (o *Orchestrator) showFetchError(err error) {
	message := errx.LoadItemsErrorMessage
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	o.notifier.ShowError(message, o.timings.Error)
}

// DeleteItem removes one item, reloads and raises the removed notification.
// A failed remote delete only logs: no reload, no success message.
func (o *Orchestrator) DeleteItem(ctx context.Context, category model.Category, itemID string) {
	userID := o.currentUserID()
	if userID == "" {
		return
	}
	if err := o.store.DeleteItem(ctx, userID, category, itemID); err != nil {
		o.log.Error().Err(err).Str("category", category.String()).Str("itemID", itemID).Msg("failed to delete item")
		return
	}
	o.LoadItems(ctx)
	o.notifier.ShowSuccess(msgRemoved, o.timings.Removed)
}

// BuyItem copies the item into the purchased bucket, deletes it from its
// category, reloads and raises the bought notification. The two remote calls
// are not atomic and nothing is rolled back; a failure anywhere aborts with
// a log entry only.
func (o *Orchestrator) BuyItem(ctx context.Context, item model.Item, category model.Category) {
	userID := o.currentUserID()
	if userID == "" {
		return
	}
	if err := o.store.AddPurchased(ctx, userID, category, item); err != nil {
		o.log.Error().Err(err).Str("category", category.String()).Str("itemID", item.ID).Msg("failed to add item to purchased bucket")
		return
	}
	if err := o.store.DeleteItem(ctx, userID, category, item.ID); err != nil {
		// the item now lives in both lists until removed by hand
		o.log.Error().Err(err).Str("category", category.String()).Str("itemID", item.ID).Msg("failed to delete bought item")
		return
	}
	o.LoadItems(ctx)
	o.notifier.ShowSuccess(msgBought, o.timings.Bought)
}

// EditItem hands the item to the editor pre-filled for edit mode and scrolls
// to the top. The editor owns the remote update and fires ItemsChanged when
// it finishes.
func (o *Orchestrator) EditItem(item model.Item, category model.Category) {
	if o.editor == nil {
		o.log.Warn().Msg("editor is not wired, ignoring edit request")
		return
	}
	o.editor.StartEdit(item, category)
	if o.scrollToTop != nil {
		o.scrollToTop()
	}
}

// ClearList drops every category list for the current user and reloads.
func (o *Orchestrator) ClearList(ctx context.Context) {
	userID := o.currentUserID()
	if userID == "" {
		return
	}
	if err := o.store.ClearLists(ctx, userID); err != nil {
		o.log.Error().Err(err).Msg("failed to clear lists")
		return
	}
	o.LoadItems(ctx)
}

// NotifyAdded raises the added notification on behalf of the editor flow.
func (o *Orchestrator) NotifyAdded() {
	o.notifier.ShowSuccess(msgAdded, o.timings.Added)
}

// NotifyEdited raises the edited notification on behalf of the editor flow.
func (o *Orchestrator) NotifyEdited() {
	o.notifier.ShowSuccess(msgEdited, o.timings.Edited)
}

// ToggleDetails opens the given category's accordion, closing it when it is
// already the open one. At most one category is open at a time.
func (o *Orchestrator) ToggleDetails(category model.Category) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.open == category {
		o.open = ""
	} else {
		o.open = category
	}
}

// OpenCategory reports which category is expanded, if any.
func (o *Orchestrator) OpenCategory() (model.Category, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open, o.open != ""
}

// Views returns a copy of the four category views in display order.
func (o *Orchestrator) Views() []model.CategoryView {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.CategoryView, 0, len(o.views))
	for _, view := range o.views {
		items := make([]model.Item, len(view.Items))
		copy(items, view.Items)
		out = append(out, model.CategoryView{Category: view.Category, Items: items})
	}
	return out
}

// TotalPrice returns the aggregate of the most recent completed reload.
func (o *Orchestrator) TotalPrice() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.total
}

func (o *Orchestrator) currentUserID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.userID
}
