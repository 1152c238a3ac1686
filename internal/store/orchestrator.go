package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_console/internal/models"
	"github.com/GTDGit/gtd_console/pkg/catalog"
)

// Fallback messages used when the product service gives no reason.
const (
	MsgListFailed   = "Failed to fetch products"
	MsgCreateFailed = "Failed to create product"
	MsgUpdateFailed = "Failed to update product"
	MsgDeleteFailed = "Failed to delete product"
)

// ProductAPI is the remote product service used by effect runs.
// *catalog.Client implements it.
type ProductAPI interface {
	List(ctx context.Context, page, pageSize int, search string) (*catalog.ProductPage, error)
	Create(ctx context.Context, draft models.ProductDraft) (*models.Product, error)
	Update(ctx context.Context, id string, draft models.ProductDraft) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// effect performs the remote call for one requested intent and emits the
// follow-up intents through put.
type effect func(ctx context.Context, in Intent, put func(Intent))

// watcher binds a requested kind to its effect and to the failure intent
// emitted when a run aborts unexpectedly.
type watcher struct {
	run     effect
	onPanic func(string) Intent
	message string
}

// Orchestrator starts one effect run per requested intent. Runs of the same
// kind are never coalesced or cancelled; each settles on its own and emits
// its own terminal intent.
type Orchestrator struct {
	api      ProductAPI
	timeout  time.Duration
	watchers map[Kind]watcher
	wg       sync.WaitGroup
}

// NewOrchestrator constructs an Orchestrator. A positive timeout bounds
// every remote call.
func NewOrchestrator(api ProductAPI, timeout time.Duration) *Orchestrator {
	o := &Orchestrator{api: api, timeout: timeout}
	o.watchers = map[Kind]watcher{
		KindListRequested:   {run: o.fetchProducts, onPanic: ListFailed, message: MsgListFailed},
		KindCreateRequested: {run: o.createProduct, onPanic: CreateFailed, message: MsgCreateFailed},
		KindUpdateRequested: {run: o.updateProduct, onPanic: UpdateFailed, message: MsgUpdateFailed},
		KindDeleteRequested: {run: o.deleteProduct, onPanic: DeleteFailed, message: MsgDeleteFailed},
	}
	return o
}

// Handle starts an effect run for in when its kind is watched and reports
// whether it did. The run executes on its own goroutine.
func (o *Orchestrator) Handle(ctx context.Context, in Intent, put func(Intent)) bool {
	return o.handle(ctx, in, put, nil)
}

// watches reports whether kind starts an effect run.
func (o *Orchestrator) watches(kind Kind) bool {
	_, ok := o.watchers[kind]
	return ok
}

// handle is Handle with an optional settled callback, invoked after the run
// has emitted all of its intents.
func (o *Orchestrator) handle(ctx context.Context, in Intent, put func(Intent), settled func()) bool {
	w, ok := o.watchers[in.Kind]
	if !ok {
		return false
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if settled != nil {
			defer settled()
		}
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("intent_id", in.ID).
					Str("kind", string(in.Kind)).
					Str("panic", fmt.Sprint(r)).
					Msg("Effect run panicked")
				put(w.onPanic(w.message))
			}
		}()

		runCtx := ctx
		if o.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}

		start := time.Now()
		log.Debug().Str("intent_id", in.ID).Str("kind", string(in.Kind)).Msg("Effect run started")
		w.run(runCtx, in, put)
		log.Debug().
			Str("intent_id", in.ID).
			Str("kind", string(in.Kind)).
			Dur("duration", time.Since(start)).
			Msg("Effect run settled")
	}()
	return true
}

// Wait blocks until every started effect run, including runs started by
// follow-up intents, has settled.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) fetchProducts(ctx context.Context, in Intent, put func(Intent)) {
	q, ok := listQuery(in)
	if !ok {
		log.Warn().Str("intent_id", in.ID).Msg("List intent without a query, ignoring")
		return
	}

	page, err := o.api.List(ctx, q.Page, q.PageSize, q.Search)
	if err != nil {
		logFailure(in, err)
		put(ListFailed(messageFor(err, MsgListFailed)))
		return
	}
	put(ListSucceeded(*page))
}

func (o *Orchestrator) createProduct(ctx context.Context, in Intent, put func(Intent)) {
	draft, ok := in.Payload.(models.ProductDraft)
	if !ok {
		log.Warn().Str("intent_id", in.ID).Msg("Create intent without a draft, ignoring")
		return
	}

	product, err := o.api.Create(ctx, draft)
	if err != nil {
		logFailure(in, err)
		put(CreateFailed(messageFor(err, MsgCreateFailed)))
		return
	}
	put(CreateSucceeded(*product))
	// Server ordering and paging may have changed; resynchronise.
	put(DefaultListRequested())
}

func (o *Orchestrator) updateProduct(ctx context.Context, in Intent, put func(Intent)) {
	req, ok := in.Payload.(UpdateRequest)
	if !ok {
		log.Warn().Str("intent_id", in.ID).Msg("Update intent without a request, ignoring")
		return
	}

	product, err := o.api.Update(ctx, req.ID, req.Draft)
	if err != nil {
		logFailure(in, err)
		put(UpdateFailed(messageFor(err, MsgUpdateFailed)))
		return
	}
	put(UpdateSucceeded(*product))
	put(DefaultListRequested())
}

func (o *Orchestrator) deleteProduct(ctx context.Context, in Intent, put func(Intent)) {
	id, ok := in.Payload.(string)
	if !ok {
		log.Warn().Str("intent_id", in.ID).Msg("Delete intent without an id, ignoring")
		return
	}

	if err := o.api.Delete(ctx, id); err != nil {
		logFailure(in, err)
		put(DeleteFailed(messageFor(err, MsgDeleteFailed)))
		return
	}
	put(DeleteSucceeded(id))
}

// messageFor picks the server's message when there is one.
func messageFor(err error, fallback string) string {
	if msg := catalog.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

func logFailure(in Intent, err error) {
	log.Warn().
		Err(err).
		Str("intent_id", in.ID).
		Str("kind", string(in.Kind)).
		Msg("Effect run failed")
}
