// Package todos is the view-model between the screens and the notes
// API. The list is read through the query cache under QueryKey; create
// and delete go straight to the server and invalidate the key on
// success so the list re-synchronizes. Nothing is updated optimistically.
package todos

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo-client/internal/model"
	"github.com/idilsaglam/todo-client/internal/query"
)

// QueryKey is the cache key of the todo list.
const QueryKey = "todos"

// Collection is the remote notes collection.
type Collection interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, in model.NewTodo) (model.Todo, error)
	Remove(ctx context.Context, id int) error
}

// Kind selects which list screen is shown.
type Kind int

const (
	Loading Kind = iota
	Failed
	Ready
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Failed:
		return "error"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// ListState is what the list screen renders. Todos is set only for
// Ready and may be empty; Err only for Failed.
type ListState struct {
	Kind  Kind
	Todos []model.Todo
	Err   error
}

// ViewModel coordinates the list, add and delete flows.
type ViewModel struct {
	client Collection
	cache  *query.Cache
	logger *log.Logger
	form   *AddForm
}

// New wires a view-model. The cache outlives the view-model and is
// closed by whoever created it.
func New(client Collection, cache *query.Cache, logger *log.Logger) *ViewModel {
	return &ViewModel{
		client: client,
		cache:  cache,
		logger: logger,
		form:   &AddForm{},
	}
}

// Form returns the add form.
func (vm *ViewModel) Form() *AddForm { return vm.form }

// Cache returns the query cache backing the list.
func (vm *ViewModel) Cache() *query.Cache { return vm.cache }

// Load reads the list through the cache, fetching only if there is no
// fresh entry, and returns the resulting state. Errors never escape;
// they become the Failed state.
func (vm *ViewModel) Load(ctx context.Context) ListState {
	_, _ = query.Read(ctx, vm.cache, QueryKey, vm.client.List)
	return vm.State()
}

// State derives the list state from the cache without fetching. An
// error hides any earlier data until a later fetch succeeds, including
// while that fetch is in flight. Otherwise cached data is shown during
// a refetch.
func (vm *ViewModel) State() ListState {
	e := vm.cache.Snapshot(QueryKey)
	if e.Err != nil {
		return ListState{Kind: Failed, Err: e.Err}
	}
	if todos, ok := query.Data[[]model.Todo](e); ok {
		return ListState{Kind: Ready, Todos: todos}
	}
	return ListState{Kind: Loading}
}

// RequestDelete deletes the todo with id and invalidates the list. On
// failure the error is logged and returned; the list is left alone.
func (vm *ViewModel) RequestDelete(ctx context.Context, id int) error {
	if err := vm.client.Remove(ctx, id); err != nil {
		vm.logger.Error("delete todo", "id", id, "err", err)
		return err
	}
	vm.cache.Invalidate(QueryKey)
	return nil
}

// Submit creates a todo from the form. It does nothing unless both
// fields are non-empty. On success the fields are cleared and the list
// invalidated; on failure they are kept so the user can retry.
func (vm *ViewModel) Submit(ctx context.Context) error {
	in, ok := vm.form.pending()
	if !ok {
		return nil
	}
	created, err := vm.client.Create(ctx, in)
	if err != nil {
		vm.logger.Error("create todo", "title", in.Title, "err", err)
		return err
	}
	vm.logger.Debug("created todo", "id", created.ID)
	vm.form.reset()
	vm.cache.Invalidate(QueryKey)
	return nil
}
