package todos

import (
	"sync"

	"github.com/idilsaglam/todo-client/internal/model"
)

// AddForm holds the two fields being composed. Submissions run off the
// UI goroutine, so access is locked.
type AddForm struct {
	mu      sync.Mutex
	title   string
	content string
}

// UpdateTitle replaces the title field.
func (f *AddForm) UpdateTitle(s string) {
	f.mu.Lock()
	f.title = s
	f.mu.Unlock()
}

// UpdateContent replaces the content field.
func (f *AddForm) UpdateContent(s string) {
	f.mu.Lock()
	f.content = s
	f.mu.Unlock()
}

// Values returns the current fields.
func (f *AddForm) Values() (title, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, f.content
}

// CanSubmit reports whether both fields are non-empty. Whitespace counts
// as content.
func (f *AddForm) CanSubmit() bool {
	_, ok := f.pending()
	return ok
}

func (f *AddForm) pending() (model.NewTodo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.title == "" || f.content == "" {
		return model.NewTodo{}, false
	}
	return model.NewTodo{Title: f.title, Content: f.content}, true
}

func (f *AddForm) reset() {
	f.mu.Lock()
	f.title, f.content = "", ""
	f.mu.Unlock()
}
