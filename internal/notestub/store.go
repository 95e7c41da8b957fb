package notestub

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/idilsaglam/todo-client/internal/model"
)

// ErrNotFound is returned for an unknown note id.
var ErrNotFound = errors.New("note not found")

// Store holds notes in memory. With a path it is backed by a single
// human-readable JSON file, rewritten on every change.
type Store struct {
	mu     sync.Mutex
	path   string
	nextID int
	notes  []model.Todo
}

// NewMemoryStore returns an empty, unpersisted store.
func NewMemoryStore() *Store {
	return &Store{nextID: 1}
}

// OpenStore loads notes from path. A missing file is an empty store.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, nextID: 1}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, &s.notes); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	for _, n := range s.notes {
		if n.ID >= s.nextID {
			s.nextID = n.ID + 1
		}
	}
	return s, nil
}

// List returns a copy of all notes in insertion order.
func (s *Store) List() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, len(s.notes))
	copy(out, s.notes)
	return out
}

// Get returns the note with id.
func (s *Store) Get(id int) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Todo{}, ErrNotFound
}

// Add stores a note under the next id.
func (s *Store) Add(in model.NewTodo) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := model.Todo{ID: s.nextID, Title: in.Title, Content: in.Content}
	s.notes = append(s.notes, n)
	if err := s.save(); err != nil {
		s.notes = s.notes[:len(s.notes)-1]
		return model.Todo{}, err
	}
	s.nextID++
	return n, nil
}

// Delete removes the note with id.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes {
		if n.ID != id {
			continue
		}
		prev := s.notes
		s.notes = append(append([]model.Todo{}, s.notes[:i]...), s.notes[i+1:]...)
		if err := s.save(); err != nil {
			s.notes = prev
			return err
		}
		return nil
	}
	return ErrNotFound
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	b, err := json.MarshalIndent(s.notes, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
