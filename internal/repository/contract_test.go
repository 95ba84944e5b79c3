package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// missingID is well-formed but never assigned by either backend in tests.
const missingID = "000000000000000000000000"

// testRepositoryContract exercises the behaviour every TodoRepository must
// share. repo must start empty.
func testRepositoryContract(t *testing.T, repo TodoRepository) {
	ctx := context.Background()

	t.Run("EmptyList", func(t *testing.T) {
		todos, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if todos == nil || len(todos) != 0 {
			t.Fatalf("List() = %#v, want empty slice", todos)
		}
	})

	var id string
	t.Run("InsertThenList", func(t *testing.T) {
		var err error
		id, err = repo.Insert(ctx, "buy milk", false)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if !IsValidID(id) {
			t.Fatalf("Insert() id %q is malformed", id)
		}

		todos, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(todos) != 1 {
			t.Fatalf("List() returned %d todos, want 1", len(todos))
		}
		if got := todos[0]; got.ID != id || got.Title != "buy milk" || got.Completed {
			t.Errorf("List()[0] = %+v", got)
		}
	})

	t.Run("FindByID", func(t *testing.T) {
		todo, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if todo.ID != id {
			t.Errorf("FindByID().ID = %q, want %q", todo.ID, id)
		}
		if _, err := repo.FindByID(ctx, missingID); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindByID(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		ok, err := repo.UpdateByID(ctx, id, "x", true)
		if err != nil || !ok {
			t.Fatalf("UpdateByID() = %v, %v; want true, nil", ok, err)
		}
		todo, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if todo.Title != "x" || !todo.Completed {
			t.Errorf("after update = %+v", todo)
		}

		// Writing identical values still counts as a match.
		ok, err = repo.UpdateByID(ctx, id, "x", true)
		if err != nil || !ok {
			t.Errorf("idempotent UpdateByID() = %v, %v; want true, nil", ok, err)
		}

		// Hex case is not significant in identifiers.
		ok, err = repo.UpdateByID(ctx, strings.ToUpper(id), "x", true)
		if err != nil || !ok {
			t.Errorf("UpdateByID(upper-case id) = %v, %v; want true, nil", ok, err)
		}
		upper, err := repo.FindByID(ctx, strings.ToUpper(id))
		if err != nil || upper.ID != id {
			t.Errorf("FindByID(upper-case id) = %+v, %v; want id %q", upper, err, id)
		}

		ok, err = repo.UpdateByID(ctx, missingID, "x", true)
		if err != nil || ok {
			t.Errorf("UpdateByID(missing) = %v, %v; want false, nil", ok, err)
		}

		if _, err := repo.UpdateByID(ctx, "not-an-id", "x", true); !errors.Is(err, ErrInvalidID) {
			t.Errorf("UpdateByID(malformed) error = %v, want ErrInvalidID", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		ok, err := repo.DeleteByID(ctx, strings.ToUpper(id))
		if err != nil || !ok {
			t.Fatalf("DeleteByID(upper-case id) = %v, %v; want true, nil", ok, err)
		}
		ok, err = repo.DeleteByID(ctx, id)
		if err != nil || ok {
			t.Errorf("second DeleteByID() = %v, %v; want false, nil", ok, err)
		}
		if _, err := repo.DeleteByID(ctx, "xyz"); !errors.Is(err, ErrInvalidID) {
			t.Errorf("DeleteByID(malformed) error = %v, want ErrInvalidID", err)
		}

		todos, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(todos) != 0 {
			t.Errorf("List() after delete returned %d todos", len(todos))
		}
	})

	t.Run("ConcurrentInserts", func(t *testing.T) {
		const n = 20
		ids := make([]string, n)
		errs := make([]error, n)

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], errs[i] = repo.Insert(ctx, fmt.Sprintf("item %d", i), i%2 == 0)
			}(i)
		}
		wg.Wait()

		seen := make(map[string]bool, n)
		for i := range ids {
			if errs[i] != nil {
				t.Fatalf("Insert(%d) error = %v", i, errs[i])
			}
			if seen[ids[i]] {
				t.Fatalf("duplicate id %q", ids[i])
			}
			seen[ids[i]] = true
		}

		todos, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(todos) != n {
			t.Errorf("List() returned %d todos, want %d", len(todos), n)
		}
	})
}
