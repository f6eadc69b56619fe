package authz

import (
	"testing"

	"delishub/internal/domain"
)

func TestCanModify_Recipe(t *testing.T) {
	t.Parallel()

	recipe := &domain.Recipe{ID: "r1", UserID: "alice"}

	if !CanModify(recipe, "alice") {
		t.Fatalf("owner denied")
	}
	if CanModify(recipe, "bob") {
		t.Fatalf("non-owner allowed")
	}
}

func TestCanModify_Comment(t *testing.T) {
	t.Parallel()

	comment := &domain.Comment{ID: "c1", UserID: "bob", RecipeID: "r1"}

	if !CanModify(comment, "bob") {
		t.Fatalf("owner denied")
	}
	if CanModify(comment, "alice") {
		t.Fatalf("non-owner allowed")
	}
}

func TestCanModify_Stable(t *testing.T) {
	t.Parallel()

	// The predicate is a pure comparison: repeated calls in any order give
	// the same answer.
	recipe := &domain.Recipe{ID: "r1", UserID: "alice"}
	for i := 0; i < 100; i++ {
		if got := CanModify(recipe, "alice"); !got {
			t.Fatalf("call %d: owner denied", i)
		}
		if got := CanModify(recipe, "bob"); got {
			t.Fatalf("call %d: non-owner allowed", i)
		}
	}
}
