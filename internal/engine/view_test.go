package engine

import "testing"

func TestViewMasksOpponent(t *testing.T) {
	g := newTestGame(t)
	g.Players["guest"].Active = &Card{Name: "defender", MaxHP: 20, CurrentHP: 15, Element: Water}
	g.Players["guest"].Score = 2

	view, ok := g.View("host")
	if !ok {
		t.Fatalf("expected a view for a participant")
	}

	if view.RoomID != 1 || view.CurrentPlayer != "host" {
		t.Fatalf("unexpected header: %+v", view)
	}

	// Own side is fully visible.
	if len(view.You.Hand) != HandLimit {
		t.Fatalf("own hand = %d cards, want %d", len(view.You.Hand), HandLimit)
	}
	if view.You.DeckCount != DeckSize-HandLimit {
		t.Fatalf("own deck count = %d, want %d", view.You.DeckCount, DeckSize-HandLimit)
	}

	// Opponent side is counts only, plus the card on the table.
	if view.Opponent.HandCount != HandLimit {
		t.Fatalf("opponent hand count = %d, want %d", view.Opponent.HandCount, HandLimit)
	}
	if view.Opponent.Score != 2 {
		t.Fatalf("opponent score = %d, want 2", view.Opponent.Score)
	}
	if view.Opponent.Active == nil || view.Opponent.Active.CurrentHP != 15 {
		t.Fatalf("opponent active card is public: %+v", view.Opponent.Active)
	}
	if view.Opponent.Username != "bob" {
		t.Fatalf("opponent username = %q, want bob", view.Opponent.Username)
	}
}

func TestViewIsPerViewer(t *testing.T) {
	g := newTestGame(t)

	hostView, _ := g.View("host")
	guestView, _ := g.View("guest")

	if hostView.You.ConnID != "host" || guestView.You.ConnID != "guest" {
		t.Fatalf("each viewer must see themselves as You")
	}
	if hostView.Opponent.ConnID != "guest" || guestView.Opponent.ConnID != "host" {
		t.Fatalf("each viewer must see the other as Opponent")
	}
}

func TestViewAbsentForNonParticipant(t *testing.T) {
	g := newTestGame(t)
	if _, ok := g.View("stranger"); ok {
		t.Fatalf("non-participant must not get a view")
	}
}

func TestViewActiveCardIsACopy(t *testing.T) {
	g := newTestGame(t)
	g.Players["host"].Active = &Card{Name: "attacker", MaxHP: 30, CurrentHP: 30}

	view, _ := g.View("host")
	view.You.Active.CurrentHP = 1

	if g.Players["host"].Active.CurrentHP != 30 {
		t.Fatalf("mutating a view must not touch game state")
	}
}
