package client

import (
	"context"
	"testing"
)

func TestSessionNotifiesInOrder(t *testing.T) {
	s := NewSession()
	var calls []string
	s.Subscribe(func(_ context.Context, identity *Identity) {
		if identity == nil {
			calls = append(calls, "a:out")
			return
		}
		calls = append(calls, "a:"+identity.User.ID)
	})
	unsubscribe := s.Subscribe(func(_ context.Context, identity *Identity) {
		calls = append(calls, "b")
	})

	s.SetIdentity(context.Background(), "tok", User{ID: "u1"})
	if !s.Authenticated() || s.Token() != "tok" {
		t.Fatalf("expected authenticated session")
	}
	unsubscribe()
	s.Clear(context.Background())
	if s.Authenticated() || s.Identity() != nil {
		t.Fatalf("expected cleared session")
	}

	want := []string{"a:u1", "b", "a:out"}
	if len(calls) != len(want) {
		t.Fatalf("calls want %v got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls want %v got %v", want, calls)
		}
	}
}

func TestSessionIdentityIsCopy(t *testing.T) {
	s := NewSession()
	s.SetIdentity(context.Background(), "tok", User{ID: "u1", Name: "Ana"})
	identity := s.Identity()
	identity.User.Name = "changed"
	if s.Identity().User.Name != "Ana" {
		t.Fatalf("identity should be returned as a copy")
	}
}
