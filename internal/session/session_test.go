// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testStore connects to the test Valkey (DB 15) or skips, and returns a
// ready session store.
func testStore(t *testing.T, secure bool) *Store {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return NewStore(client, secure)
}

// signIn creates a session and returns its cookie.
func signIn(t *testing.T, store *Store, data *Data) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	id, err := store.Create(context.Background(), w, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned empty session ID")
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func reqWith(cookie *http.Cookie) *http.Request {
	r := httptest.NewRequest("GET", "/admin", nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return r
}

func TestSessionRoundTrip(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	data := &Data{
		UserID:      uuid.New(),
		Email:       "frontdesk@clinic.test",
		DisplayName: "Front Desk",
		Role:        "admin",
	}
	cookie := signIn(t, store, data)

	if !cookie.HttpOnly {
		t.Error("cookie not HttpOnly")
	}
	if cookie.Secure {
		t.Error("cookie Secure despite secure=false store")
	}

	got, err := store.Get(ctx, reqWith(cookie))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for live session")
	}
	if got.UserID != data.UserID || got.Email != data.Email || got.Role != "admin" {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestSessionGetMisses(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	// No cookie at all.
	if got, err := store.Get(ctx, reqWith(nil)); err != nil || got != nil {
		t.Errorf("no cookie: got %v, %v; want nil, nil", got, err)
	}

	// Cookie pointing at a key that never existed (or expired).
	stale := &http.Cookie{Name: CookieName, Value: "expired-or-forged"}
	if got, err := store.Get(ctx, reqWith(stale)); err != nil || got != nil {
		t.Errorf("stale cookie: got %v, %v; want nil, nil", got, err)
	}
}

func TestSessionUpdateMarksTwoFADone(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	data := &Data{UserID: uuid.New(), Email: "tfa@clinic.test", Role: "editor"}
	cookie := signIn(t, store, data)

	data.TwoFADone = true
	if err := store.Update(ctx, reqWith(cookie), data); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, reqWith(cookie))
	if err != nil || got == nil {
		t.Fatalf("Get after update: %v, %v", got, err)
	}
	if !got.TwoFADone {
		t.Error("TwoFADone not persisted")
	}
}

func TestSessionUpdateWithoutCookieFails(t *testing.T) {
	store := testStore(t, false)

	if err := store.Update(context.Background(), reqWith(nil), &Data{}); err == nil {
		t.Error("Update without cookie succeeded")
	}
}

func TestSessionDestroy(t *testing.T) {
	store := testStore(t, false)
	ctx := context.Background()

	cookie := signIn(t, store, &Data{UserID: uuid.New(), Email: "bye@clinic.test", Role: "admin"})

	w := httptest.NewRecorder()
	if err := store.Destroy(ctx, w, reqWith(cookie)); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName && c.MaxAge != -1 {
			t.Error("destroyed cookie not expired")
		}
	}

	if got, _ := store.Get(ctx, reqWith(cookie)); got != nil {
		t.Error("session still readable after Destroy")
	}

	// Destroy with no cookie is a no-op, not an error.
	if err := store.Destroy(ctx, httptest.NewRecorder(), reqWith(nil)); err != nil {
		t.Errorf("Destroy without cookie: %v", err)
	}
}

func TestSessionSecureCookieFlag(t *testing.T) {
	store := testStore(t, true)

	cookie := signIn(t, store, &Data{UserID: uuid.New(), Email: "tls@clinic.test", Role: "admin"})
	if !cookie.Secure {
		t.Error("cookie not Secure despite secure=true store")
	}
}
