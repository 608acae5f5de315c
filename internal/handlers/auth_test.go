package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vibenest/internal/service"
)

func TestSignUp(t *testing.T) {
	auth := &mockAuth{signUpID: 42}
	r := newTestRouter(&service.Service{Authorization: auth}, Config{})

	body := bytes.NewBufferString(`{"username":"alice","password":"s3cr3t"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	if auth.lastSignUpUsername != "alice" {
		t.Fatalf("username not forwarded: %q", auth.lastSignUpUsername)
	}

	var resp map[string]int
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["id"] != 42 {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestSignUp_MissingFields(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}}, Config{})

	body := bytes.NewBufferString(`{"username":"alice"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSignIn(t *testing.T) {
	auth := &mockAuth{genTokenToken: "jwt-token"}
	r := newTestRouter(&service.Service{Authorization: auth}, Config{})

	body := bytes.NewBufferString(`{"username":"alice","password":"s3cr3t"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}

	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["token"] != "jwt-token" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestSignIn_BadCredentials(t *testing.T) {
	auth := &mockAuth{genTokenErr: errors.New("invalid password")}
	r := newTestRouter(&service.Service{Authorization: auth}, Config{})

	body := bytes.NewBufferString(`{"username":"alice","password":"wrong"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
