package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestGetUserByID_Success(t *testing.T) {
	userID := uuid.MustParse("4f2c8b9e-1d3a-4c5b-8e7f-9a0b1c2d3e4f")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/"+userID.String() {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "` + userID.String() + `", "email": "jane@example.com", "name": "Jane"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/users")

	user, err := client.GetUserByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user == nil {
		t.Fatal("Expected user, got nil")
	}
	if user.Email != "jane@example.com" {
		t.Errorf("Expected email jane@example.com, got %s", user.Email)
	}
	if user.Name == nil || *user.Name != "Jane" {
		t.Error("Expected name Jane")
	}
}

func TestGetUserByID_NotFoundReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/users")

	user, err := client.GetUserByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error for 404, got %v", err)
	}
	if user != nil {
		t.Errorf("Expected nil user for 404, got %+v", user)
	}
}

func TestGetUserByID_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/users")

	_, err := client.GetUserByID(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("Expected error for 500 response, got nil")
	}
}
