package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsToBotEndpoint(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN123", "chat42")
	tg.baseURL = srv.URL

	if err := tg.Send(context.Background(), "Dry plant detected: PlantA"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/botTOKEN123/sendMessage" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotBody.ChatID != "chat42" || gotBody.ParseMode != "Markdown" {
		t.Errorf("body: got %+v", gotBody)
	}
	if gotBody.Text != "Dry plant detected: PlantA" {
		t.Errorf("text: got %q", gotBody.Text)
	}
}

func TestSendNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusForbidden)
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "chat")
	tg.baseURL = srv.URL

	if err := tg.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestSendRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "chat")
	tg.baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tg.Send(ctx, "hello"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
