package bot

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Routes собирает HTTP-поверхность бота: webhook, регистрация webhook
// и liveness-ответ на остальные пути.
func (b *Bot) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/setup", b.handleSetup)
	mux.HandleFunc("/", b.handleDefault)
	return mux
}

// handleWebhook принимает входящее событие Telegram. Любой ответ, кроме
// нечитаемого конверта или паники в цепочке обработки, — 200 "OK":
// Telegram не должен ретраить события из-за наших внутренних ошибок.
func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Bot] Panic while handling webhook: %v", rec)
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			http.Error(w, "Error", http.StatusInternalServerError)
		}
	}()

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("[Bot] Error decoding webhook update: %v", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	b.HandleUpdate(r.Context(), update)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleSetup регистрирует собственный публичный адрес как webhook
// в Telegram и возвращает сырой ответ API.
func (b *Bot) handleSetup(w http.ResponseWriter, r *http.Request) {
	base := b.config.Telegram.WebhookURL
	if base == "" {
		base = "https://" + r.Host
	}
	webhookURL := strings.TrimRight(base, "/") + "/webhook"

	w.Header().Set("Content-Type", "application/json")

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		log.Printf("[Bot] Error building webhook config for %s: %v", webhookURL, err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to set webhook"})
		return
	}

	resp, err := b.tg.Request(wh)
	if err != nil {
		log.Printf("[Bot] Error registering webhook %s: %v", webhookURL, err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to set webhook"})
		return
	}

	log.Printf("[Bot] Webhook registered: %s", webhookURL)
	_ = json.NewEncoder(w).Encode(resp)
}

func (b *Bot) handleDefault(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("Food Daily Bot is running"))
}
