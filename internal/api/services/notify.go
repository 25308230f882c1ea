package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/chondosha/bookchat-server/internal/config"
	"github.com/chondosha/bookchat-server/internal/models"
	"github.com/chondosha/bookchat-server/internal/repositories"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var pushClient = &http.Client{Timeout: 5 * time.Second}

type pushPayload struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotifyNewMessage pushes a "new message" notification to every group
// member with a registered device, except the sender. Best effort: errors
// are logged and never surfaced to the request that created the message.
func NotifyNewMessage(message models.Message, sender models.User, groupID uuid.UUID) {
	if config.Envs.PushGatewayURL == "" {
		return
	}

	members, err := repositories.Members(groupID)
	if err != nil {
		log.Println("notify: failed to load group members:", err)
		return
	}

	tokens := lo.FilterMap(members, func(m models.User, _ int) (string, bool) {
		return m.DeviceToken, m.DeviceToken != "" && m.ID != sender.ID
	})
	if len(tokens) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var g errgroup.Group
	for _, token := range tokens {
		g.Go(func() error {
			if err := pushOne(ctx, token, sender.Username, message.Text); err != nil {
				log.Println("notify: push failed:", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func pushOne(ctx context.Context, deviceToken, title, body string) error {
	payload, err := json.Marshal(pushPayload{
		To:    deviceToken,
		Title: title,
		Body:  body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.Envs.PushGatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if config.Envs.PushAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+config.Envs.PushAPIKey)
	}

	resp, err := pushClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
