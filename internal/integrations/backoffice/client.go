package backoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для уведомления бэк-офиса персонала о новых бронированиях
type Client struct {
	url        string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента бэк-офиса
// Пустой url отключает уведомления.
func NewClient(url string, timeout time.Duration, log Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled возвращает true, если адрес бэк-офиса настроен
func (c *Client) Enabled() bool {
	return c.url != ""
}

// SendBookingCreated отправляет уведомление о новом бронировании
func (c *Client) SendBookingCreated(ctx context.Context, notification BookingNotification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// NotifyBookingCreated уведомляет бэк-офис с graceful degradation
// Ошибки только логируются: недоступность бэк-офиса не влияет на бронирование
func (c *Client) NotifyBookingCreated(ctx context.Context, notification BookingNotification) {
	if !c.Enabled() {
		return
	}

	if err := c.SendBookingCreated(ctx, notification); err != nil {
		c.log.Warn("Backoffice notification failed for booking_id=%d: %v", notification.BookingID, err)
		return
	}

	c.log.Info("Backoffice notified about booking_id=%d", notification.BookingID)
}
