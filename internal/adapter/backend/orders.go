package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

const (
	makeOrderPath    = "/api/order/makeOrder"
	getOrdersPath    = "/api/order/getOrders"
	updateStatusPath = "/api/order/updateStatus/"
)

type updateStatusRequest struct {
	OrderStatus model.OrderStatus `json:"OrderStatus"`
}

// OrderGateway implements repository.OrderGateway over Client.
type OrderGateway struct {
	client *Client
}

// NewOrderGateway wraps client.
func NewOrderGateway(client *Client) *OrderGateway {
	return &OrderGateway{client: client}
}

// MakeOrder submits the quote form as multipart/form-data.
func (g *OrderGateway) MakeOrder(ctx context.Context, form repository.OrderForm) (*model.Order, error) {
	payload, err := Multipart(form)
	if err != nil {
		return nil, err
	}
	order, err := Decode[model.Order](g.client.Post(ctx, makeOrderPath, payload)).Unwrap()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders lists every order visible to the signed-in admin. Rows that do
// not decode, such as ones carrying an unknown status, are logged and left
// out instead of failing the whole list.
func (g *OrderGateway) GetOrders(ctx context.Context) ([]model.Order, error) {
	raws, err := Decode[[]json.RawMessage](g.client.Get(ctx, getOrdersPath)).Unwrap()
	if err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(raws))
	for i, raw := range raws {
		var order model.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			g.client.logger.Warn("skipping undecodable order",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus sets the status of order id and returns the server copy.
func (g *OrderGateway) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	payload, err := JSON(updateStatusRequest{OrderStatus: status})
	if err != nil {
		return nil, err
	}
	order, err := Decode[model.Order](g.client.Patch(ctx, updateStatusPath+strconv.FormatInt(id, 10), payload)).Unwrap()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Multipart encodes form with the backend's field names. The body is
// buffered so the request can be replayed after a token refresh.
func Multipart(form repository.OrderForm) (Payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"CustomerName", form.CustomerName},
		{"CustomerEmail", form.CustomerEmail},
		{"CustomerPhoneNumber", form.CustomerPhoneNumber},
		{"DeadLine", form.Deadline.UTC().Format(time.RFC3339Nano)},
		{"PageCount", strconv.Itoa(form.PageCount)},
		{"PreferredContact", string(form.PreferredContact)},
	}
	if form.Notes != "" {
		fields = append(fields, [2]string{"Notes", form.Notes})
	}
	if form.WordCount != nil {
		fields = append(fields, [2]string{"WordCount", strconv.Itoa(*form.WordCount)})
	}
	if form.SourceLanguage != "" {
		fields = append(fields, [2]string{"SourceLanguage", form.SourceLanguage})
	}
	if form.TargetLanguage != "" {
		fields = append(fields, [2]string{"TargetLanguage", form.TargetLanguage})
	}
	for i, service := range form.Services {
		fields = append(fields, [2]string{fmt.Sprintf("Services[%d]", i), service})
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if form.File != nil {
		part, err := w.CreateFormFile("File", form.File.Name)
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, form.File.Content); err != nil {
			return nil, fmt.Errorf("copy file: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return rawPayload{contentType: w.FormDataContentType(), body: buf.Bytes()}, nil
}
