// Package event publishes POS domain events to Kafka. Publishing is
// fire-and-forget: the caller logs failures and never rolls back.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tinybakery/pos/internal/domain"
	pkgkafka "github.com/tinybakery/pos/pkg/kafka"
)

// Kafka topic constants for POS domain events.
const (
	TopicSaleCompleted     = "bakery.pos.sale.completed"
	TopicInventoryUpdated  = "bakery.pos.inventory.updated"
	TopicInventoryLowStock = "bakery.pos.inventory.low_stock"
)

// Aggregate type constants.
const (
	AggregateTypeSale      = "sale"
	AggregateTypeInventory = "inventory"
)

// SourcePOS identifies events originating from this service.
const SourcePOS = "bakery-pos"

// SaleCompletedData is the payload for a sale.completed event.
type SaleCompletedData struct {
	SaleID   string            `json:"sale_id"`
	Items    []domain.SaleItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Saved    float64           `json:"saved"`
}

// InventoryUpdatedData is the payload for an inventory.updated event.
type InventoryUpdatedData struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ItemType  domain.ItemType `json:"item_type"`
	Available int             `json:"available"`
}

// InventoryLowStockData is the payload for an inventory.low_stock event.
type InventoryLowStockData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Alert     string `json:"alert"`
	Available int    `json:"available"`
}

// Producer publishes POS domain events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishSaleCompleted publishes a sale.completed event for a committed sale.
func (p *Producer) PublishSaleCompleted(ctx context.Context, record *domain.SaleRecord) error {
	data := SaleCompletedData{
		SaleID:   record.ID,
		Items:    record.Items,
		Subtotal: record.Subtotal,
		Saved:    record.Saved,
	}

	event, err := pkgkafka.NewEvent(TopicSaleCompleted, record.ID, AggregateTypeSale, SourcePOS, data)
	if err != nil {
		return fmt.Errorf("create sale.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSaleCompleted, event); err != nil {
		return fmt.Errorf("publish sale.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published sale.completed event",
		slog.String("sale_id", record.ID),
	)
	return nil
}

// PublishInventoryUpdated publishes an inventory.updated event for a product
// whose stock level changed (restock or checkout).
func (p *Producer) PublishInventoryUpdated(ctx context.Context, product *domain.Product) error {
	data := InventoryUpdatedData{
		ProductID: product.ID,
		Name:      product.Name,
		ItemType:  product.Type,
		Available: product.Stock.Available(),
	}

	event, err := pkgkafka.NewEvent(TopicInventoryUpdated, product.ID, AggregateTypeInventory, SourcePOS, data)
	if err != nil {
		return fmt.Errorf("create inventory.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInventoryUpdated, event); err != nil {
		return fmt.Errorf("publish inventory.updated event: %w", err)
	}
	return nil
}

// PublishInventoryLowStock publishes an inventory.low_stock event.
func (p *Producer) PublishInventoryLowStock(ctx context.Context, product *domain.Product) error {
	data := InventoryLowStockData{
		ProductID: product.ID,
		Name:      product.Name,
		Alert:     product.LowStockAlert(),
		Available: product.Stock.Available(),
	}

	event, err := pkgkafka.NewEvent(TopicInventoryLowStock, product.ID, AggregateTypeInventory, SourcePOS, data)
	if err != nil {
		return fmt.Errorf("create inventory.low_stock event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInventoryLowStock, event); err != nil {
		return fmt.Errorf("publish inventory.low_stock event: %w", err)
	}
	return nil
}
