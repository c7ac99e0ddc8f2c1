package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"speshway-platform/models"
)

type ClientStore interface {
	List(ctx context.Context, includeInactive bool) ([]models.Client, error)
	Get(ctx context.Context, id string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ClientService struct {
	store ClientStore
	now   func() time.Time
}

func NewClientService(store ClientStore) *ClientService {
	return &ClientService{store: store, now: time.Now}
}

func (s *ClientService) List(ctx context.Context, vis Visibility) ([]models.Client, error) {
	clients, err := s.store.List(ctx, vis.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.store.Get(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, req models.CreateClientRequest) (*models.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "Client name is required")
	}

	now := s.now().UTC()
	client := &models.Client{
		Name:        name,
		Logo:        strings.TrimSpace(req.Logo),
		Website:     strings.TrimSpace(req.Website),
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.store.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id string, req models.UpdateClientRequest) (*models.Client, error) {
	client, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name", "Client name is required")
		}
		client.Name = name
	}
	if req.Logo != nil {
		client.Logo = strings.TrimSpace(*req.Logo)
	}
	if req.Website != nil {
		client.Website = strings.TrimSpace(*req.Website)
	}
	if req.Description != nil {
		client.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	client.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	client, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, client.ID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
