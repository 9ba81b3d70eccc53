package clients

import "context"

// RepositoryPort defines data access methods for clients.
type RepositoryPort interface {
	Create(ctx context.Context, req CreateClientRequest) (*Client, error)
	Get(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, req ListClientsRequest) ([]Client, int, error)
	Update(ctx context.Context, id int64, req UpdateClientRequest) error
	Deactivate(ctx context.Context, id int64) error
}

// Service handles client business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a new client.
func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	return s.repo.Create(ctx, req)
}

// Get loads one client.
func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered client page.
func (s *Service) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	return s.repo.List(ctx, req)
}

// Update patches a client.
func (s *Service) Update(ctx context.Context, id int64, req UpdateClientRequest) error {
	return s.repo.Update(ctx, id, req)
}

// Deactivate soft-deletes a client.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
