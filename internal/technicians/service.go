package technicians

import "context"

// RepositoryPort defines data access methods for technicians.
type RepositoryPort interface {
	Create(ctx context.Context, req CreateTechnicianRequest) (*Technician, error)
	Get(ctx context.Context, id int64) (*Technician, error)
	List(ctx context.Context, onlyActive bool) ([]Technician, error)
	Update(ctx context.Context, id int64, req UpdateTechnicianRequest) error
}

// Service handles technician business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a new technician.
func (s *Service) Create(ctx context.Context, req CreateTechnicianRequest) (*Technician, error) {
	return s.repo.Create(ctx, req)
}

// Get loads one technician.
func (s *Service) Get(ctx context.Context, id int64) (*Technician, error) {
	return s.repo.Get(ctx, id)
}

// List returns technicians, optionally only active ones.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]Technician, error) {
	return s.repo.List(ctx, onlyActive)
}

// Update patches a technician.
func (s *Service) Update(ctx context.Context, id int64, req UpdateTechnicianRequest) error {
	return s.repo.Update(ctx, id, req)
}
