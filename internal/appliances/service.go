package appliances

import "context"

// RepositoryPort defines data access methods for appliances.
type RepositoryPort interface {
	CreateBrand(ctx context.Context, name string) (*Brand, error)
	ListBrands(ctx context.Context) ([]Brand, error)
	CreateType(ctx context.Context, name string) (*ApplianceType, error)
	ListTypes(ctx context.Context) ([]ApplianceType, error)
	CreateClientAppliance(ctx context.Context, req CreateClientApplianceRequest) (*ClientAppliance, error)
	GetClientAppliance(ctx context.Context, id int64) (*ClientAppliance, error)
	ListByClient(ctx context.Context, clientID int64) ([]ClientAppliance, error)
}

// Service handles appliance catalogue logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateBrand registers a brand.
func (s *Service) CreateBrand(ctx context.Context, req CreateBrandRequest) (*Brand, error) {
	return s.repo.CreateBrand(ctx, req.Name)
}

// ListBrands returns every brand.
func (s *Service) ListBrands(ctx context.Context) ([]Brand, error) {
	return s.repo.ListBrands(ctx)
}

// CreateType registers an appliance type.
func (s *Service) CreateType(ctx context.Context, req CreateTypeRequest) (*ApplianceType, error) {
	return s.repo.CreateType(ctx, req.Name)
}

// ListTypes returns every appliance type.
func (s *Service) ListTypes(ctx context.Context) ([]ApplianceType, error) {
	return s.repo.ListTypes(ctx)
}

// CreateClientAppliance registers an appliance for a client.
func (s *Service) CreateClientAppliance(ctx context.Context, req CreateClientApplianceRequest) (*ClientAppliance, error) {
	return s.repo.CreateClientAppliance(ctx, req)
}

// GetClientAppliance loads one client appliance.
func (s *Service) GetClientAppliance(ctx context.Context, id int64) (*ClientAppliance, error) {
	return s.repo.GetClientAppliance(ctx, id)
}

// ListByClient returns the appliances owned by a client.
func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]ClientAppliance, error) {
	return s.repo.ListByClient(ctx, clientID)
}
