package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/entity"
	"github.com/tu-usuario/pedidos-pro/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD para clientes mayoristas.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. El código es único por empresa.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Code == "" || in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndCode(companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        in.Code,
		Name:        in.Name,
		TaxID:       in.TaxID,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		CreditLimit: in.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID, verificando pertenencia a la empresa.
func (uc *CustomerUseCase) GetByID(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(customer), nil
}

// Update actualiza los datos de contacto y crédito de un cliente.
func (uc *CustomerUseCase) Update(companyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.CreditLimit.IsNegative() || in.Balance.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		customer.Name = in.Name
	}
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Address = in.Address
	customer.CreditLimit = in.CreditLimit
	customer.Balance = in.Balance
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes de la empresa con paginación.
func (uc *CustomerUseCase) List(companyID string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		Code:            c.Code,
		Name:            c.Name,
		TaxID:           c.TaxID,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		CreditLimit:     c.CreditLimit,
		Balance:         c.Balance,
		AvailableCredit: c.CreditLimit.Sub(c.Balance),
	}
}
