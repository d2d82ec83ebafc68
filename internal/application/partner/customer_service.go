package partner

import (
	"context"

	"github.com/bookstore/backend/internal/application/uow"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	uow uow.Factory
	now shared.Clock
}

// NewCustomerService creates a new CustomerService. A nil clock uses UTC wall time.
func NewCustomerService(factory uow.Factory, clock shared.Clock) *CustomerService {
	if clock == nil {
		clock = shared.UTCNow
	}
	return &CustomerService{
		uow: factory,
		now: clock,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.FirstName, req.LastName, req.Email, s.now())
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(repos uow.Repositories) error {
		return repos.Customers().Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var customer *partner.Customer
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		customer, err = repos.Customers().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a page of customers matching the filter
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Page[CustomerResponse], error) {
	domainFilter, page := filter.domain()
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var result *shared.Page[partner.Customer]
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		result, err = repos.Customers().List(ctx, domainFilter, page)
		return err
	})
	if err != nil {
		return nil, err
	}

	return shared.MapPage(result, func(c partner.Customer) CustomerResponse {
		return ToCustomerResponse(&c)
	}), nil
}

// Update replaces the names and email of a customer
func (s *CustomerService) Update(ctx context.Context, id int64, req CustomerRequest) (*CustomerResponse, error) {
	if err := shared.ValidateID(id); err != nil {
		return nil, err
	}

	var customer *partner.Customer
	err := s.uow.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		customer, err = repos.Customers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := customer.Update(req.FirstName, req.LastName, req.Email, s.now()); err != nil {
			return err
		}
		return repos.Customers().Update(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer that has never been invoiced
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := shared.ValidateID(id); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Customers().FindByID(ctx, id); err != nil {
			return err
		}
		invoices, err := repos.Customers().CountInvoices(ctx, id)
		if err != nil {
			return err
		}
		if invoices > 0 {
			return shared.ErrHasDependents.WithMessagef("customer %d still has %d invoice(s)", id, invoices)
		}
		return repos.Customers().Delete(ctx, id)
	})
}
