package types

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageFilter carries page-based pagination parameters
type PageFilter struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

func (f PageFilter) GetPage() int {
	if f.Page < 1 {
		return defaultPage
	}
	return f.Page
}

func (f PageFilter) GetPageSize() int {
	if f.PageSize < 1 {
		return defaultPageSize
	}
	if f.PageSize > maxPageSize {
		return maxPageSize
	}
	return f.PageSize
}

func (f PageFilter) GetLimit() int {
	return f.GetPageSize()
}

func (f PageFilter) GetOffset() int {
	return (f.GetPage() - 1) * f.GetPageSize()
}

// TransactionFilter filters wallet transaction listings
type TransactionFilter struct {
	PageFilter
	Type *TransactionType `json:"type,omitempty" form:"type"`
}

func (f *TransactionFilter) Validate() error {
	if f.Type != nil {
		return f.Type.Validate()
	}
	return nil
}

// InvoiceFilter filters invoice listings
type InvoiceFilter struct {
	PageFilter
	Status *InvoiceStatus `json:"status,omitempty" form:"status"`
}

func (f *InvoiceFilter) Validate() error {
	if f.Status != nil {
		return f.Status.Validate()
	}
	return nil
}
