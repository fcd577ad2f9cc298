package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/report"
)

// Export names, used for download filenames and archive keys
const (
	OrdersExportName       = "orders"
	TopCustomersExportName = "top_customers"
)

var (
	orderExportHeader       = []string{"order_id", "customer_id", "first_name", "last_name", "email", "total_price", "created_at"}
	topCustomerExportHeader = []string{"first_name", "last_name", "email", "total_spent"}
)

// Export is a rendered CSV document
type Export struct {
	Filename string
	Data     []byte
	// ArchiveKey is the storage key of the archived copy, empty when not archived.
	ArchiveKey string
}

// ExportOrdersCSV renders every order of the tenant as CSV
func (s *Service) ExportOrdersCSV(ctx context.Context, tenantID uuid.UUID) (*Export, error) {
	rows, err := s.ExportOrders(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, rows); err != nil {
		return nil, err
	}
	return s.export(ctx, tenantID, OrdersExportName, buf.Bytes()), nil
}

// ExportTopCustomersCSV renders the full spend ranking as CSV
func (s *Service) ExportTopCustomersCSV(ctx context.Context, tenantID uuid.UUID) (*Export, error) {
	rows, err := s.ExportTopCustomers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteTopCustomersCSV(&buf, rows); err != nil {
		return nil, err
	}
	return s.export(ctx, tenantID, TopCustomersExportName, buf.Bytes()), nil
}

// export archives data when an archiver is configured. Archive failures are
// logged; the download is still served.
func (s *Service) export(ctx context.Context, tenantID uuid.UUID, name string, data []byte) *Export {
	e := &Export{Filename: name + ".csv", Data: data}
	if s.archiver == nil {
		return e
	}
	key, err := s.archiver.Archive(ctx, tenantID, name, data)
	if err != nil {
		s.logger.Warn("Failed to archive export",
			zap.String("tenant_id", tenantID.String()),
			zap.String("export", name),
			zap.Error(err))
		return e
	}
	e.ArchiveKey = key
	return e
}

// WriteOrdersCSV writes the order export with its header row. Null values
// become empty cells.
func WriteOrdersCSV(w io.Writer, rows []report.OrderExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		customerID := ""
		if r.CustomerID != nil {
			customerID = strconv.FormatInt(*r.CustomerID, 10)
		}
		total := ""
		if r.TotalPrice.Valid {
			total = r.TotalPrice.Decimal.StringFixed(2)
		}
		record := []string{
			strconv.FormatInt(r.OrderID, 10),
			customerID,
			r.FirstName,
			r.LastName,
			r.Email,
			total,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTopCustomersCSV writes the customer ranking with its header row
func WriteTopCustomersCSV(w io.Writer, rows []report.CustomerSpend) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(topCustomerExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.FirstName, r.LastName, r.Email, r.TotalSpent.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
