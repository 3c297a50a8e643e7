package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// GenerateStatementPDF renders a persisted pay calculation as a PDF and
// returns the file path.
func (s *Service) GenerateStatementPDF(ctx context.Context, calculationID int64) (string, error) {
	data, err := s.store.GetStatementData(ctx, calculationID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.statementDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.statementDir, fmt.Sprintf("calculation_%d.pdf", calculationID))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Pay Calculation Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", data.Username))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		data.PayPeriodStart.Format("2006-01-02"), data.PayPeriodEnd.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Pay Components")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)

	names := make([]string, 0, len(data.PayComponents))
	for name := range data.PayComponents {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		component := data.PayComponents[name]
		line := fmt.Sprintf("%s: %.2f h", name, component.Hours)
		if component.Multiplier != 0 {
			line += fmt.Sprintf(" x %.2f", component.Multiplier)
		}
		if component.Differential != 0 {
			line += fmt.Sprintf(" + %s/h", money(component.Differential))
		}
		if component.Amount != 0 {
			line += fmt.Sprintf("  amount %s", money(component.Amount))
		}
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total hours: %.2f", data.TotalHours))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Regular: %.2f  Overtime: %.2f  Double time: %.2f",
		data.RegularHours, data.OvertimeHours, data.DoubleTimeHours))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Allowances: %s", money(data.TotalAllowances)))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func money(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}
