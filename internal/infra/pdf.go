package infra

// pdf.go — payment receipt generation with go-pdf/fpdf.
// A7-size receipts matching the thermal paper the stores print on:
//   - Business header
//   - Contract and payment identifiers
//   - Amount, method and payment date
//   - Cliente and Equipo lines when loaded
//
// Output goes to storagePath/recibo_{contrato}_{pago}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"telcuotas/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarReciboPDF writes the receipt for an approved Pago and returns the
// absolute path of the generated file. storagePath is created if missing.
func GenerarReciboPDF(contrato *model.Contrato, pago *model.Pago, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s_%s.pdf", contrato.ID, pago.ID.String()[:8])
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm, not in fpdf's named sizes so we pass it explicitly.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "TelCuotas", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Pago", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Contrato %s", contrato.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, pago.FechaPago.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	labelW := contentW * 0.45
	valueW := contentW * 0.55

	fila := func(label, value string) {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(labelW, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5, value, "", 1, "R", false, 0, "")
	}

	if contrato.Cliente != nil {
		fila("Cliente:", contrato.Cliente.Nombre)
	}
	if contrato.Equipo != nil {
		equipo := contrato.Equipo.NombreCompleto()
		if len(equipo) > 24 {
			equipo = equipo[:23] + "…"
		}
		fila("Equipo:", equipo)
	}
	fila("Método:", string(pago.Metodo))
	if pago.ComprobanteRef != nil {
		ref := *pago.ComprobanteRef
		if len(ref) > 20 {
			ref = ref[:19] + "…"
		}
		fila("Comprobante:", ref)
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "MONTO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 6, "$"+pago.Monto.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Gracias por su pago", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 6)
	pdf.CellFormat(contentW, 4, "Válido una vez verificado por administración", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
