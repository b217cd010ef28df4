package report

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SaveDeliveryPDF renders the given delivery report into a PDF document.
func SaveDeliveryPDF(rep DeliveryReport, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("SBD Delivery Report", false)
	pdf.SetAuthor("sbdctl", false)
	pdf.SetCreator("sbdctl", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "SBD Delivery Report")
	addSummarySection(pdf, rep)
	addDeviceTableSection(pdf, rep.Devices)
	addDeviceQRSection(pdf, rep.Devices)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addSummarySection(pdf *gofpdf.Fpdf, rep DeliveryReport) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Generated", value: rep.GeneratedAt.Format(time.RFC3339)},
		{label: "Messages", value: strconv.Itoa(rep.Messages)},
		{label: "Devices", value: strconv.Itoa(len(rep.Devices))},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addDeviceTableSection(pdf *gofpdf.Fpdf, devices []DeviceSummary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Devices")
	pdf.Ln(9)

	if len(devices) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No messages stored.", "", "L", false)
		return
	}

	headers := []string{"IMEI", "Messages", "Payload", "Fixes", "First Session", "Last Session"}
	widths := []float64{36, 20, 20, 16, 44, 44}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	lineHeight := 5.0
	for _, device := range devices {
		values := []string{
			device.IMEI,
			strconv.Itoa(device.Messages),
			strconv.Itoa(device.PayloadBytes),
			strconv.Itoa(device.LocationFixes),
			device.FirstSession.Format("2006-01-02 15:04:05"),
			device.LastSession.Format("2006-01-02 15:04:05"),
		}
		renderTableRow(pdf, widths, values, lineHeight)
	}
	pdf.Ln(4)
}

func addDeviceQRSection(pdf *gofpdf.Fpdf, devices []DeviceSummary) {
	if len(devices) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Device Codes")
	pdf.Ln(9)

	for _, device := range devices {
		png, err := IMEIToQR(device.IMEI, 256)
		if err != nil {
			continue
		}
		name := "qr-" + device.IMEI
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, device.IMEI)
		pdf.Ln(7)
		pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 30, 30, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(34)
	}
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * lineHeight
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		cellText := strings.Join(lines, "\n")
		pdf.MultiCell(widths[i], lineHeight, cellText, "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+rowHeight)
}
