package report

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ════════════════════════════════════════════════════════════════════
// PDF Export — HTML → PDF via wkhtmltopdf / chromium headless
// ════════════════════════════════════════════════════════════════════

// PDFEngine specifies which engine to use for HTML→PDF conversion.
type PDFEngine string

const (
	EngineWKHTML   PDFEngine = "wkhtmltopdf"
	EngineChromium PDFEngine = "chromium"
	EngineNone     PDFEngine = "none"
)

// DetectPDFEngine checks which PDF engine is available on the system.
func DetectPDFEngine() PDFEngine {
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return EngineWKHTML
	}
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return EngineChromium
		}
	}
	return EngineNone
}

// GeneratePDF converts a rendered HTML report to a PDF file at outputPath.
// The engine is auto-detected; an error is returned when neither
// wkhtmltopdf nor chromium is installed.
func GeneratePDF(html, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}

	tmp, err := os.CreateTemp("", "finscope-report-*.html")
	if err != nil {
		return fmt.Errorf("creating temp html: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp html: %w", err)
	}
	tmp.Close()

	switch DetectPDFEngine() {
	case EngineWKHTML:
		cmd := exec.Command("wkhtmltopdf",
			"--page-size", "A4",
			"--margin-top", "15mm", "--margin-bottom", "15mm",
			"--margin-left", "10mm", "--margin-right", "10mm",
			"--encoding", "utf-8",
			tmp.Name(), outputPath)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("wkhtmltopdf failed: %w: %s", err, out)
		}
		return nil

	case EngineChromium:
		abs, err := filepath.Abs(outputPath)
		if err != nil {
			return fmt.Errorf("resolving output path: %w", err)
		}
		name := chromiumBinary()
		cmd := exec.Command(name,
			"--headless", "--disable-gpu", "--no-sandbox",
			"--print-to-pdf="+abs,
			"file://"+tmp.Name())
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s failed: %w: %s", name, err, out)
		}
		return nil

	default:
		return fmt.Errorf("no PDF engine found: install wkhtmltopdf or chromium")
	}
}

func chromiumBinary() string {
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return "chromium"
}
