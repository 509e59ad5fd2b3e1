package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"diagnostic-ai-agent/internal/session"
	"diagnostic-ai-agent/internal/textutil"
)

// fontPaths are probed in order; DejaVuSans ships in most base images.
var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// Service renders a completed session's analysis report as a PDF document.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Render produces an A4 PDF of the session's final report.
func (s *Service) Render(sess *session.Session) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Medical Analysis Report")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session: %s", sess.ID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Questions asked: %d", sess.QuestionCount))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	body := textutil.Beautify(sess.ReportContent(), 100)
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			pdf.Br(8)
			continue
		}
		lines, _ := pdf.SplitText(line, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}
	pdf.Br(15)

	// Footer disclaimer
	pdf.SetY(800)
	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "This report is AI-generated and is not a substitute for professional medical advice.")

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
